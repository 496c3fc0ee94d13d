// Package mockstore keeps an in-process schedule dataset that honours the
// same contract as the REST schedule endpoints. It backs offline demos and
// the fallback path of the schedule client.
package mockstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

// Store is a concurrency-safe in-memory schedule backend.
type Store struct {
	mu      sync.RWMutex
	entries []schedule.Entry
	nextID  int
	newID   func() string

	rndMu sync.Mutex
	rnd   *rand.Rand

	now      func() time.Time
	latency  func(context.Context) error
	artistID string
	clientID string
	seed     bool
	logger   *slog.Logger
}

// New constructs a Store and seeds it unless WithoutSeed is given.
func New(opts ...Option) *Store {
	s := &Store{
		rnd:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		now:      time.Now,
		artistID: DefaultArtistID,
		clientID: DefaultClientID,
		seed:     true,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.latency = s.randomLatency
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		s.entries = s.generate()
	}
	s.nextID = len(s.entries) + 1
	return s
}

// ClientID returns the client recorded on anonymous bookings.
func (s *Store) ClientID() string {
	return s.clientID
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency == nil {
		return ctx.Err()
	}
	return s.latency(ctx)
}

// List returns the entries matching filter in insertion order.
func (s *Store) List(ctx context.Context, filter schedule.Filter) ([]schedule.Entry, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]schedule.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		if filter.Matches(entry) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (schedule.Entry, error) {
	if err := s.wait(ctx); err != nil {
		return schedule.Entry{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	return s.entries[idx], nil
}

// Create validates and appends a single entry.
func (s *Store) Create(ctx context.Context, input schedule.NewEntry) (schedule.Entry, error) {
	if err := input.Validate(); err != nil {
		return schedule.Entry{}, err
	}
	if err := checkCreatable(input); err != nil {
		return schedule.Entry{}, err
	}
	if err := s.wait(ctx); err != nil {
		return schedule.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.buildLocked(input)
	s.entries = append(s.entries, entry)
	s.logger.DebugContext(ctx, "mock entry created", "schedule_id", entry.ID, "total", len(s.entries))
	return entry, nil
}

// CreateBatch appends every entry or none of them.
func (s *Store) CreateBatch(ctx context.Context, inputs []schedule.NewEntry) ([]schedule.Entry, error) {
	for i, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, fmt.Errorf("horário %d: %w", i+1, err)
		}
		if err := checkCreatable(input); err != nil {
			return nil, fmt.Errorf("horário %d: %w", i+1, err)
		}
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]schedule.Entry, 0, len(inputs))
	for _, input := range inputs {
		created = append(created, s.buildLocked(input))
	}
	s.entries = append(s.entries, created...)
	s.logger.DebugContext(ctx, "mock batch created", "count", len(created), "total", len(s.entries))
	return append([]schedule.Entry(nil), created...), nil
}

// Update merges patch into the entry. Status changes must follow the
// schedule state machine, and booking only happens through Book: a patch may
// neither move an entry into booked nor change its client.
func (s *Store) Update(ctx context.Context, id string, patch schedule.Patch) (schedule.Entry, error) {
	if err := s.wait(ctx); err != nil {
		return schedule.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	current := s.entries[idx]
	if patch.Status != nil && !current.Status.CanTransitionTo(*patch.Status) {
		return schedule.Entry{}, schedule.ErrInvalidTransition
	}
	if patch.Status != nil && *patch.Status == schedule.StatusBooked && current.Status != schedule.StatusBooked {
		return schedule.Entry{}, schedule.ErrInvalidTransition
	}
	if patch.ClientID != nil && *patch.ClientID != current.ClientID {
		return schedule.Entry{}, schedule.ErrInvalidTransition
	}

	updated := patch.Apply(current)
	updated.ID = current.ID
	updated.UpdatedAt = s.now()
	s.entries[idx] = updated
	return updated, nil
}

// Book reserves an available entry for clientID, or for the store's
// default client when clientID is empty.
func (s *Store) Book(ctx context.Context, id, clientID, notes string) (schedule.Entry, error) {
	if err := s.wait(ctx); err != nil {
		return schedule.Entry{}, err
	}
	if clientID == "" {
		clientID = s.clientID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	entry := s.entries[idx]
	if entry.Status != schedule.StatusAvailable {
		return schedule.Entry{}, schedule.ErrNotAvailable
	}

	entry.Status = schedule.StatusBooked
	entry.ClientID = clientID
	entry.Notes = notes
	entry.UpdatedAt = s.now()
	s.entries[idx] = entry
	return entry, nil
}

// Cancel moves any entry to cancelled. Cancelling twice succeeds.
func (s *Store) Cancel(ctx context.Context, id string) (schedule.Entry, error) {
	if err := s.wait(ctx); err != nil {
		return schedule.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return schedule.Entry{}, schedule.ErrNotFound
	}
	entry := s.entries[idx]
	entry.Status = schedule.StatusCancelled
	entry.ClientID = ""
	entry.UpdatedAt = s.now()
	s.entries[idx] = entry
	return entry, nil
}

// Delete removes an entry unless it is booked.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return schedule.ErrNotFound
	}
	if s.entries[idx].Status == schedule.StatusBooked {
		return schedule.ErrBookedNotDeletable
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	return nil
}

// MyBookings lists the booked entries of clientID, defaulting to the
// store's client.
func (s *Store) MyBookings(ctx context.Context, clientID string) ([]schedule.Entry, error) {
	if clientID == "" {
		clientID = s.clientID
	}
	return s.List(ctx, schedule.Filter{ClientID: clientID, Status: schedule.StatusBooked})
}

// Future lists the artist's entries dated today or later. today is a day key.
func (s *Store) Future(ctx context.Context, artistID, today string) ([]schedule.Entry, error) {
	return s.List(ctx, schedule.Filter{ArtistID: artistID, DateFrom: today})
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) indexLocked(id string) int {
	for i, entry := range s.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) createdIDLocked() string {
	if s.newID != nil {
		return s.newID()
	}
	id := fmt.Sprintf("mock-created-%d", s.nextID)
	s.nextID++
	return id
}

// checkCreatable rejects booked entries that name no client.
func checkCreatable(input schedule.NewEntry) error {
	if input.Status == schedule.StatusBooked && input.ClientID == "" {
		return schedule.ErrInvalidTransition
	}
	return nil
}

func (s *Store) buildLocked(input schedule.NewEntry) schedule.Entry {
	now := s.now()
	entry := schedule.Entry{
		ID:        s.createdIDLocked(),
		ArtistID:  input.ArtistID,
		ClientID:  input.ClientID,
		Date:      input.Date,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Status:    input.Status,
		Notes:     input.Notes,
		ServiceID: input.ServiceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if entry.ArtistID == "" {
		entry.ArtistID = s.artistID
	}
	if entry.Status == "" {
		entry.Status = schedule.StatusAvailable
	}
	if entry.Status != schedule.StatusBooked {
		entry.ClientID = ""
	}
	return entry
}
