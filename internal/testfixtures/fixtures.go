package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

var entryCounter uint64

var referenceTime = time.Date(2025, time.November, 19, 10, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDay returns the day key of ReferenceTime.
func ReferenceDay() string {
	return schedule.DateString(referenceTime)
}

// EntryFixture represents a deterministic schedule entry.
type EntryFixture struct {
	ID        string
	ArtistID  string
	ClientID  string
	Date      string
	StartTime string
	EndTime   string
	Status    schedule.Status
	Notes     string
	ServiceID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntryOption configures the generated entry fixture.
type EntryOption func(*EntryFixture)

// NewEntryFixture returns an available one-hour slot on the reference day
// owned by "artist-1", with optional overrides.
func NewEntryFixture(opts ...EntryOption) EntryFixture {
	idx := atomic.AddUint64(&entryCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := EntryFixture{
		ID:        fmt.Sprintf("entry-%03d", idx),
		ArtistID:  "artist-1",
		Date:      ReferenceDay(),
		StartTime: "09:00",
		EndTime:   "10:00",
		Status:    schedule.StatusAvailable,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEntryID overrides the generated id.
func WithEntryID(id string) EntryOption {
	return func(f *EntryFixture) {
		f.ID = id
	}
}

// WithEntryArtist overrides the owning artist.
func WithEntryArtist(id string) EntryOption {
	return func(f *EntryFixture) {
		f.ArtistID = id
	}
}

// WithEntryDate overrides the entry date. Any ISO form is accepted.
func WithEntryDate(date string) EntryOption {
	return func(f *EntryFixture) {
		f.Date = date
	}
}

// WithEntryTimes overrides the start and end wall-clock times.
func WithEntryTimes(start, end string) EntryOption {
	return func(f *EntryFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithEntryStatus overrides the status.
func WithEntryStatus(status schedule.Status) EntryOption {
	return func(f *EntryFixture) {
		f.Status = status
	}
}

// WithEntryBookedBy marks the entry booked by clientID.
func WithEntryBookedBy(clientID string) EntryOption {
	return func(f *EntryFixture) {
		f.Status = schedule.StatusBooked
		f.ClientID = clientID
	}
}

// WithEntryNotes overrides the notes.
func WithEntryNotes(notes string) EntryOption {
	return func(f *EntryFixture) {
		f.Notes = notes
	}
}

// WithEntryService sets the referenced service.
func WithEntryService(id string) EntryOption {
	return func(f *EntryFixture) {
		f.ServiceID = id
	}
}

// Entry materialises the fixture as a schedule entry.
func (f EntryFixture) Entry() schedule.Entry {
	return schedule.Entry{
		ID:        f.ID,
		ArtistID:  f.ArtistID,
		ClientID:  f.ClientID,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Status:    f.Status,
		Notes:     f.Notes,
		ServiceID: f.ServiceID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Input materialises the fixture as a creation payload.
func (f EntryFixture) Input() schedule.NewEntry {
	return schedule.NewEntry{
		ArtistID:  f.ArtistID,
		ClientID:  f.ClientID,
		Date:      f.Date,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Status:    f.Status,
		Notes:     f.Notes,
		ServiceID: f.ServiceID,
	}
}

// Entries materialises several fixtures at once.
func Entries(fixtures ...EntryFixture) []schedule.Entry {
	entries := make([]schedule.Entry, 0, len(fixtures))
	for _, f := range fixtures {
		entries = append(entries, f.Entry())
	}
	return entries
}
