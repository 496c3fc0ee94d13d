package mockstore

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	// DefaultArtistID owns seeded entries when no artist is configured.
	DefaultArtistID = "mock-artista-id"
	// DefaultClientID books entries when the caller does not name a client.
	DefaultClientID = "mock-client-id"

	minLatency = 50 * time.Millisecond
	maxLatency = 200 * time.Millisecond
)

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for seeding and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRand sets the random source used for seeding and latency.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Store) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

// WithLatency replaces the simulated network delay.
func WithLatency(fn func(context.Context) error) Option {
	return func(s *Store) {
		s.latency = fn
	}
}

// WithoutLatency disables the simulated network delay.
func WithoutLatency() Option {
	return WithLatency(nil)
}

// WithArtistID sets the artist that owns seeded entries and creations
// submitted without an artist.
func WithArtistID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.artistID = id
		}
	}
}

// WithClientID sets the client recorded on bookings that name none.
func WithClientID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.clientID = id
		}
	}
}

// WithIDGenerator replaces the mock-created-<n> counter used for new
// entries. Seeded ids are unaffected.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		s.newID = next
	}
}

// WithoutSeed starts the store empty.
func WithoutSeed() Option {
	return func(s *Store) {
		s.seed = false
	}
}

// WithLogger attaches a logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// randomLatency sleeps for a uniform 50–200 ms, returning early when ctx ends.
func (s *Store) randomLatency(ctx context.Context) error {
	s.rndMu.Lock()
	delay := minLatency + time.Duration(s.rnd.Int64N(int64(maxLatency-minLatency)))
	s.rndMu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
