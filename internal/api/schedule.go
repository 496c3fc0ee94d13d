package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/schedule"
)

// MockSchedule is the offline schedule backend used in demo mode and when
// the backend cannot be reached.
type MockSchedule interface {
	List(ctx context.Context, filter schedule.Filter) ([]schedule.Entry, error)
	Get(ctx context.Context, id string) (schedule.Entry, error)
	Create(ctx context.Context, input schedule.NewEntry) (schedule.Entry, error)
	CreateBatch(ctx context.Context, inputs []schedule.NewEntry) ([]schedule.Entry, error)
	Update(ctx context.Context, id string, patch schedule.Patch) (schedule.Entry, error)
	Book(ctx context.Context, id, clientID, notes string) (schedule.Entry, error)
	Cancel(ctx context.Context, id string) (schedule.Entry, error)
	Delete(ctx context.Context, id string) error
	MyBookings(ctx context.Context, clientID string) ([]schedule.Entry, error)
	Future(ctx context.Context, artistID, today string) ([]schedule.Entry, error)
}

// ScheduleAPI wraps the schedule endpoints.
//
// In demo mode every call is served by the mock store. Otherwise, with the
// network fallback enabled, calls that receive no HTTP response are replayed
// against the mock store and logged at WARN level. HTTP error answers are
// always returned to the caller.
type ScheduleAPI struct {
	client   *Client
	mock     MockSchedule
	demo     bool
	fallback bool
	now      func() time.Time
	actor    func() string
	logger   *slog.Logger
}

// ScheduleOption configures a ScheduleAPI.
type ScheduleOption func(*ScheduleAPI)

// WithDemoMode routes every call to the mock store.
func WithDemoMode(enabled bool) ScheduleOption {
	return func(s *ScheduleAPI) {
		s.demo = enabled
	}
}

// WithMockFallback toggles the replay of network failures against the mock
// store. It is enabled by default.
func WithMockFallback(enabled bool) ScheduleOption {
	return func(s *ScheduleAPI) {
		s.fallback = enabled
	}
}

// WithScheduleClock overrides the clock that defines "today".
func WithScheduleClock(now func() time.Time) ScheduleOption {
	return func(s *ScheduleAPI) {
		if now != nil {
			s.now = now
		}
	}
}

// WithActingClient supplies the client id recorded by mock bookings.
func WithActingClient(actor func() string) ScheduleOption {
	return func(s *ScheduleAPI) {
		s.actor = actor
	}
}

// WithScheduleLogger sets the base logger.
func WithScheduleLogger(logger *slog.Logger) ScheduleOption {
	return func(s *ScheduleAPI) {
		s.logger = logger
	}
}

// NewScheduleAPI builds the schedule client. mock may be nil, which disables
// both demo mode and the fallback.
func NewScheduleAPI(client *Client, mock MockSchedule, opts ...ScheduleOption) *ScheduleAPI {
	s := &ScheduleAPI{
		client:   client,
		mock:     mock,
		fallback: true,
		now:      time.Now,
	}
	if client != nil && s.logger == nil {
		s.logger = client.logger
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DemoMode reports whether calls bypass the network.
func (s *ScheduleAPI) DemoMode() bool {
	return s.demo && s.mock != nil
}

func (s *ScheduleAPI) actingClient() string {
	if s.actor == nil {
		return ""
	}
	return s.actor()
}

// serve runs remote unless demo mode is on, and replays local when remote
// failed without an HTTP answer and the fallback is enabled.
func serve[T any](ctx context.Context, s *ScheduleAPI, operation string, remote, local func() (T, error)) (T, error) {
	if s.DemoMode() {
		return local()
	}
	value, err := remote()
	if err == nil || s.mock == nil || !s.fallback || !errors.Is(err, ErrNetwork) {
		return value, err
	}
	logging.Component(ctx, s.logger, "schedule_api", operation).
		Warn("backend unreachable, serving mock schedule data", "err", err)
	return local()
}

// List returns the entries matching filter. Filters naming an artist use
// the artist route and its from/to/status parameters.
func (s *ScheduleAPI) List(ctx context.Context, filter schedule.Filter) ([]schedule.Entry, error) {
	return serve(ctx, s, "list",
		func() ([]schedule.Entry, error) {
			path := "/api/schedule"
			query := url.Values{}
			if filter.ArtistID != "" {
				path = "/api/schedule/artist/" + escape(filter.ArtistID)
				setIf(query, "from", filter.DateFrom)
				setIf(query, "to", filter.DateTo)
				setIf(query, "status", string(filter.Status))
			} else {
				setIf(query, "clientId", filter.ClientID)
				setIf(query, "status", string(filter.Status))
				setIf(query, "dateFrom", filter.DateFrom)
				setIf(query, "dateTo", filter.DateTo)
			}
			var entries []schedule.Entry
			err := s.client.do(ctx, http.MethodGet, path, query, nil, &entries)
			return entries, err
		},
		func() ([]schedule.Entry, error) { return s.mock.List(ctx, filter) },
	)
}

// Get returns a single entry.
func (s *ScheduleAPI) Get(ctx context.Context, id string) (schedule.Entry, error) {
	return serve(ctx, s, "get",
		func() (schedule.Entry, error) {
			var entry schedule.Entry
			err := s.client.do(ctx, http.MethodGet, "/api/schedule/"+escape(id), nil, nil, &entry)
			return entry, err
		},
		func() (schedule.Entry, error) { return s.mock.Get(ctx, id) },
	)
}

// Create validates and creates one slot.
func (s *ScheduleAPI) Create(ctx context.Context, input schedule.NewEntry) (schedule.Entry, error) {
	if err := input.Validate(); err != nil {
		return schedule.Entry{}, err
	}
	return serve(ctx, s, "create",
		func() (schedule.Entry, error) {
			var entry schedule.Entry
			err := s.client.do(ctx, http.MethodPost, "/api/schedule", nil, input, &entry)
			return entry, err
		},
		func() (schedule.Entry, error) { return s.mock.Create(ctx, input) },
	)
}

// CreateBatch validates and creates several slots in one request.
func (s *ScheduleAPI) CreateBatch(ctx context.Context, inputs []schedule.NewEntry) ([]schedule.Entry, error) {
	for _, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, err
		}
	}
	return serve(ctx, s, "create_batch",
		func() ([]schedule.Entry, error) {
			body := struct {
				Schedules []schedule.NewEntry `json:"schedules"`
			}{Schedules: inputs}
			var entries []schedule.Entry
			err := s.client.do(ctx, http.MethodPost, "/api/schedule/batch", nil, body, &entries)
			return entries, err
		},
		func() ([]schedule.Entry, error) { return s.mock.CreateBatch(ctx, inputs) },
	)
}

// Update applies a partial update.
func (s *ScheduleAPI) Update(ctx context.Context, id string, patch schedule.Patch) (schedule.Entry, error) {
	return serve(ctx, s, "update",
		func() (schedule.Entry, error) {
			var entry schedule.Entry
			err := s.client.do(ctx, http.MethodPatch, "/api/schedule/"+escape(id), nil, patch, &entry)
			return entry, err
		},
		func() (schedule.Entry, error) { return s.mock.Update(ctx, id, patch) },
	)
}

// Book reserves an available slot for the signed-in client.
func (s *ScheduleAPI) Book(ctx context.Context, id, notes string) (schedule.Entry, error) {
	return serve(ctx, s, "book",
		func() (schedule.Entry, error) {
			body := struct {
				Notes string `json:"notes,omitempty"`
			}{Notes: notes}
			var entry schedule.Entry
			err := s.client.do(ctx, http.MethodPost, "/api/schedule/"+escape(id)+"/book", nil, body, &entry)
			return entry, err
		},
		func() (schedule.Entry, error) { return s.mock.Book(ctx, id, s.actingClient(), notes) },
	)
}

// Cancel cancels a slot.
func (s *ScheduleAPI) Cancel(ctx context.Context, id string) (schedule.Entry, error) {
	return serve(ctx, s, "cancel",
		func() (schedule.Entry, error) {
			var entry schedule.Entry
			err := s.client.do(ctx, http.MethodPost, "/api/schedule/"+escape(id)+"/cancel", nil, nil, &entry)
			return entry, err
		},
		func() (schedule.Entry, error) { return s.mock.Cancel(ctx, id) },
	)
}

// Delete removes a slot that is not booked.
func (s *ScheduleAPI) Delete(ctx context.Context, id string) error {
	_, err := serve(ctx, s, "delete",
		func() (bool, error) {
			var result struct {
				Deleted bool `json:"deleted"`
			}
			err := s.client.do(ctx, http.MethodDelete, "/api/schedule/"+escape(id), nil, nil, &result)
			return result.Deleted, err
		},
		func() (bool, error) { return true, s.mock.Delete(ctx, id) },
	)
	return err
}

// ListAvailable lists the artist's available slots within the optional
// date range.
func (s *ScheduleAPI) ListAvailable(ctx context.Context, artistID, dateFrom, dateTo string) ([]schedule.Entry, error) {
	return s.List(ctx, schedule.Filter{
		ArtistID: artistID,
		Status:   schedule.StatusAvailable,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
}

// ListFuture lists the artist's slots dated today or later.
func (s *ScheduleAPI) ListFuture(ctx context.Context, artistID string) ([]schedule.Entry, error) {
	return serve(ctx, s, "list_future",
		func() ([]schedule.Entry, error) {
			var entries []schedule.Entry
			err := s.client.do(ctx, http.MethodGet, "/api/schedule/artist/"+escape(artistID)+"/future", nil, nil, &entries)
			return entries, err
		},
		func() ([]schedule.Entry, error) {
			return s.mock.Future(ctx, artistID, schedule.DateString(s.now()))
		},
	)
}

// ListMyBookings lists the signed-in client's bookings.
func (s *ScheduleAPI) ListMyBookings(ctx context.Context) ([]schedule.Entry, error) {
	return serve(ctx, s, "my_bookings",
		func() ([]schedule.Entry, error) {
			var entries []schedule.Entry
			err := s.client.do(ctx, http.MethodGet, "/api/schedule/my-bookings", nil, nil, &entries)
			return entries, err
		},
		func() ([]schedule.Entry, error) { return s.mock.MyBookings(ctx, s.actingClient()) },
	)
}

func setIf(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
