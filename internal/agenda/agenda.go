// Package agenda is the artist agenda view-model: it loads the artist's
// schedule window, creates, cancels and deletes slots, and refetches the
// window after every successful mutation.
package agenda

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/schedule"
)

const (
	// MonthsBack and MonthsAhead bound the window fetched by Reload.
	MonthsBack  = 6
	MonthsAhead = 6

	msgNotAuthenticated = "Usuário não autenticado"
	msgCreatedOne       = "Horário criado com sucesso!"
	msgCreatedMany      = "%d horários criados com sucesso!"
	msgCancelled        = "Horário cancelado com sucesso!"
	msgDeleted          = "Horário deletado com sucesso!"
	msgConfirmCancel    = "Deseja realmente cancelar este horário?"
	msgConfirmDelete    = "Deseja realmente deletar este horário?"
	msgLoadFailed       = "Erro ao carregar horários"
	msgCreateFailed     = "Erro ao criar horário"
	msgCancelFailed     = "Erro ao cancelar horário"
	msgDeleteFailed     = "Erro ao deletar horário"
)

// ErrNoArtist is returned by Create when the agenda has no artist.
var ErrNoArtist = errors.New(msgNotAuthenticated)

// Client is the subset of the schedule client the agenda uses.
type Client interface {
	List(ctx context.Context, filter schedule.Filter) ([]schedule.Entry, error)
	Create(ctx context.Context, input schedule.NewEntry) (schedule.Entry, error)
	CreateBatch(ctx context.Context, inputs []schedule.NewEntry) ([]schedule.Entry, error)
	Cancel(ctx context.Context, id string) (schedule.Entry, error)
	Delete(ctx context.Context, id string) error
}

// Notifier shows user-facing notices.
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Options configures an Agenda. Nil fields get silent defaults; a nil
// Confirmer declines every destructive action.
type Options struct {
	ArtistID  string
	Notifier  Notifier
	Confirmer Confirmer
	Now       func() time.Time
	Logger    *slog.Logger
	OnSuccess func()
	OnError   func(error)
}

// Agenda holds the loaded entries and the loading/saving flags.
type Agenda struct {
	client Client
	opts   Options

	mu      sync.RWMutex
	entries []schedule.Entry
	loading bool
	saving  bool
}

// New returns an Agenda bound to client.
func New(client Client, opts Options) *Agenda {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = discardNotifier{}
	}
	return &Agenda{client: client, opts: opts}
}

// ArtistID returns the artist whose agenda is shown.
func (a *Agenda) ArtistID() string {
	return a.opts.ArtistID
}

// Entries returns a copy of the loaded entries.
func (a *Agenda) Entries() []schedule.Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]schedule.Entry(nil), a.entries...)
}

// Loading reports whether a reload is in flight.
func (a *Agenda) Loading() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loading
}

// Saving reports whether a mutation is in flight.
func (a *Agenda) Saving() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.saving
}

// Window returns the first and last day fetched by Reload.
func (a *Agenda) Window() (from, to string) {
	now := a.opts.Now()
	return schedule.DateString(now.AddDate(0, -MonthsBack, 0)), schedule.DateString(now.AddDate(0, MonthsAhead, 0))
}

// Reload replaces the loaded entries with the artist's window. Without an
// artist it does nothing.
func (a *Agenda) Reload(ctx context.Context) error {
	if a.opts.ArtistID == "" {
		return nil
	}
	from, to := a.Window()
	logger := a.logger(ctx, "reload", "artist_id", a.opts.ArtistID, "date_from", from, "date_to", to)

	a.setLoading(true)
	defer a.setLoading(false)

	entries, err := a.client.List(ctx, schedule.Filter{
		ArtistID: a.opts.ArtistID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		logger.Error("failed to load entries", "err", err, "error_kind", api.ErrorKind(err))
		a.fail(ctx, err, msgLoadFailed)
		return err
	}

	a.mu.Lock()
	a.entries = entries
	a.mu.Unlock()
	logger.Debug("entries loaded", "count", len(entries))
	a.succeed()
	return nil
}

// Create tags every input with the artist and creates it, in one request
// when there is a single input and as a batch otherwise.
func (a *Agenda) Create(ctx context.Context, inputs []schedule.NewEntry) error {
	if a.opts.ArtistID == "" {
		a.opts.Notifier.Error(ctx, msgNotAuthenticated)
		return ErrNoArtist
	}
	if len(inputs) == 0 {
		return nil
	}
	logger := a.logger(ctx, "create", "artist_id", a.opts.ArtistID, "count", len(inputs))

	tagged := make([]schedule.NewEntry, len(inputs))
	existing := a.Entries()
	for i, input := range inputs {
		input.ArtistID = a.opts.ArtistID
		tagged[i] = input
		if conflicts := schedule.Overlaps(existing, input); len(conflicts) > 0 {
			logger.Warn("new slot overlaps existing entries",
				"date", input.Date, "start_time", input.StartTime, "end_time", input.EndTime,
				"conflicts", len(conflicts))
		}
	}

	a.setSaving(true)
	defer a.setSaving(false)

	var (
		message string
		err     error
	)
	if len(tagged) == 1 {
		_, err = a.client.Create(ctx, tagged[0])
		message = msgCreatedOne
	} else {
		_, err = a.client.CreateBatch(ctx, tagged)
		message = fmt.Sprintf(msgCreatedMany, len(tagged))
	}
	if err != nil {
		logger.Error("failed to create entries", "err", err, "error_kind", api.ErrorKind(err))
		a.fail(ctx, err, msgCreateFailed)
		return err
	}

	logger.Info("entries created")
	a.opts.Notifier.Success(ctx, message)
	a.refetch(ctx)
	return nil
}

// Cancel asks for confirmation and cancels the entry. A declined
// confirmation returns nil without side effects.
func (a *Agenda) Cancel(ctx context.Context, id string) error {
	return a.mutate(ctx, "cancel", id, msgConfirmCancel, msgCancelled, msgCancelFailed, func() error {
		_, err := a.client.Cancel(ctx, id)
		return err
	})
}

// Delete asks for confirmation and deletes the entry. A declined
// confirmation returns nil without side effects.
func (a *Agenda) Delete(ctx context.Context, id string) error {
	return a.mutate(ctx, "delete", id, msgConfirmDelete, msgDeleted, msgDeleteFailed, func() error {
		return a.client.Delete(ctx, id)
	})
}

// EntriesForDay returns the loaded entries dated on day.
func (a *Agenda) EntriesForDay(day time.Time) []schedule.Entry {
	key := schedule.DateString(day)
	a.mu.RLock()
	defer a.mu.RUnlock()

	var out []schedule.Entry
	for _, entry := range a.entries {
		if entry.Day() == key {
			out = append(out, entry)
		}
	}
	return out
}

func (a *Agenda) mutate(ctx context.Context, operation, id, prompt, done, fallback string, call func() error) error {
	logger := a.logger(ctx, operation, "entry_id", id)
	if a.opts.Confirmer == nil || !a.opts.Confirmer.Confirm(ctx, prompt) {
		logger.Debug("declined by user")
		return nil
	}

	a.setSaving(true)
	defer a.setSaving(false)

	if err := call(); err != nil {
		logger.Error("mutation failed", "err", err, "error_kind", api.ErrorKind(err))
		a.fail(ctx, err, fallback)
		return err
	}
	logger.Info("mutation applied")
	a.opts.Notifier.Success(ctx, done)
	a.refetch(ctx)
	return nil
}

// refetch reloads after a successful mutation. Reload already notifies its
// own failure, so the mutation still counts as done.
func (a *Agenda) refetch(ctx context.Context) {
	if err := a.Reload(ctx); err != nil {
		a.logger(ctx, "refetch").Warn("reload after mutation failed", "err", err, "error_kind", api.ErrorKind(err))
		return
	}
	a.succeed()
}

func (a *Agenda) fail(ctx context.Context, err error, fallback string) {
	message := err.Error()
	if message == "" {
		message = fallback
	}
	a.opts.Notifier.Error(ctx, message)
	if a.opts.OnError != nil {
		a.opts.OnError(err)
	}
}

func (a *Agenda) succeed() {
	if a.opts.OnSuccess != nil {
		a.opts.OnSuccess()
	}
}

func (a *Agenda) setLoading(v bool) {
	a.mu.Lock()
	a.loading = v
	a.mu.Unlock()
}

func (a *Agenda) setSaving(v bool) {
	a.mu.Lock()
	a.saving = v
	a.mu.Unlock()
}

func (a *Agenda) logger(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Component(ctx, a.opts.Logger, "agenda", operation, attrs...)
}

type discardNotifier struct{}

func (discardNotifier) Success(context.Context, string) {}
func (discardNotifier) Error(context.Context, string)   {}

var _ Client = (*api.ScheduleAPI)(nil)
