package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
	"github.com/example/quebra-tigela/internal/schedule"
)

var errInvalidStatus = errors.New("Status inválido")

type ScheduleHandler struct {
	store     api.MockSchedule
	now       func() time.Time
	responder responder
	logger    *slog.Logger
}

// NewScheduleHandler serves the schedule routes from store. now defines
// "today" for the future listing.
func NewScheduleHandler(store api.MockSchedule, now func() time.Time, logger *slog.Logger) *ScheduleHandler {
	if now == nil {
		now = time.Now
	}
	base := defaultLogger(logger)
	return &ScheduleHandler{store: store, now: now, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

// List answers GET /api/schedule.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := schedule.Filter{
		ClientID: query.Get("clientId"),
		Status:   schedule.Status(query.Get("status")),
		DateFrom: query.Get("dateFrom"),
		DateTo:   query.Get("dateTo"),
	}
	h.list(w, r, filter)
}

// ListByArtist answers GET /api/schedule/artist/{artistId}.
func (h *ScheduleHandler) ListByArtist(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := schedule.Filter{
		ArtistID: r.PathValue("artistId"),
		Status:   schedule.Status(query.Get("status")),
		DateFrom: query.Get("from"),
		DateTo:   query.Get("to"),
	}
	h.list(w, r, filter)
}

func (h *ScheduleHandler) list(w http.ResponseWriter, r *http.Request, filter schedule.Filter) {
	if filter.Status != "" && !filter.Status.Valid() {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStatus)
		return
	}
	entries, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, nonNil(entries))
}

// Future answers GET /api/schedule/artist/{artistId}/future.
func (h *ScheduleHandler) Future(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Future(r.Context(), r.PathValue("artistId"), schedule.DateString(h.now()))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, nonNil(entries))
}

// MyBookings answers GET /api/schedule/my-bookings for the signed-in client.
func (h *ScheduleHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	entries, err := h.store.MyBookings(r.Context(), principal.UserID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, nonNil(entries))
}

// Get answers GET /api/schedule/{id}.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entry)
}

// Create answers POST /api/schedule. Slots always belong to the signed-in
// artist.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireArtist(w, r)
	if !ok {
		return
	}
	var input schedule.NewEntry
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if !ownsInput(principal, &input) {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errForbidden)
		return
	}

	entry, err := h.store.Create(r.Context(), input)
	if err != nil {
		h.log(r.Context(), "Create").InfoContext(r.Context(), "slot rejected", "error", err, "error_kind", demo.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "Create", "schedule_id", entry.ID).InfoContext(r.Context(), "slot created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, entry)
}

// CreateBatch answers POST /api/schedule/batch.
func (h *ScheduleHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.requireArtist(w, r)
	if !ok {
		return
	}
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Schedules) == 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	for i := range req.Schedules {
		if !ownsInput(principal, &req.Schedules[i]) {
			h.responder.writeError(r.Context(), w, http.StatusForbidden, errForbidden)
			return
		}
	}

	entries, err := h.store.CreateBatch(r.Context(), req.Schedules)
	if err != nil {
		h.log(r.Context(), "CreateBatch").InfoContext(r.Context(), "batch rejected", "error", err, "error_kind", demo.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "CreateBatch", "count", len(entries)).InfoContext(r.Context(), "slots created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, entries)
}

// Update answers PATCH /api/schedule/{id}.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.requireOwner(w, r, id); !ok {
		return
	}
	var patch schedule.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStatus)
		return
	}

	entry, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entry)
}

// Book answers POST /api/schedule/{id}/book for the signed-in client.
// Artists get 403, which the API client treats as an expired session and
// answers by clearing the stored token.
func (h *ScheduleHandler) Book(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	if principal.IsArtist() {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errClientOnly)
		return
	}
	var req bookRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
	}

	id := r.PathValue("id")
	entry, err := h.store.Book(r.Context(), id, principal.UserID, req.Notes)
	if err != nil {
		h.log(r.Context(), "Book", "schedule_id", id).InfoContext(r.Context(), "booking rejected", "error", err, "error_kind", demo.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "Book", "schedule_id", id).InfoContext(r.Context(), "slot booked")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entry)
}

// Cancel answers POST /api/schedule/{id}/cancel. The owning artist and the
// client holding the booking may cancel.
func (h *ScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	principal, _ := PrincipalFromContext(r.Context())
	current, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if current.ArtistID != principal.UserID && current.ClientID != principal.UserID {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errForbidden)
		return
	}

	entry, err := h.store.Cancel(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "Cancel", "schedule_id", id).InfoContext(r.Context(), "slot cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, entry)
}

// Delete answers DELETE /api/schedule/{id}.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.requireOwner(w, r, id); !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.log(r.Context(), "Delete", "schedule_id", id).InfoContext(r.Context(), "slot deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, deleteResponse{Deleted: true})
}

// requireArtist answers 403 for non-artists. As with Book, the API client
// signs the caller out on that status.
func (h *ScheduleHandler) requireArtist(w http.ResponseWriter, r *http.Request) (demo.Principal, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok || !principal.IsArtist() {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errArtistOnly)
		return demo.Principal{}, false
	}
	return principal, true
}

func (h *ScheduleHandler) requireOwner(w http.ResponseWriter, r *http.Request, id string) (schedule.Entry, bool) {
	principal, ok := h.requireArtist(w, r)
	if !ok {
		return schedule.Entry{}, false
	}
	entry, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return schedule.Entry{}, false
	}
	if entry.ArtistID != principal.UserID {
		h.responder.writeError(r.Context(), w, http.StatusForbidden, errForbidden)
		return schedule.Entry{}, false
	}
	return entry, true
}

// ownsInput fills a missing artist id and reports whether the slot belongs
// to the principal.
func ownsInput(principal demo.Principal, input *schedule.NewEntry) bool {
	if input.ArtistID == "" {
		input.ArtistID = principal.UserID
	}
	return input.ArtistID == principal.UserID
}

func nonNil(entries []schedule.Entry) []schedule.Entry {
	if entries == nil {
		return []schedule.Entry{}
	}
	return entries
}

type batchRequest struct {
	Schedules []schedule.NewEntry `json:"schedules"`
}

type bookRequest struct {
	Notes string `json:"notes"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}
