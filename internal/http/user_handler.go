package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
	"github.com/example/quebra-tigela/internal/session"
)

// UserHandler serves the artist and client directory routes.
type UserHandler struct {
	accounts  Accounts
	responder responder
	logger    *slog.Logger
}

func NewUserHandler(accounts Accounts, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{accounts: accounts, responder: newResponder(base), logger: base}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

// SearchArtists answers GET /api/artists/search?state=&city=&artType=.
func (h *UserHandler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	accounts := h.accounts.Artists(r.Context(), demo.ArtistQuery{
		State:   query.Get("state"),
		City:    query.Get("city"),
		ArtType: query.Get("artType"),
	})
	artists := make([]api.Artist, 0, len(accounts))
	for _, account := range accounts {
		artists = append(artists, account.Artist())
	}
	h.log(r.Context(), "SearchArtists", "count", len(artists)).DebugContext(r.Context(), "artists listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, artists)
}

// GetArtist answers GET /api/artists/{id} and /api/artists/{id}/profile.
func (h *UserHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err == nil && account.Type != session.UserArtist {
		err = demo.ErrAccountNotFound
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, account.Artist())
}

// ListUsers answers GET /api/users/.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts := h.accounts.Clients(r.Context())
	users := make([]api.User, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, account.User())
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, users)
}

// GetUser answers GET /api/users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.Get(r.Context(), r.PathValue("id"))
	if err == nil && account.Type != session.UserClient {
		err = demo.ErrAccountNotFound
	}
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, account.User())
}
