package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
	"github.com/example/quebra-tigela/internal/session"
)

// Accounts is the account directory behind the auth and profile routes.
type Accounts interface {
	Register(ctx context.Context, reg demo.Registration) (demo.Account, error)
	Authenticate(ctx context.Context, email, password string, userType session.UserType) (demo.Account, error)
	Get(ctx context.Context, id string) (demo.Account, error)
	Artists(ctx context.Context, q demo.ArtistQuery) []demo.Account
	Clients(ctx context.Context) []demo.Account
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(account demo.Account) (string, time.Time, error)
}

type AuthHandler struct {
	accounts  Accounts
	issuer    TokenIssuer
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(accounts Accounts, issuer TokenIssuer, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{accounts: accounts, issuer: issuer, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login answers POST /api/auth/login. A missing accountType means client.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").InfoContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.AccountType == "" {
		req.AccountType = session.UserClient
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	logger := h.log(r.Context(), "Login", "email", email, "user_type", req.AccountType)

	account, err := h.accounts.Authenticate(r.Context(), email, req.Password, req.AccountType)
	if err != nil {
		logger.InfoContext(r.Context(), "authentication rejected", "error_kind", demo.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	token, expires, err := h.issuer.Issue(account)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to issue token", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "user authenticated", "user_id", account.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, loginResponse{
		AccessToken: token,
		ExpiresAt:   expires.UTC().Format(time.RFC3339),
		User:        profileOf(account),
	})
}

// RegisterUser answers POST /api/auth/register/user.
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	h.register(w, r, demo.Registration{
		Type:     session.UserClient,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		City:     req.City,
		State:    req.State,
	})
}

// RegisterArtist answers POST /api/auth/register/artist.
func (h *AuthHandler) RegisterArtist(w http.ResponseWriter, r *http.Request) {
	var req api.NewArtist
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	h.register(w, r, demo.Registration{
		Type:     session.UserArtist,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		City:     req.City,
		State:    req.State,
		ArtTypes: req.ArtTypes,
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, reg demo.Registration) {
	account, err := h.accounts.Register(r.Context(), reg)
	if err != nil {
		h.log(r.Context(), "Register", "user_type", reg.Type).
			InfoContext(r.Context(), "registration rejected", "error", err, "error_kind", demo.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, profileOf(account))
}

// PasswordReset answers the password reset routes. The demo backend has no
// mail delivery, so every request is refused.
func (h *AuthHandler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	h.responder.writeError(r.Context(), w, http.StatusNotImplemented, errors.New("Recuperação de senha indisponível no modo demonstração."))
}

func profileOf(account demo.Account) any {
	if account.Type == session.UserArtist {
		return account.Artist()
	}
	return account.User()
}

type loginRequest struct {
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	AccountType session.UserType `json:"accountType"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	User        any    `json:"user"`
}
