package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/schedule"
)

var (
	errBadRequestBody      = errors.New("Formato de requisição inválido.")
	errMissingSessionToken = errors.New("Token não encontrado")
	errForbidden           = errors.New("Você não tem permissão para executar esta operação.")
	errArtistOnly          = errors.New("Apenas artistas podem executar esta operação.")
	errClientOnly          = errors.New("Apenas clientes podem reservar horários.")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	return responder{logger: defaultLogger(logger)}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).InfoContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{StatusCode: status, Message: message})
}

// handleServiceError maps store and directory errors onto HTTP answers.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("erro desconhecido"))
		return
	}

	var vErr *schedule.ValidationError
	var fErr *api.FormError
	switch {
	case errors.Is(err, schedule.ErrNotFound), errors.Is(err, demo.ErrAccountNotFound):
		r.writeError(ctx, w, http.StatusNotFound, err)
	case errors.Is(err, schedule.ErrNotAvailable), errors.Is(err, demo.ErrEmailTaken):
		r.writeError(ctx, w, http.StatusConflict, err)
	case errors.Is(err, schedule.ErrBookedNotDeletable), errors.Is(err, schedule.ErrInvalidTransition):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	case errors.Is(err, demo.ErrInvalidCredentials), errors.Is(err, demo.ErrInvalidToken):
		r.writeError(ctx, w, http.StatusUnauthorized, err)
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    vErr.Error(),
			Errors:     vErr.FieldErrors,
		})
	case errors.As(err, &fErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    fErr.Message,
			Errors:     map[string]string{fErr.Field: fErr.Message},
		})
	case errors.Is(err, context.Canceled):
		r.loggerFor(ctx).InfoContext(ctx, "request canceled", "error", err)
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    localizedStatusMessage(http.StatusInternalServerError),
		})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Requisição inválida."
	case http.StatusUnauthorized:
		return "Autenticação necessária."
	case http.StatusForbidden:
		return errForbidden.Error()
	case http.StatusNotFound:
		return "Recurso não encontrado."
	case http.StatusConflict:
		return "A requisição conflita com o estado atual do recurso."
	default:
		return "Erro interno do servidor."
	}
}

type errorResponse struct {
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
}
