package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/example/quebra-tigela/internal/schedule"
)

var (
	// ErrNetwork marks failures where no HTTP response was received.
	ErrNetwork = errors.New("Erro de rede. Verifique sua conexão.")
	// ErrSessionExpired marks 401/403 answers outside the auth endpoints.
	ErrSessionExpired = errors.New("Sessão expirada")
	// ErrInvalidCredentials is returned when both login attempts answer 401.
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	// ErrTokenMissing is returned when a login response carries no token.
	ErrTokenMissing = errors.New("Token não encontrado na resposta do login")
	// ErrNotAuthenticated is returned by calls that need the session token.
	ErrNotAuthenticated = errors.New("Token não encontrado")
	// ErrTokenUndecodable is returned when the session token has no readable payload.
	ErrTokenUndecodable = errors.New("Erro ao decodificar token")
)

// HTTPError is a non-2xx answer from the backend.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Expired bool
}

// Error implements the error interface. The server message wins when present.
func (e *HTTPError) Error() string {
	if e.Expired {
		return ErrSessionExpired.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Erro na requisição: %d %s", e.Status, http.StatusText(e.Status))
}

// Is lets errors.Is match ErrSessionExpired on expired-session answers.
func (e *HTTPError) Is(target error) bool {
	return e.Expired && target == ErrSessionExpired
}

// NetworkError wraps a transport failure.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap exposes the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrNetwork.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// ErrorKind maps client errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrSessionExpired):
		return "session_expired"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrTokenUndecodable):
		return "unauthenticated"
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("http_%d", httpErr.Status)
	}
	var formErr *FormError
	if errors.As(err, &formErr) {
		return "validation"
	}
	if kind := schedule.ErrorKind(err); kind != "" {
		return kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "unexpected"
}
