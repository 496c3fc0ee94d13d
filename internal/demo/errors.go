package demo

import (
	"errors"

	"github.com/example/quebra-tigela/internal/api"
)

var (
	// ErrInvalidCredentials is returned for unknown e-mails, wrong passwords
	// and account type mismatches alike.
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	// ErrEmailTaken is returned when registering an e-mail twice.
	ErrEmailTaken = errors.New("E-mail já cadastrado")
	// ErrAccountNotFound is returned by lookups of unknown ids.
	ErrAccountNotFound = errors.New("Usuário não encontrado")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("Token inválido ou expirado")
)

// ErrorKind maps demo errors to a stable logging label.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrEmailTaken):
		return "already_exists"
	case errors.Is(err, ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidToken):
		return "unauthorized"
	}
	return api.ErrorKind(err)
}
