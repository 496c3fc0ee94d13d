package api

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// FormError is a client-side validation failure; no request was sent.
type FormError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FormError) Error() string {
	return e.Message
}

// Validate checks the registration form of a client account.
func (u NewUser) Validate() error {
	return validateAccount(u.Name, u.Email, u.Password)
}

// Validate checks the registration form of an artist account.
func (a NewArtist) Validate() error {
	if err := validateAccount(a.Name, a.Email, a.Password); err != nil {
		return err
	}
	for _, artType := range a.ArtTypes {
		if strings.TrimSpace(artType) != "" {
			return nil
		}
	}
	return &FormError{Field: "artTypes", Message: "Tipos de arte são obrigatórios"}
}

func validateAccount(name, email, password string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return &FormError{Field: "name", Message: "Nome é obrigatório"}
	case strings.TrimSpace(email) == "":
		return &FormError{Field: "email", Message: "E-mail é obrigatório"}
	case !emailPattern.MatchString(email):
		return &FormError{Field: "email", Message: "E-mail inválido"}
	case len(password) < MinPasswordLength:
		return &FormError{Field: "password", Message: "Senha deve ter pelo menos 6 caracteres"}
	}
	return nil
}

// SplitArtTypes parses a comma separated list, dropping blanks.
func SplitArtTypes(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
