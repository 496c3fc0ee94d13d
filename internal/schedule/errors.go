package schedule

import "errors"

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("Horário não encontrado")
	// ErrNotAvailable is returned when booking an entry that is not available.
	ErrNotAvailable = errors.New("Horário não está disponível")
	// ErrBookedNotDeletable is returned when deleting a booked entry.
	ErrBookedNotDeletable = errors.New("Não é possível deletar horário reservado")
	// ErrInvalidTransition is returned when a patch would reopen a slot.
	ErrInvalidTransition = errors.New("Alteração de status não permitida")
)

// ValidationError captures field level issues found before a request is sent.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	for _, field := range []string{"date", "startTime", "endTime", "time", "interval"} {
		if msg, ok := v.FieldErrors[field]; ok {
			return msg
		}
	}
	return "Dados do horário inválidos"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ErrorKind maps schedule errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotAvailable):
		return "not_available"
	case errors.Is(err, ErrBookedNotDeletable):
		return "booked_not_deletable"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}
	return ""
}
