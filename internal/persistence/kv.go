// Package persistence defines the key/value port used to persist client-side
// state (session token, user type, remembered e-mail) and its backends.
package persistence

import "context"

// Well-known keys persisted by the client.
const (
	KeyToken         = "token"
	KeyUserType      = "userType"
	KeyLastEmail     = "last_email"
	KeyRememberEmail = "lembrar_email"
)

// KV is a string key/value store. Get returns ErrNotFound for unknown keys;
// Delete on an unknown key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
