// Package session keeps the authenticated identity of the terminal client:
// the bearer token, the account type chosen at login and the decoded token
// payload, mirrored to a persistence.KV so it survives restarts.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/persistence"
)

// ExpiredMessage is shown when the backend rejects the stored token.
const ExpiredMessage = "Sessão expirada. Faça login novamente."

// UserType is the account type selected at login.
type UserType string

const (
	UserClient UserType = "client"
	UserArtist UserType = "artist"
)

// Valid reports whether t is a known account type.
func (t UserType) Valid() bool {
	return t == UserClient || t == UserArtist
}

// ErrInvalidUserType is returned by Login for unknown account types.
var ErrInvalidUserType = errors.New("session: invalid user type")

// Store holds the current session. The zero value is not usable; call New.
type Store struct {
	mu       sync.RWMutex
	kv       persistence.KV
	logger   *slog.Logger
	token    string
	userType UserType
	claims   Claims
	decoded  bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New returns an anonymous session backed by kv.
func New(kv persistence.KV, opts ...Option) *Store {
	s := &Store{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted token and user type, as a page reload would.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.kv.Get(ctx, persistence.KeyToken)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("session: restore token: %w", err)
	}
	userType, err := s.kv.Get(ctx, persistence.KeyUserType)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("session: restore user type: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(token, UserType(userType))
	return nil
}

// Login stores token and userType and decodes the token payload. A token
// that cannot be decoded is still kept; Current then reports no identity.
func (s *Store) Login(ctx context.Context, token string, userType UserType) error {
	if !userType.Valid() {
		return ErrInvalidUserType
	}
	if err := s.kv.Set(ctx, persistence.KeyToken, token); err != nil {
		return fmt.Errorf("session: persist token: %w", err)
	}
	if err := s.kv.Set(ctx, persistence.KeyUserType, string(userType)); err != nil {
		return fmt.Errorf("session: persist user type: %w", err)
	}

	s.mu.Lock()
	s.setLocked(token, userType)
	decoded := s.decoded
	s.mu.Unlock()

	logger := logging.Component(ctx, s.logger, "session", "login", "user_type", userType)
	if !decoded {
		logger.Warn("token payload could not be decoded")
	} else {
		logger.Debug("session started")
	}
	return nil
}

// Logout clears the token and user type.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.setLocked("", "")
	s.mu.Unlock()

	return errors.Join(
		s.kv.Delete(ctx, persistence.KeyToken),
		s.kv.Delete(ctx, persistence.KeyUserType),
	)
}

// Expire drops only the token after the backend answered 401/403 and
// returns the notice to show the user.
func (s *Store) Expire(ctx context.Context) string {
	s.mu.Lock()
	userType := s.userType
	s.setLocked("", userType)
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, persistence.KeyToken); err != nil {
		logging.Component(ctx, s.logger, "session", "expire").Warn("failed to clear token", "err", err)
	}
	return ExpiredMessage
}

// Current returns the decoded identity, or false when anonymous or when the
// token is malformed.
func (s *Store) Current() (Claims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims, s.decoded
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserType returns the account type chosen at login.
func (s *Store) UserType() UserType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userType
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// RememberEmail persists email for the next login when remember is set and
// forgets it otherwise.
func (s *Store) RememberEmail(ctx context.Context, email string, remember bool) error {
	if !remember {
		return errors.Join(
			s.kv.Delete(ctx, persistence.KeyLastEmail),
			s.kv.Delete(ctx, persistence.KeyRememberEmail),
		)
	}
	if err := s.kv.Set(ctx, persistence.KeyLastEmail, email); err != nil {
		return err
	}
	return s.kv.Set(ctx, persistence.KeyRememberEmail, strconv.FormatBool(true))
}

// LastEmail returns the remembered e-mail, if any.
func (s *Store) LastEmail(ctx context.Context) (string, bool) {
	flag, err := s.kv.Get(ctx, persistence.KeyRememberEmail)
	if err != nil {
		return "", false
	}
	if remember, _ := strconv.ParseBool(flag); !remember {
		return "", false
	}
	email, err := s.kv.Get(ctx, persistence.KeyLastEmail)
	if err != nil || email == "" {
		return "", false
	}
	return email, true
}

func (s *Store) setLocked(token string, userType UserType) {
	s.token = token
	s.userType = userType
	s.claims, s.decoded = Decode(token)
}
