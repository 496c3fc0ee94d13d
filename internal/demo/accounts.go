// Package demo holds the accounts and token issuing of the offline demo
// backend.
package demo

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/session"
)

// Account is a registered client or artist.
type Account struct {
	ID           string
	Type         session.UserType
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	City         string
	State        string
	ArtTypes     []string
	Verified     bool
	CreatedAt    time.Time
}

// Artist renders the account as an artist profile.
func (a Account) Artist() api.Artist {
	artTypes := append([]string{}, a.ArtTypes...)
	return api.Artist{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Bio:      a.Bio,
		City:     a.City,
		State:    a.State,
		Verified: a.Verified,
		ArtTypes: artTypes,
	}
}

// User renders the account as a client profile.
func (a Account) User() api.User {
	return api.User{ID: a.ID, Name: a.Name, Email: a.Email, City: a.City, State: a.State}
}

// Directory is the in-memory account store.
type Directory struct {
	mu      sync.RWMutex
	byID    map[string]Account
	byEmail map[string]string
	params  Argon2idParams
	newID   func() string
	now     func() time.Time
	logger  *slog.Logger
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithPasswordParams overrides the hashing cost.
func WithPasswordParams(params Argon2idParams) DirectoryOption {
	return func(d *Directory) {
		d.params = params
	}
}

// WithIDGenerator overrides the account id source.
func WithIDGenerator(fn func() string) DirectoryOption {
	return func(d *Directory) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		d.logger = logger
	}
}

// NewDirectory returns an empty Directory.
func NewDirectory(opts ...DirectoryOption) *Directory {
	d := &Directory{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
		params:  DefaultArgon2idParams,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registration is the input of Register. ID is optional.
type Registration struct {
	ID       string
	Type     session.UserType
	Name     string
	Email    string
	Password string
	Bio      string
	City     string
	State    string
	ArtTypes []string
	Verified bool
}

// Register validates and stores a new account.
func (d *Directory) Register(ctx context.Context, reg Registration) (Account, error) {
	email := normalizeEmail(reg.Email)
	logger := logging.Component(ctx, d.logger, "demo_directory", "register", "email", email, "user_type", reg.Type)

	var err error
	switch reg.Type {
	case session.UserArtist:
		err = api.NewArtist{Name: reg.Name, Email: email, Password: reg.Password, ArtTypes: reg.ArtTypes}.Validate()
	case session.UserClient:
		err = api.NewUser{Name: reg.Name, Email: email, Password: reg.Password}.Validate()
	default:
		err = session.ErrInvalidUserType
	}
	if err != nil {
		logger.Info("registration rejected", "err", err, "error_kind", ErrorKind(err))
		return Account{}, err
	}

	hash, err := HashPassword(reg.Password, d.params)
	if err != nil {
		return Account{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.byEmail[email]; exists {
		logger.Info("registration rejected", "error_kind", "already_exists")
		return Account{}, ErrEmailTaken
	}
	id := reg.ID
	if id == "" {
		id = d.newID()
	}
	account := Account{
		ID:           id,
		Type:         reg.Type,
		Name:         strings.TrimSpace(reg.Name),
		Email:        email,
		PasswordHash: hash,
		Bio:          reg.Bio,
		City:         reg.City,
		State:        reg.State,
		ArtTypes:     append([]string(nil), reg.ArtTypes...),
		Verified:     reg.Verified,
		CreatedAt:    d.now(),
	}
	d.byID[id] = account
	d.byEmail[email] = id
	logger.Info("account registered", "account_id", id)
	return account, nil
}

// Authenticate checks the password of an account of the given type.
func (d *Directory) Authenticate(ctx context.Context, email, password string, userType session.UserType) (Account, error) {
	email = normalizeEmail(email)
	logger := logging.Component(ctx, d.logger, "demo_directory", "authenticate", "email", email, "user_type", userType)

	d.mu.RLock()
	account, ok := d.byID[d.byEmail[email]]
	d.mu.RUnlock()
	if !ok || email == "" || password == "" || account.Type != userType {
		logger.Info("authentication rejected", "error_kind", "invalid_credentials")
		return Account{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(account.PasswordHash, password); err != nil {
		logger.Info("authentication rejected", "error_kind", ErrorKind(err))
		return Account{}, ErrInvalidCredentials
	}
	logger.Info("authenticated", "account_id", account.ID)
	return account, nil
}

// Get returns the account with id.
func (d *Directory) Get(_ context.Context, id string) (Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.byID[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return account, nil
}

// ArtistQuery narrows List to artists.
type ArtistQuery struct {
	State   string
	City    string
	ArtType string
}

// Artists lists artist accounts matching q, ordered by name.
func (d *Directory) Artists(_ context.Context, q ArtistQuery) []Account {
	return d.list(func(a Account) bool {
		if a.Type != session.UserArtist {
			return false
		}
		if q.State != "" && !strings.EqualFold(a.State, q.State) {
			return false
		}
		if q.City != "" && !strings.EqualFold(a.City, q.City) {
			return false
		}
		if q.ArtType == "" {
			return true
		}
		for _, artType := range a.ArtTypes {
			if strings.EqualFold(artType, q.ArtType) {
				return true
			}
		}
		return false
	})
}

// Clients lists client accounts ordered by name.
func (d *Directory) Clients(_ context.Context) []Account {
	return d.list(func(a Account) bool { return a.Type == session.UserClient })
}

func (d *Directory) list(keep func(Account) bool) []Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []Account
	for _, account := range d.byID {
		if keep(account) {
			out = append(out, account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
