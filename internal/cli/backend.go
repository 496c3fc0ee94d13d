package cli

import (
	"context"
	"fmt"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/config"
	"github.com/example/quebra-tigela/internal/notify"
	"github.com/example/quebra-tigela/internal/persistence"
	"github.com/example/quebra-tigela/internal/persistence/redis"
	"github.com/example/quebra-tigela/internal/persistence/sqlite"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
	"github.com/example/quebra-tigela/internal/session"
)

// setup opens the session backend, restores the session and builds the
// REST clients.
func (a *App) setup(ctx context.Context) error {
	a.console = notify.NewConsole(a.out,
		notify.WithInput(a.in),
		notify.AssumeYes(a.yes),
		notify.WithLogger(a.logger),
	)

	kv, err := a.openKV(ctx)
	if err != nil {
		return err
	}
	a.session = session.New(kv, session.WithLogger(a.logger))
	if err := a.session.Restore(ctx); err != nil {
		a.logger.Warn("failed to restore session", "err", err)
	}

	a.client, err = api.New(a.cfg.APIURL,
		api.WithTimeout(a.cfg.HTTPTimeout),
		api.WithTokens(a.session),
		api.WithLogger(a.logger),
		api.WithSessionExpiredHandler(func(ctx context.Context, message string) {
			a.console.Error(ctx, message)
		}),
	)
	if err != nil {
		return err
	}

	a.ibge, err = api.NewIBGE(a.cfg.IBGEURL, api.WithTimeout(a.cfg.HTTPTimeout), api.WithLogger(a.logger), api.WithLookupCache(api.DefaultIBGECacheTTL, a.now))
	if err != nil {
		return err
	}

	if a.mock == nil {
		opts := []mockstore.Option{mockstore.WithClock(a.now), mockstore.WithLogger(a.logger)}
		if claims, ok := a.session.Current(); ok && a.session.UserType() == session.UserArtist {
			opts = append(opts, mockstore.WithArtistID(claims.UserID()))
		}
		a.mock = mockstore.New(opts...)
	}
	a.schedule = api.NewScheduleAPI(a.client, a.mock,
		api.WithDemoMode(a.cfg.DemoMode),
		api.WithMockFallback(a.cfg.MockFallback),
		api.WithScheduleClock(a.now),
		api.WithActingClient(a.clientID),
		api.WithScheduleLogger(a.logger),
	)
	return nil
}

func (a *App) openKV(ctx context.Context) (persistence.KV, error) {
	if a.kv != nil {
		return a.kv, nil
	}
	switch a.cfg.SessionBackend {
	case config.BackendMemory:
		return persistence.NewMemoryKV(), nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, sqlite.DefaultConfig(a.cfg.SQLiteDSN))
		if err != nil {
			return nil, fmt.Errorf("não foi possível abrir a sessão SQLite: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case config.BackendRedis:
		store, err := redis.Open(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("não foi possível conectar ao Redis: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return persistence.NewFileKV(a.cfg.SessionFile), nil
	}
}

// clientID is the signed-in client, used to attribute offline bookings.
func (a *App) clientID() string {
	if a.session.UserType() != session.UserClient {
		return ""
	}
	claims, ok := a.session.Current()
	if !ok {
		return ""
	}
	return claims.UserID()
}

// artistID is the signed-in artist. In demo mode an anonymous user acts as
// the mock store's artist.
func (a *App) artistID() string {
	if a.session.UserType() == session.UserArtist {
		if claims, ok := a.session.Current(); ok {
			return claims.UserID()
		}
	}
	if a.schedule.DemoMode() && !a.session.Authenticated() {
		return mockstore.DefaultArtistID
	}
	return ""
}
