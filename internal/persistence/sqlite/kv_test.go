package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/quebra-tigela/internal/persistence"
	"github.com/example/quebra-tigela/internal/persistence/sqlite"
	"github.com/example/quebra-tigela/internal/testfixtures"
)

func TestStoreContract(t *testing.T) {
	t.Parallel()

	testfixtures.RunKVContract(t, func(t *testing.T) persistence.KV {
		return testfixtures.NewSQLiteHarness(t).Store
	})
}

func TestStoreInMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := sqlite.Open(ctx, sqlite.DefaultConfig(":memory:"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Set(ctx, persistence.KeyToken, "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := store.UpdatedAt(ctx, persistence.KeyToken); err != nil {
		t.Fatalf("UpdatedAt: %v", err)
	}
	if _, err := store.UpdatedAt(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	harness := testfixtures.NewSQLiteHarness(t)
	if err := harness.Store.Set(ctx, persistence.KeyUserType, "artista"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	harness.Close()

	reopened, err := sqlite.Open(ctx, sqlite.DefaultConfig(harness.Path))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, persistence.KeyUserType)
	if err != nil || got != "artista" {
		t.Fatalf("expected artista after reopen, got %q, %v", got, err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		cfg     sqlite.Config
		wantErr bool
	}{
		{"defaults", sqlite.DefaultConfig("/tmp/x.db"), false},
		{"empty dsn", sqlite.Config{}, true},
		{"bad journal", sqlite.Config{DSN: "x.db", JournalMode: "SIDEWAYS"}, true},
		{"bad synchronous", sqlite.Config{DSN: "x.db", Synchronous: "SOMETIMES"}, true},
	}
	for _, tc := range cases {
		if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}
