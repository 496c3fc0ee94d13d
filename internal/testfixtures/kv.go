package testfixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/example/quebra-tigela/internal/persistence"
)

// RunKVContract exercises the behaviour every persistence.KV backend must
// share. newKV must return an empty store.
func RunKVContract(t *testing.T, newKV func(t *testing.T) persistence.KV) {
	t.Helper()

	t.Run("missing key reports not found", func(t *testing.T) {
		kv := newKV(t)
		if _, err := kv.Get(context.Background(), "absent"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()
		if err := kv.Set(ctx, persistence.KeyToken, "abc.def.ghi"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, err := kv.Get(ctx, persistence.KeyToken)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != "abc.def.ghi" {
			t.Fatalf("expected stored token, got %q", got)
		}
	})

	t.Run("overwrite keeps latest value", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()
		_ = kv.Set(ctx, persistence.KeyUserType, "cliente")
		if err := kv.Set(ctx, persistence.KeyUserType, "artista"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, _ := kv.Get(ctx, persistence.KeyUserType)
		if got != "artista" {
			t.Fatalf("expected artista, got %q", got)
		}
	})

	t.Run("delete removes and tolerates unknown keys", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()
		_ = kv.Set(ctx, persistence.KeyLastEmail, "ana@example.com")
		if err := kv.Delete(ctx, persistence.KeyLastEmail); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := kv.Get(ctx, persistence.KeyLastEmail); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := kv.Delete(ctx, "never-set"); err != nil {
			t.Fatalf("Delete unknown key: %v", err)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		kv := newKV(t)
		ctx := context.Background()
		_ = kv.Set(ctx, persistence.KeyToken, "t")
		_ = kv.Set(ctx, persistence.KeyUserType, "cliente")
		_ = kv.Delete(ctx, persistence.KeyToken)
		if got, err := kv.Get(ctx, persistence.KeyUserType); err != nil || got != "cliente" {
			t.Fatalf("expected userType to survive, got %q, %v", got, err)
		}
	})
}
