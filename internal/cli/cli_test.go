package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/quebra-tigela/internal/config"
	"github.com/example/quebra-tigela/internal/demo"
	httptransport "github.com/example/quebra-tigela/internal/http"
	"github.com/example/quebra-tigela/internal/ics"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/persistence"
	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
	"github.com/example/quebra-tigela/internal/testfixtures"
)

type harness struct {
	t     *testing.T
	cfg   config.Config
	kv    *persistence.MemoryKV
	clock *testfixtures.Clock
	store *mockstore.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	logger := logging.Discard()

	directory := demo.NewDirectory(demo.WithPasswordParams(demo.FastArgon2idParams), demo.WithLogger(logger))
	if err := demo.SeedAccounts(context.Background(), directory, ""); err != nil {
		t.Fatalf("SeedAccounts returned error: %v", err)
	}
	issuer, err := demo.NewIssuer("cli-secret", time.Hour, time.Now)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	store := mockstore.New(mockstore.WithoutLatency(), mockstore.WithClock(clock.NowFunc()))
	server := httptest.NewServer(httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(directory, issuer, logger),
		Users:     httptransport.NewUserHandler(directory, logger),
		Schedules: httptransport.NewScheduleHandler(store, clock.NowFunc(), logger),
		Session:   httptransport.RequireSession(issuer, logger),
	}))
	t.Cleanup(server.Close)

	return &harness{
		t: t,
		cfg: config.Config{
			APIURL:         server.URL,
			IBGEURL:        server.URL,
			SessionBackend: config.BackendMemory,
			HTTPTimeout:    5 * time.Second,
		},
		kv:    persistence.NewMemoryKV(),
		clock: clock,
		store: store,
	}
}

// run executes one invocation sharing the harness session.
func (h *harness) run(args ...string) (int, string) {
	h.t.Helper()
	var out bytes.Buffer
	app := New(h.cfg,
		WithOutput(&out),
		WithInput(strings.NewReader("")),
		WithKV(h.kv),
		WithClock(h.clock.NowFunc()),
		WithMockStore(mockstore.New(mockstore.WithoutLatency(), mockstore.WithClock(h.clock.NowFunc()))),
	)
	code := app.Run(context.Background(), args)
	return code, out.String()
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	code, out := h.run(args...)
	if code != ExitOK {
		h.t.Fatalf("%v exited with %d:\n%s", args, code, out)
	}
	return out
}

// available returns the open entries of the seeded artist within [from, to].
func (h *harness) available(from, to string) []schedule.Entry {
	h.t.Helper()
	entries, err := h.store.List(context.Background(), schedule.Filter{
		ArtistID: mockstore.DefaultArtistID,
		Status:   schedule.StatusAvailable,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil || len(entries) == 0 {
		h.t.Fatalf("no available entry between %s and %s (%v)", from, to, err)
	}
	return entries
}

func TestUsageErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if code, out := h.run(); code != ExitUsage || !strings.Contains(out, "comandos:") {
		t.Fatalf("expected usage, got %d:\n%s", code, out)
	}
	if code, out := h.run("voar"); code != ExitUsage || !strings.Contains(out, "comando desconhecido: voar") {
		t.Fatalf("expected unknown command, got %d:\n%s", code, out)
	}
	if code, _ := h.run("login", "-password", "x"); code != ExitUsage {
		t.Fatalf("expected usage error for missing e-mail, got %d", code)
	}
	if code, _ := h.run("agenda", "voar"); code != ExitUsage {
		t.Fatalf("expected usage error for unknown agenda subcommand, got %d", code)
	}
}

func TestArtistAgendaFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out := h.mustRun("login", "-email", demo.SeedArtistEmail, "-password", demo.SeedPassword, "-remember")
	if !strings.Contains(out, "Login realizado com sucesso como artista") {
		t.Fatalf("unexpected login output:\n%s", out)
	}
	if out := h.mustRun("whoami"); !strings.Contains(out, mockstore.DefaultArtistID) || !strings.Contains(out, "válida") {
		t.Fatalf("unexpected whoami output:\n%s", out)
	}

	out = h.mustRun("agenda", "create", "-date", "2025-11-21", "-start", "08:00", "-end", "10:30", "-interval", "60", "-notes", "lote")
	if !strings.Contains(out, "2 horários criados com sucesso!") {
		t.Fatalf("unexpected create output:\n%s", out)
	}
	if out := h.mustRun("agenda", "day", "-date", "2025-11-21"); !strings.Contains(out, "08:00 até 09:00") || !strings.Contains(out, "09:00 até 10:00") {
		t.Fatalf("unexpected day output:\n%s", out)
	}
	out = h.mustRun("agenda", "create", "-date", "2025-12-01", "-start", "18:00", "-end", "19:00", "-until", "2025-12-14", "-weekdays", "seg,qua")
	if !strings.Contains(out, "4 horários criados com sucesso!") {
		t.Fatalf("unexpected recurring create output:\n%s", out)
	}
	if code, _ := h.run("agenda", "create", "-date", "2025-12-01", "-start", "18:00", "-end", "19:00", "-until", "2025-11-01"); code != ExitError {
		t.Fatalf("expected reversed repetition window to fail, got %d", code)
	}
	if out := h.mustRun("agenda", "calendar", "-month", "2025-11"); !strings.Contains(out, "Novembro 2025") {
		t.Fatalf("unexpected calendar output:\n%s", out)
	}

	target := h.available("2025-11-21", "2025-11-21")[0]
	if code, out := h.run("agenda", "delete", target.ID); code != ExitOK || strings.Contains(out, "deletado com sucesso") {
		t.Fatalf("declined confirmation should be a no-op, got %d:\n%s", code, out)
	}
	if out := h.mustRun("-y", "agenda", "delete", target.ID); !strings.Contains(out, "Horário deletado com sucesso!") {
		t.Fatalf("unexpected delete output:\n%s", out)
	}
	if _, err := h.store.Get(context.Background(), target.ID); err == nil {
		t.Fatal("expected the entry to be deleted on the server")
	}

	code, out := h.run("book", target.ID)
	if code != ExitError || !strings.Contains(out, "Sessão expirada") {
		t.Fatalf("expected a role refusal to end the session, got %d:\n%s", code, out)
	}
	if out := h.mustRun("whoami"); !strings.Contains(out, "Não autenticado") {
		t.Fatalf("expected the artist to be signed out after a 403:\n%s", out)
	}
	h.mustRun("login", "-password", demo.SeedPassword)

	h.mustRun("logout")
	if out := h.mustRun("whoami"); !strings.Contains(out, "Não autenticado") {
		t.Fatalf("unexpected whoami after logout:\n%s", out)
	}
	if code, out := h.run("agenda", "list"); code != ExitError || !strings.Contains(out, "Usuário não autenticado") {
		t.Fatalf("expected anonymous agenda to fail, got %d:\n%s", code, out)
	}
	if out := h.mustRun("login", "-password", demo.SeedPassword); !strings.Contains(out, "como artista") {
		t.Fatalf("remembered e-mail was not reused:\n%s", out)
	}
}

func TestClientBookingFlow(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.mustRun("login", "-email", demo.SeedClientEmail, "-password", demo.SeedPassword)

	open := h.available("2025-11-20", "2026-02-15")
	if len(open) < 2 {
		t.Fatalf("expected at least two open entries, got %d", len(open))
	}
	target, other := open[0], open[1]
	if out := h.mustRun("available", "-artist", mockstore.DefaultArtistID, "-from", target.Day(), "-to", target.Day()); !strings.Contains(out, target.ID) || !strings.Contains(out, "Reservar") {
		t.Fatalf("unexpected available output:\n%s", out)
	}
	if out := h.mustRun("book", "-notes", "tatuagem pequena", target.ID); !strings.Contains(out, "Horário reservado com sucesso!") {
		t.Fatalf("unexpected book output:\n%s", out)
	}
	if out := h.mustRun("my-bookings"); !strings.Contains(out, target.ID) || !strings.Contains(out, "tatuagem pequena") {
		t.Fatalf("unexpected my-bookings output:\n%s", out)
	}
	if code, out := h.run("book", target.ID); code != ExitError || !strings.Contains(out, schedule.ErrNotAvailable.Error()) {
		t.Fatalf("expected double booking to fail, got %d:\n%s", code, out)
	}

	dir := t.TempDir()
	out := h.mustRun("ics", "-dir", dir, target.ID)
	if !strings.Contains(out, "calendar.google.com") {
		t.Fatalf("expected a Google Calendar link:\n%s", out)
	}
	booked, _ := h.store.Get(context.Background(), target.ID)
	doc, err := os.ReadFile(filepath.Join(dir, ics.FileName(booked)))
	if err != nil {
		t.Fatalf("ics file not written: %v", err)
	}
	if !strings.Contains(string(doc), "BEGIN:VCALENDAR") || !strings.Contains(string(doc), demo.SeedArtistEmail) {
		t.Fatalf("unexpected ics document:\n%s", doc)
	}

	if code, out := h.run("ics", other.ID); code != ExitError || !strings.Contains(out, errNotBooked.Error()) {
		t.Fatalf("expected export of an open slot to fail, got %d:\n%s", code, out)
	}
}

func TestDirectoryCommands(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if out := h.mustRun("artists", "-state", "SC", "-type", "Dança"); !strings.Contains(out, "Juliana Costa Pereira") {
		t.Fatalf("unexpected artists output:\n%s", out)
	}
	if code, out := h.run("seed-artists"); code != ExitError || !strings.Contains(out, "0 de 5") || !strings.Contains(out, demo.ErrEmailTaken.Error()) {
		t.Fatalf("expected seeded roster to be refused, got %d:\n%s", code, out)
	}
	out := h.mustRun("register", "-name", "Bia", "-email", "bia@exemplo.com", "-password", "123456", "user")
	if !strings.Contains(out, "Conta criada para bia@exemplo.com") {
		t.Fatalf("unexpected register output:\n%s", out)
	}
	if code, out := h.run("register", "-name", "Bia", "-email", "bia@", "-password", "123456", "user"); code != ExitError || !strings.Contains(out, "E-mail inválido") {
		t.Fatalf("expected local validation error, got %d:\n%s", code, out)
	}
}

func TestCitiesValidatesState(t *testing.T) {
	t.Parallel()

	ibge := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/estados":
			_, _ = w.Write([]byte(`[{"id":42,"sigla":"SC","nome":"Santa Catarina"}]`))
		case "/estados/SC/municipios":
			_, _ = w.Write([]byte(`[{"id":4209102,"nome":"Joinville"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ibge.Close)

	h := newHarness(t)
	h.cfg.IBGEURL = ibge.URL
	if out := h.mustRun("cities", "sc"); !strings.Contains(out, "Joinville") {
		t.Fatalf("unexpected cities output:\n%s", out)
	}
	if code, out := h.run("cities", "XX"); code != ExitError || !strings.Contains(out, "UF desconhecida: XX") {
		t.Fatalf("expected unknown state to fail, got %d:\n%s", code, out)
	}
}

func TestDemoModeWorksOffline(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.cfg.APIURL = "http://127.0.0.1:1"
	h.cfg.MockFallback = false

	if code, out := h.run("available", "-artist", mockstore.DefaultArtistID); code != ExitError {
		t.Fatalf("expected the unreachable backend to fail without demo mode, got %d:\n%s", code, out)
	}
	out := h.mustRun("-demo", "agenda", "create", "-date", "2025-11-22", "-start", "14:00", "-end", "15:00")
	if !strings.Contains(out, "Horário criado com sucesso!") {
		t.Fatalf("unexpected demo create output:\n%s", out)
	}
	if out := h.mustRun("-demo", "agenda", "list", "-from", "2025-11-19", "-to", "2025-11-19"); strings.Contains(out, "2025-11-22") {
		t.Fatalf("list filter leaked other days:\n%s", out)
	}
}

func TestOpenKVBackends(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, cfg := range []config.Config{
		{SessionBackend: config.BackendMemory},
		{SessionBackend: config.BackendFile, SessionFile: filepath.Join(dir, "session.json")},
		{SessionBackend: config.BackendSQLite, SQLiteDSN: filepath.Join(dir, "session.db")},
	} {
		app := New(cfg)
		kv, err := app.openKV(context.Background())
		if err != nil {
			t.Fatalf("%s: openKV returned error: %v", cfg.SessionBackend, err)
		}
		if err := kv.Set(context.Background(), persistence.KeyToken, "abc"); err != nil {
			t.Fatalf("%s: Set returned error: %v", cfg.SessionBackend, err)
		}
		app.close()
	}

	app := New(config.Config{SessionBackend: config.BackendRedis, RedisURL: "redis://127.0.0.1:1/0"})
	if _, err := app.openKV(context.Background()); err == nil {
		t.Fatal("expected unreachable redis to fail")
	}
}
