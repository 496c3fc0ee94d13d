package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
	"github.com/example/quebra-tigela/internal/testfixtures"
)

type memoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memoryTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memoryTokens) Expire(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return "Sessão expirada"
}

type demoServer struct {
	url    string
	store  *mockstore.Store
	issuer *demo.Issuer
}

func newDemoServer(t *testing.T) demoServer {
	t.Helper()
	ctx := context.Background()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	logger := logging.Discard()

	directory := demo.NewDirectory(demo.WithPasswordParams(demo.FastArgon2idParams), demo.WithLogger(logger))
	if err := demo.SeedAccounts(ctx, directory, ""); err != nil {
		t.Fatalf("SeedAccounts returned error: %v", err)
	}
	issuer, err := demo.NewIssuer("test-secret", time.Hour, time.Now)
	if err != nil {
		t.Fatalf("NewIssuer returned error: %v", err)
	}
	store := mockstore.New(mockstore.WithoutLatency(), mockstore.WithClock(clock.NowFunc()))

	router := NewRouter(RouterConfig{
		Auth:       NewAuthHandler(directory, issuer, logger),
		Users:      NewUserHandler(directory, logger),
		Schedules:  NewScheduleHandler(store, clock.NowFunc(), logger),
		Session:    RequireSession(issuer, logger),
		Middleware: []func(http.Handler) http.Handler{RequestLogger(logger)},
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return demoServer{url: server.URL, store: store, issuer: issuer}
}

// signIn logs in through the API client and returns a schedule client bound
// to the resulting token.
func (d demoServer) signIn(t *testing.T, email string) (*api.Client, *api.ScheduleAPI) {
	t.Helper()
	tokens := &memoryTokens{}
	client, err := api.New(d.url, api.WithTokens(tokens), api.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("api.New returned error: %v", err)
	}
	if email != "" {
		result, err := client.Login(context.Background(), email, demo.SeedPassword)
		if err != nil {
			t.Fatalf("Login(%s) returned error: %v", email, err)
		}
		tokens.token = result.Token
	}
	return client, api.NewScheduleAPI(client, nil, api.WithMockFallback(false))
}

func TestAuthHandlers(t *testing.T) {
	t.Parallel()

	server := newDemoServer(t)
	ctx := context.Background()

	t.Run("login falls back to the artist account type", func(t *testing.T) {
		t.Parallel()
		client, _ := server.signIn(t, "")
		result, err := client.Login(ctx, demo.SeedArtistEmail, demo.SeedPassword)
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if result.UserType != "artist" {
			t.Fatalf("expected artist login, got %q", result.UserType)
		}
		principal, err := server.issuer.Verify(result.Token)
		if err != nil || principal.UserID != mockstore.DefaultArtistID {
			t.Fatalf("unexpected principal %+v (%v)", principal, err)
		}
	})

	t.Run("wrong password yields invalid credentials", func(t *testing.T) {
		t.Parallel()
		client, _ := server.signIn(t, "")
		if _, err := client.Login(ctx, demo.SeedClientEmail, "errada"); !errors.Is(err, api.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("duplicate registration answers conflict", func(t *testing.T) {
		t.Parallel()
		client, _ := server.signIn(t, "")
		_, err := client.RegisterUser(ctx, api.NewUser{Name: "Outro", Email: demo.SeedClientEmail, Password: "123456"})
		if api.StatusCode(err) != http.StatusConflict || err.Error() != demo.ErrEmailTaken.Error() {
			t.Fatalf("expected 409 with server message, got %v", err)
		}
	})

	t.Run("registered artist can sign in", func(t *testing.T) {
		t.Parallel()
		client, _ := server.signIn(t, "")
		artist, err := client.RegisterArtist(ctx, api.NewArtist{
			Name: "Nova", Email: "nova@exemplo.com", Password: "123456", ArtTypes: []string{"Teatro"},
		})
		if err != nil {
			t.Fatalf("RegisterArtist returned error: %v", err)
		}
		if artist.ID == "" || artist.ArtTypes[0] != "Teatro" {
			t.Fatalf("unexpected artist %+v", artist)
		}
		if _, err := client.Login(ctx, "nova@exemplo.com", "123456"); err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
	})
}

func TestUserHandlers(t *testing.T) {
	t.Parallel()

	server := newDemoServer(t)
	ctx := context.Background()
	client, _ := server.signIn(t, demo.SeedClientEmail)

	artists, err := client.SearchArtists(ctx, api.ArtistFilter{State: "SC", ArtType: "Música"})
	if err != nil {
		t.Fatalf("SearchArtists returned error: %v", err)
	}
	if len(artists) != 1 || artists[0].City != "Chapecó" {
		t.Fatalf("unexpected artists %+v", artists)
	}

	profile, err := client.GetArtistProfile(ctx, mockstore.DefaultArtistID)
	if err != nil || profile.Email != demo.SeedArtistEmail {
		t.Fatalf("unexpected profile %+v (%v)", profile, err)
	}
	if _, err := client.GetArtist(ctx, mockstore.DefaultClientID); api.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 for a client id, got %v", err)
	}

	users, err := client.ListUsers(ctx)
	if err != nil || len(users) != 1 || users[0].ID != mockstore.DefaultClientID {
		t.Fatalf("unexpected users %+v (%v)", users, err)
	}
}

func TestScheduleHandlers(t *testing.T) {
	t.Parallel()

	server := newDemoServer(t)
	ctx := context.Background()
	_, artist := server.signIn(t, demo.SeedArtistEmail)
	_, client := server.signIn(t, demo.SeedClientEmail)

	created, err := artist.CreateBatch(ctx, []schedule.NewEntry{
		{Date: "2025-11-20", StartTime: "09:00", EndTime: "10:00"},
		{Date: "2025-11-20", StartTime: "10:00", EndTime: "11:00"},
	})
	if err != nil {
		t.Fatalf("CreateBatch returned error: %v", err)
	}
	if len(created) != 2 || created[0].ArtistID != mockstore.DefaultArtistID || created[0].Status != schedule.StatusAvailable {
		t.Fatalf("unexpected batch %+v", created)
	}

	booked, err := client.Book(ctx, created[0].ID, "primeira sessão")
	if err != nil {
		t.Fatalf("Book returned error: %v", err)
	}
	if booked.Status != schedule.StatusBooked || booked.ClientID != mockstore.DefaultClientID {
		t.Fatalf("unexpected booking %+v", booked)
	}
	if _, err := client.Book(ctx, created[0].ID, ""); api.StatusCode(err) != http.StatusConflict {
		t.Fatalf("expected 409 for a second booking, got %v", err)
	}

	mine, err := client.ListMyBookings(ctx)
	if err != nil {
		t.Fatalf("ListMyBookings returned error: %v", err)
	}
	found := false
	for _, entry := range mine {
		found = found || entry.ID == created[0].ID
	}
	if !found {
		t.Fatal("expected the new booking in my-bookings")
	}

	err = artist.Delete(ctx, created[0].ID)
	if api.StatusCode(err) != http.StatusBadRequest || err.Error() != schedule.ErrBookedNotDeletable.Error() {
		t.Fatalf("expected booked delete to be refused, got %v", err)
	}
	bookedStatus, intruder := schedule.StatusBooked, "intruder"
	for _, attempt := range []struct {
		id    string
		patch schedule.Patch
	}{
		{created[1].ID, schedule.Patch{Status: &bookedStatus}},
		{created[0].ID, schedule.Patch{ClientID: &intruder}},
	} {
		_, err := artist.Update(ctx, attempt.id, attempt.patch)
		if api.StatusCode(err) != http.StatusBadRequest || err.Error() != schedule.ErrInvalidTransition.Error() {
			t.Fatalf("expected booking through PATCH to be refused, got %v", err)
		}
	}
	if still, _ := server.store.Get(ctx, created[0].ID); still.ClientID != mockstore.DefaultClientID {
		t.Fatalf("booked entry changed hands: %+v", still)
	}

	if err := client.Delete(ctx, created[1].ID); !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("expected 403 to surface as session expiry, got %v", err)
	}

	cancelled, err := artist.Cancel(ctx, created[0].ID)
	if err != nil || cancelled.Status != schedule.StatusCancelled || cancelled.ClientID != "" {
		t.Fatalf("unexpected cancel result %+v (%v)", cancelled, err)
	}
	if err := artist.Delete(ctx, created[1].ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := artist.Get(ctx, created[1].ID); api.StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}

	available, err := artist.ListAvailable(ctx, mockstore.DefaultArtistID, "2025-11-20", "2025-11-20")
	if err != nil {
		t.Fatalf("ListAvailable returned error: %v", err)
	}
	for _, entry := range available {
		if entry.Status != schedule.StatusAvailable || entry.Day() != "2025-11-20" {
			t.Fatalf("unexpected entry %+v", entry)
		}
	}

	future, err := artist.ListFuture(ctx, mockstore.DefaultArtistID)
	if err != nil {
		t.Fatalf("ListFuture returned error: %v", err)
	}
	for _, entry := range future {
		if entry.Day() < testfixtures.ReferenceDay() {
			t.Fatalf("future listing returned past entry %+v", entry)
		}
	}

	if _, err := artist.Book(ctx, created[1].ID, ""); api.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected 403 when an artist books, got %v", err)
	}
}

func TestScheduleListRejectsInvalidStatusFilter(t *testing.T) {
	t.Parallel()

	server := newDemoServer(t)
	token, _, err := server.issuer.Issue(demo.Account{ID: mockstore.DefaultArtistID, Type: "artist"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	req, _ := http.NewRequest(http.MethodGet, server.url+"/api/schedule?status=pendente", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
