package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/quebra-tigela/internal/session"
)

func loginServer(t *testing.T, answers map[session.UserType]int) (*Client, func() []session.UserType) {
	t.Helper()
	var mu sync.Mutex
	var attempts []session.UserType
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		attempts = append(attempts, req.AccountType)
		mu.Unlock()
		status := answers[req.AccountType]
		if status == http.StatusOK {
			writeJSON(w, status, map[string]any{"jwt": "token-" + string(req.AccountType)})
			return
		}
		writeJSON(w, status, map[string]any{"message": "falhou"})
	}))
	return client, func() []session.UserType {
		mu.Lock()
		defer mu.Unlock()
		return append([]session.UserType(nil), attempts...)
	}
}

func TestLoginTriesClientThenArtist(t *testing.T) {
	t.Parallel()

	t.Run("client succeeds", func(t *testing.T) {
		t.Parallel()
		client, attempts := loginServer(t, map[session.UserType]int{session.UserClient: http.StatusOK})
		result, err := client.Login(context.Background(), "a@b.com", "123456")
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if result.UserType != session.UserClient || result.Token != "token-client" {
			t.Fatalf("unexpected result %+v", result)
		}
		if got := attempts(); len(got) != 1 {
			t.Fatalf("expected one attempt, got %v", got)
		}
	})

	t.Run("artist after client 401", func(t *testing.T) {
		t.Parallel()
		client, attempts := loginServer(t, map[session.UserType]int{
			session.UserClient: http.StatusUnauthorized,
			session.UserArtist: http.StatusOK,
		})
		result, err := client.Login(context.Background(), "a@b.com", "123456")
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		if result.UserType != session.UserArtist || result.Token != "token-artist" {
			t.Fatalf("unexpected result %+v", result)
		}
		if got := attempts(); len(got) != 2 || got[0] != session.UserClient || got[1] != session.UserArtist {
			t.Fatalf("unexpected attempts %v", got)
		}
	})

	t.Run("both 401", func(t *testing.T) {
		t.Parallel()
		client, _ := loginServer(t, map[session.UserType]int{
			session.UserClient: http.StatusUnauthorized,
			session.UserArtist: http.StatusUnauthorized,
		})
		_, err := client.Login(context.Background(), "a@b.com", "123456")
		if !errors.Is(err, ErrInvalidCredentials) || err.Error() != "Credenciais inválidas" {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("other client failure aborts", func(t *testing.T) {
		t.Parallel()
		client, attempts := loginServer(t, map[session.UserType]int{
			session.UserClient: http.StatusInternalServerError,
			session.UserArtist: http.StatusOK,
		})
		_, err := client.Login(context.Background(), "a@b.com", "123456")
		if StatusCode(err) != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %v", err)
		}
		if got := attempts(); len(got) != 1 {
			t.Fatalf("expected no artist attempt, got %v", got)
		}
	})
}

func TestLoginWithoutTokenFails(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": "x"})
	}))
	if _, err := client.Login(context.Background(), "a@b.com", "123456"); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestRegistrationValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input NewArtist
		want  string
	}{
		{name: "name", input: NewArtist{Email: "a@b.com", Password: "123456", ArtTypes: []string{"Música"}}, want: "Nome é obrigatório"},
		{name: "email", input: NewArtist{Name: "Ana", Password: "123456", ArtTypes: []string{"Música"}}, want: "E-mail é obrigatório"},
		{name: "email format", input: NewArtist{Name: "Ana", Email: "ana", Password: "123456", ArtTypes: []string{"Música"}}, want: "E-mail inválido"},
		{name: "password", input: NewArtist{Name: "Ana", Email: "a@b.com", Password: "123", ArtTypes: []string{"Música"}}, want: "Senha deve ter pelo menos 6 caracteres"},
		{name: "art types", input: NewArtist{Name: "Ana", Email: "a@b.com", Password: "123456", ArtTypes: []string{" "}}, want: "Tipos de arte são obrigatórios"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.input.Validate()
			var formErr *FormError
			if !errors.As(err, &formErr) || formErr.Message != tc.want {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}

	if got := SplitArtTypes(" Pintura, ,Escultura "); len(got) != 2 || got[1] != "Escultura" {
		t.Fatalf("unexpected art types %v", got)
	}
}

func TestResetPasswordConfirmedRejectsMismatch(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.NotFoundHandler())
	err := client.ResetPasswordConfirmed(context.Background(), "a@b.com", "123456", "abcdef", "abcdeg")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestMyProfileUsesTokenSubject(t *testing.T) {
	t.Parallel()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "artist-9",
		"role": "artist",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"_id": "artist-9", "name": "Marina"})
	}), WithTokens(&fakeTokens{token: token}))

	artist, err := client.MyProfile(context.Background())
	if err != nil {
		t.Fatalf("MyProfile returned error: %v", err)
	}
	if gotPath != "/api/artists/artist-9" || artist.ID != "artist-9" || artist.ArtTypes == nil {
		t.Fatalf("unexpected profile %s %+v", gotPath, artist)
	}

	anonymous := newTestClient(t, http.NotFoundHandler(), WithTokens(&fakeTokens{}))
	if _, err := anonymous.MyProfile(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	garbled := newTestClient(t, http.NotFoundHandler(), WithTokens(&fakeTokens{token: "not-a-jwt"}))
	if _, err := garbled.MyProfile(context.Background()); !errors.Is(err, ErrTokenUndecodable) {
		t.Fatalf("expected ErrTokenUndecodable, got %v", err)
	}
}
