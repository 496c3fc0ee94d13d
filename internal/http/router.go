package http

import (
	"net/http"
)

type RouterConfig struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Schedules *ScheduleHandler
	// Session guards every route outside /api/auth/.
	Session    func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	protect := func(h http.HandlerFunc) http.Handler {
		if cfg.Session == nil {
			return h
		}
		return cfg.Session(h)
	}

	if cfg.Auth != nil {
		mux.HandleFunc("POST /api/auth/login", cfg.Auth.Login)
		mux.HandleFunc("POST /api/auth/register/user", cfg.Auth.RegisterUser)
		mux.HandleFunc("POST /api/auth/register/artist", cfg.Auth.RegisterArtist)
		mux.HandleFunc("POST /api/auth/password-reset/{step}", cfg.Auth.PasswordReset)
	}

	if cfg.Schedules != nil {
		s := cfg.Schedules
		mux.Handle("GET /api/schedule", protect(s.List))
		mux.Handle("POST /api/schedule", protect(s.Create))
		mux.Handle("POST /api/schedule/batch", protect(s.CreateBatch))
		mux.Handle("GET /api/schedule/my-bookings", protect(s.MyBookings))
		mux.Handle("GET /api/schedule/artist/{artistId}", protect(s.ListByArtist))
		mux.Handle("GET /api/schedule/artist/{artistId}/future", protect(s.Future))
		mux.Handle("GET /api/schedule/{id}", protect(s.Get))
		mux.Handle("PATCH /api/schedule/{id}", protect(s.Update))
		mux.Handle("DELETE /api/schedule/{id}", protect(s.Delete))
		mux.Handle("POST /api/schedule/{id}/book", protect(s.Book))
		mux.Handle("POST /api/schedule/{id}/cancel", protect(s.Cancel))
	}

	if cfg.Users != nil {
		u := cfg.Users
		mux.HandleFunc("GET /api/artists/search", u.SearchArtists)
		mux.HandleFunc("GET /api/artists/{id}", u.GetArtist)
		mux.HandleFunc("GET /api/artists/{id}/profile", u.GetArtist)
		mux.Handle("GET /api/users/", protect(u.ListUsers))
		mux.Handle("GET /api/users/{id}", protect(u.GetUser))
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
