package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/quebra-tigela/internal/logging"
	"github.com/example/quebra-tigela/internal/session"
)

// LoginResult is a successful login.
type LoginResult struct {
	Token    string
	UserType session.UserType
	Data     map[string]any
}

type loginRequest struct {
	Email       string           `json:"email"`
	Password    string           `json:"password"`
	AccountType session.UserType `json:"accountType"`
}

// Login authenticates as a client first and, only when that answer is 401,
// as an artist. Two 401 answers yield ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	logger := logging.Component(ctx, c.logger, "auth", "login")

	result, err := c.loginAs(ctx, email, password, session.UserClient)
	if err == nil {
		logger.Info("authenticated", "user_type", result.UserType)
		return result, nil
	}
	if StatusCode(err) != http.StatusUnauthorized {
		logger.Warn("client login failed", "err", err, "error_kind", ErrorKind(err))
		return LoginResult{}, err
	}

	result, err = c.loginAs(ctx, email, password, session.UserArtist)
	if err == nil {
		logger.Info("authenticated", "user_type", result.UserType)
		return result, nil
	}
	if StatusCode(err) == http.StatusUnauthorized {
		logger.Info("invalid credentials")
		return LoginResult{}, ErrInvalidCredentials
	}
	logger.Warn("artist login failed", "err", err, "error_kind", ErrorKind(err))
	return LoginResult{}, err
}

func (c *Client) loginAs(ctx context.Context, email, password string, userType session.UserType) (LoginResult, error) {
	var data map[string]any
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{
		Email:       email,
		Password:    password,
		AccountType: userType,
	}, &data)
	if err != nil {
		return LoginResult{}, err
	}
	token := tokenFrom(data)
	if token == "" {
		return LoginResult{}, ErrTokenMissing
	}
	return LoginResult{Token: token, UserType: userType, Data: data}, nil
}

// tokenFrom reads the token from access_token, jwt or token, in that order.
func tokenFrom(data map[string]any) string {
	for _, key := range []string{"access_token", "jwt", "token"} {
		if token, ok := data[key].(string); ok && token != "" {
			return token
		}
	}
	return ""
}

// RegisterUser creates a client account.
func (c *Client) RegisterUser(ctx context.Context, input NewUser) (User, error) {
	if err := input.Validate(); err != nil {
		return User{}, err
	}
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/register/user", nil, input, &user)
	return user, err
}

// RegisterArtist creates an artist account.
func (c *Client) RegisterArtist(ctx context.Context, input NewArtist) (Artist, error) {
	if err := input.Validate(); err != nil {
		return Artist{}, err
	}
	if input.ArtTypes == nil {
		input.ArtTypes = []string{}
	}
	var artist Artist
	err := c.do(ctx, http.MethodPost, "/api/auth/register/artist", nil, input, &artist)
	return artist, err
}

// RequestPasswordReset asks the backend to e-mail a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/request", nil,
		map[string]string{"email": email}, nil)
}

// ValidateResetCode checks a reset code without consuming it.
func (c *Client) ValidateResetCode(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/validate", nil,
		map[string]string{"email": email, "code": code}, nil)
}

// ErrPasswordMismatch is returned before any request when the confirmation
// differs from the new password.
var ErrPasswordMismatch = errors.New("As senhas não coincidem")

// ResetPassword sets a new password using a reset code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/password-reset/reset", nil,
		map[string]string{"email": email, "code": code, "newPassword": newPassword}, nil)
}

// ResetPasswordConfirmed checks that confirmation matches before resetting.
func (c *Client) ResetPasswordConfirmed(ctx context.Context, email, code, newPassword, confirmation string) error {
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}
	return c.ResetPassword(ctx, email, code, newPassword)
}

