package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the account role carried in the token payload.
type Role string

const (
	RoleClient Role = "client"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

// Claims is the decoded identity of a session token.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// UserID returns the subject of the token.
func (c Claims) UserID() string {
	return c.Subject
}

// Expired reports whether the token carried an expiry that has passed.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

var parser = jwt.NewParser()

// Decode reads the payload of token without verifying its signature. It
// reports false for anything that is not a well-formed JWT. A header with a
// missing or unknown alg still yields the payload.
func Decode(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}
	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mapClaims); err != nil && !errors.Is(err, jwt.ErrTokenUnverifiable) {
		return Claims{}, false
	}

	claims := Claims{
		Subject: stringClaim(mapClaims["sub"]),
		Email:   stringClaim(mapClaims["email"]),
		Role:    Role(stringClaim(mapClaims["role"])),
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, true
}

func stringClaim(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
