package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/quebra-tigela/internal/session"
)

// SearchArtists lists artists matching the optional filter.
func (c *Client) SearchArtists(ctx context.Context, filter ArtistFilter) ([]Artist, error) {
	query := url.Values{}
	setIf(query, "state", filter.State)
	setIf(query, "city", filter.City)
	setIf(query, "artType", filter.ArtType)

	var artists []Artist
	err := c.do(ctx, http.MethodGet, "/api/artists/search", query, nil, &artists)
	return artists, err
}

// GetArtistProfile returns the public profile of a verified artist.
func (c *Client) GetArtistProfile(ctx context.Context, id string) (Artist, error) {
	var artist Artist
	err := c.do(ctx, http.MethodGet, "/api/artists/"+escape(id)+"/profile", nil, nil, &artist)
	return artist, err
}

// GetArtist returns an artist regardless of verification.
func (c *Client) GetArtist(ctx context.Context, id string) (Artist, error) {
	var artist Artist
	err := c.do(ctx, http.MethodGet, "/api/artists/"+escape(id), nil, nil, &artist)
	return artist, err
}

// MyProfile returns the artist identified by the session token subject.
func (c *Client) MyProfile(ctx context.Context) (Artist, error) {
	id, err := c.subject()
	if err != nil {
		return Artist{}, err
	}
	return c.GetArtist(ctx, id)
}

// UpdateArtist applies a partial profile update.
func (c *Client) UpdateArtist(ctx context.Context, id string, update ArtistUpdate) (Artist, error) {
	var artist Artist
	err := c.do(ctx, http.MethodPatch, "/api/artists/"+escape(id), nil, update, &artist)
	return artist, err
}

// DeleteArtist removes an artist account.
func (c *Client) DeleteArtist(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/artists/"+escape(id), nil, nil, nil)
}

// VerifyArtistIdentity submits a selfie and an identity document.
func (c *Client) VerifyArtistIdentity(ctx context.Context, id string, selfie, document FormFile) (IdentityCheck, error) {
	var result IdentityCheck
	err := c.postMultipart(ctx, "/api/artists/"+escape(id)+"/verify-identity", []FormPart{
		selfie.As("selfie"),
		document.As("document"),
	}, 0, &result)
	return result, err
}

func (c *Client) subject() (string, error) {
	if c.tokens == nil || c.tokens.Token() == "" {
		return "", ErrNotAuthenticated
	}
	claims, ok := session.Decode(c.tokens.Token())
	if !ok || claims.Subject == "" {
		return "", ErrTokenUndecodable
	}
	return claims.Subject, nil
}
