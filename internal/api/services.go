package api

import (
	"context"
	"net/http"
)

// CreateService publishes a new service offering.
func (c *Client) CreateService(ctx context.Context, input NewService) (Service, error) {
	var service Service
	err := c.do(ctx, http.MethodPost, "/api/service-offerings", nil, input, &service)
	return service, err
}

// ListServicesByArtist lists an artist's offerings.
func (c *Client) ListServicesByArtist(ctx context.Context, artistID string) ([]Service, error) {
	var services []Service
	err := c.do(ctx, http.MethodGet, "/api/service-offerings/artist/"+escape(artistID), nil, nil, &services)
	return services, err
}

// GetService returns one offering.
func (c *Client) GetService(ctx context.Context, id string) (Service, error) {
	var service Service
	err := c.do(ctx, http.MethodGet, "/api/service-offerings/"+escape(id), nil, nil, &service)
	return service, err
}

// UpdateService replaces the editable fields of an offering.
func (c *Client) UpdateService(ctx context.Context, id string, update ServiceUpdate) (Service, error) {
	var service Service
	err := c.do(ctx, http.MethodPut, "/api/service-offerings/"+escape(id), nil, update, &service)
	return service, err
}

// SetServiceActive toggles whether an offering is listed.
func (c *Client) SetServiceActive(ctx context.Context, id string, active bool) (Service, error) {
	body := struct {
		Active bool `json:"active"`
	}{Active: active}
	var service Service
	err := c.do(ctx, http.MethodPatch, "/api/service-offerings/"+escape(id), nil, body, &service)
	return service, err
}

// DeleteService removes an offering.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/service-offerings/"+escape(id), nil, nil, nil)
}
