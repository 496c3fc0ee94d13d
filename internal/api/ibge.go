package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultIBGEURL is the public IBGE localities API.
const DefaultIBGEURL = "https://servicodados.ibge.gov.br/api/v1/localidades"

// DefaultIBGECacheTTL is how long localities are reused when caching is on.
const DefaultIBGECacheTTL = 24 * time.Hour

// IBGE lists Brazilian states and municipalities. Requests carry no
// credentials.
type IBGE struct {
	client *Client
	states *lookupCache[State]
	cities *lookupCache[City]
}

// NewIBGE returns an IBGE client for baseURL. Token options are ignored.
// Answers are cached only when WithLookupCache is given.
func NewIBGE(baseURL string, opts ...Option) (*IBGE, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultIBGEURL
	}
	client, err := New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	client.tokens = nil
	client.onExpired = nil
	return &IBGE{
		client: client,
		states: newLookupCache[State](client.cacheTTL, 1, client.now),
		cities: newLookupCache[City](client.cacheTTL, 27, client.now),
	}, nil
}

// ListStates returns all states ordered by name.
func (g *IBGE) ListStates(ctx context.Context) ([]State, error) {
	if states, ok := g.states.Get("estados"); ok {
		return states, nil
	}
	var states []State
	if err := g.client.do(ctx, http.MethodGet, "/estados", orderByName(), nil, &states); err != nil {
		return nil, err
	}
	g.states.Store("estados", states)
	return states, nil
}

// ListCities returns the municipalities of a state, by its two-letter code.
func (g *IBGE) ListCities(ctx context.Context, uf string) ([]City, error) {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if cities, ok := g.cities.Get(uf); ok {
		return cities, nil
	}
	var cities []City
	path := "/estados/" + escape(uf) + "/municipios"
	if err := g.client.do(ctx, http.MethodGet, path, orderByName(), nil, &cities); err != nil {
		return nil, err
	}
	g.cities.Store(uf, cities)
	return cities, nil
}

func orderByName() url.Values {
	return url.Values{"orderBy": []string{"nome"}}
}
