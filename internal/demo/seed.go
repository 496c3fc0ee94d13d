package demo

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/schedule/mockstore"
	"github.com/example/quebra-tigela/internal/session"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "teste123"

// Seeded e-mails of the accounts that own the mock schedule.
const (
	SeedArtistEmail = "artista@exemplo.com"
	SeedClientEmail = "cliente@exemplo.com"
)

// Roster is the fixed set of demo artists registered by seed-artists.
var Roster = []Registration{
	{
		Type: session.UserArtist, Name: "Marina Silva Santos", Email: "marina.silva@exemplo.com",
		Bio:  "Artista plástica especializada em pintura abstrata e arte contemporânea.",
		City: "Florianópolis", State: "SC", ArtTypes: []string{"Pintura", "Arte Abstrata"},
	},
	{
		Type: session.UserArtist, Name: "Carlos Eduardo Müller", Email: "carlos.muller@exemplo.com",
		Bio:  "Escultor e artesão com trabalhos em madeira e pedra.",
		City: "Blumenau", State: "SC", ArtTypes: []string{"Escultura", "Artesanato"},
	},
	{
		Type: session.UserArtist, Name: "Ana Carolina Rodrigues", Email: "ana.rodrigues@exemplo.com",
		Bio:  "Fotógrafa de retratos e ensaios autorais.",
		City: "Joinville", State: "SC", ArtTypes: []string{"Fotografia", "Retratos"},
	},
	{
		Type: session.UserArtist, Name: "Rafael Gomes Oliveira", Email: "rafael.gomes@exemplo.com",
		Bio:  "Músico e compositor de trilhas e canções.",
		City: "Chapecó", State: "SC", ArtTypes: []string{"Música", "Composição"},
	},
	{
		Type: session.UserArtist, Name: "Juliana Costa Pereira", Email: "juliana.costa@exemplo.com",
		Bio:  "Bailarina e coreógrafa de dança contemporânea.",
		City: "Lages", State: "SC", ArtTypes: []string{"Dança", "Coreografia"},
	},
}

// SeedAccounts registers the artist that owns the mock schedule under
// artistID, the client that holds its seeded bookings, and the roster.
// Accounts already present are skipped.
func SeedAccounts(ctx context.Context, d *Directory, artistID string) error {
	if artistID == "" {
		artistID = mockstore.DefaultArtistID
	}
	regs := []Registration{
		{
			ID: artistID, Type: session.UserArtist, Name: "Artista Demonstração", Email: SeedArtistEmail,
			City: "Florianópolis", State: "SC", ArtTypes: []string{"Tatuagem"}, Verified: true,
		},
		{
			ID: mockstore.DefaultClientID, Type: session.UserClient, Name: "Cliente Demonstração", Email: SeedClientEmail,
			City: "Florianópolis", State: "SC",
		},
	}
	regs = append(regs, Roster...)
	for _, reg := range regs {
		reg.Password = SeedPassword
		if _, err := d.Register(ctx, reg); err != nil && !errors.Is(err, ErrEmailTaken) {
			return fmt.Errorf("demo: seed %s: %w", reg.Email, err)
		}
	}
	return nil
}

// RosterArtists returns the roster as registration payloads for a real
// backend.
func RosterArtists() []api.NewArtist {
	out := make([]api.NewArtist, 0, len(Roster))
	for _, reg := range Roster {
		out = append(out, api.NewArtist{
			Name:     reg.Name,
			Email:    reg.Email,
			Password: SeedPassword,
			Bio:      reg.Bio,
			City:     reg.City,
			State:    reg.State,
			ArtTypes: append([]string(nil), reg.ArtTypes...),
		})
	}
	return out
}
