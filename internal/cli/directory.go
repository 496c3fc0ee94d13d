package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/example/quebra-tigela/internal/api"
	"github.com/example/quebra-tigela/internal/demo"
)

func (a *App) cmdArtists(ctx context.Context, args []string) error {
	fs := a.newFlags("artists", "artists [-state UF] [-city cidade] [-type tipo]")
	state := fs.String("state", "", "UF")
	city := fs.String("city", "", "cidade")
	artType := fs.String("type", "", "tipo de arte")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	artists, err := a.client.SearchArtists(ctx, api.ArtistFilter{State: *state, City: *city, ArtType: *artType})
	if err != nil {
		return err
	}
	if len(artists) == 0 {
		fmt.Fprintln(a.out, "Nenhum artista encontrado")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, artist := range artists {
		verified := ""
		if artist.Verified {
			verified = "verificado"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%s\t%s\n",
			artist.ID, artist.Name, artist.City, artist.State, strings.Join(artist.ArtTypes, ", "), verified)
	}
	return tw.Flush()
}

func (a *App) printArtist(artist api.Artist) {
	fmt.Fprintf(a.out, "ID: %s\nNome: %s\nE-mail: %s\n", artist.ID, artist.Name, artist.Email)
	if artist.City != "" || artist.State != "" {
		fmt.Fprintf(a.out, "Local: %s/%s\n", artist.City, artist.State)
	}
	if len(artist.ArtTypes) > 0 {
		fmt.Fprintf(a.out, "Tipos de arte: %s\n", strings.Join(artist.ArtTypes, ", "))
	}
	if artist.Bio != "" {
		fmt.Fprintf(a.out, "Bio: %s\n", artist.Bio)
	}
	fmt.Fprintf(a.out, "Verificado: %t\n", artist.Verified)
}

func (a *App) cmdServices(ctx context.Context, args []string) error {
	fs := a.newFlags("services", "services -artist ID")
	artist := fs.String("artist", "", "id do artista")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.require(fs, *artist); err != nil {
		return err
	}
	services, err := a.client.ListServicesByArtist(ctx, *artist)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		fmt.Fprintln(a.out, "Nenhum serviço cadastrado")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, service := range services {
		state := "ativo"
		if !service.Active {
			state = "inativo"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d mídia(s)\n", service.ID, service.Title, state, len(service.Media))
	}
	return tw.Flush()
}

func (a *App) cmdStates(ctx context.Context, args []string) error {
	if err := a.parse(a.newFlags("states", "states"), args); err != nil {
		return err
	}
	states, err := a.ibge.ListStates(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, state := range states {
		fmt.Fprintf(tw, "%s\t%s\n", state.Sigla, state.Nome)
	}
	return tw.Flush()
}

func (a *App) cmdCities(ctx context.Context, args []string) error {
	fs := a.newFlags("cities", "cities UF")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	uf, err := a.positional(fs)
	if err != nil {
		return err
	}
	states, err := a.ibge.ListStates(ctx)
	if err != nil {
		return err
	}
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if !slices.ContainsFunc(states, func(s api.State) bool { return s.Sigla == uf }) {
		return fmt.Errorf("UF desconhecida: %s", uf)
	}
	cities, err := a.ibge.ListCities(ctx, uf)
	if err != nil {
		return err
	}
	for _, city := range cities {
		fmt.Fprintln(a.out, city.Nome)
	}
	return nil
}

func (a *App) cmdVerify(ctx context.Context, args []string) error {
	fs := a.newFlags("verify", "verify -document foto -selfie foto")
	document := fs.String("document", "", "foto do documento")
	selfie := fs.String("selfie", "", "selfie")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.require(fs, *document, *selfie); err != nil {
		return err
	}
	artistID := a.artistID()
	if artistID == "" {
		return api.ErrNotAuthenticated
	}
	docFile, err := api.ReadFormFile(*document)
	if err != nil {
		return err
	}
	selfieFile, err := api.ReadFormFile(*selfie)
	if err != nil {
		return err
	}

	result, err := a.client.VerifyArtistPhotos(ctx, artistID, docFile, selfieFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Similaridade: %.1f%%\nConfiança: %.1f%%\n", result.Similarity, result.Confidence)
	if !result.Verified {
		return fmt.Errorf("Verificação recusada: %s", result.Message)
	}
	a.console.Success(ctx, "Identidade verificada")
	return nil
}

func (a *App) cmdQuality(ctx context.Context, args []string) error {
	fs := a.newFlags("quality", "quality FOTO")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	path, err := a.positional(fs)
	if err != nil {
		return err
	}
	image, err := api.ReadFormFile(path)
	if err != nil {
		return err
	}
	quality, err := a.client.AnalyzeImageQuality(ctx, image)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Qualidade: %s (%.0f)\nRosto detectado: %t\n", quality.Quality, quality.Score, quality.HasFace)
	for _, issue := range quality.Issues {
		fmt.Fprintf(a.out, "  - %s\n", issue)
	}
	return nil
}

// cmdSeedArtists registers the demo roster, skipping accounts the backend
// refuses.
func (a *App) cmdSeedArtists(ctx context.Context, args []string) error {
	if err := a.parse(a.newFlags("seed-artists", "seed-artists"), args); err != nil {
		return err
	}
	roster := demo.RosterArtists()
	created := 0
	var errs []error
	for _, artist := range roster {
		if _, err := a.client.RegisterArtist(ctx, artist); err != nil {
			a.console.Error(ctx, fmt.Sprintf("%s: %v", artist.Email, err))
			errs = append(errs, err)
			continue
		}
		created++
		a.console.Success(ctx, "Artista cadastrado: "+artist.Name)
	}
	fmt.Fprintf(a.out, "%d de %d artistas cadastrados\n", created, len(roster))
	if created == 0 && len(errs) > 0 {
		return fmt.Errorf("%w: %v", errReported, errors.Join(errs...))
	}
	return nil
}
