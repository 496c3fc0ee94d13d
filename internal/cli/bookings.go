package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/quebra-tigela/internal/ics"
	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/views"
)

var errNotBooked = errors.New("Só é possível exportar horários reservados")

func (a *App) cmdAvailable(ctx context.Context, args []string) error {
	fs := a.newFlags("available", "available -artist ID [-from AAAA-MM-DD] [-to AAAA-MM-DD]")
	artist := fs.String("artist", "", "id do artista")
	from := fs.String("from", "", "primeiro dia")
	to := fs.String("to", "", "último dia")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if err := a.require(fs, *artist); err != nil {
		return err
	}
	entries, err := a.schedule.ListAvailable(ctx, *artist, *from, *to)
	if err != nil {
		return err
	}
	return views.RenderList(a.out, entries, views.ModeClient, views.Permissions{CanBook: true})
}

func (a *App) cmdBook(ctx context.Context, args []string) error {
	fs := a.newFlags("book", "book [-notes texto] ID")
	notes := fs.String("notes", "", "observações para o artista")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	id, err := a.positional(fs)
	if err != nil {
		return err
	}
	entry, err := a.schedule.Book(ctx, id, *notes)
	if err != nil {
		return err
	}
	a.console.Success(ctx, fmt.Sprintf("Horário reservado com sucesso! %s das %s às %s", entry.Day(), entry.StartTime, entry.EndTime))
	return nil
}

func (a *App) cmdMyBookings(ctx context.Context, args []string) error {
	if err := a.parse(a.newFlags("my-bookings", "my-bookings"), args); err != nil {
		return err
	}
	entries, err := a.schedule.ListMyBookings(ctx)
	if err != nil {
		return err
	}
	return views.RenderList(a.out, entries, views.ModeClient, views.Permissions{})
}

func (a *App) cmdICS(ctx context.Context, args []string) error {
	fs := a.newFlags("ics", "ics [-dir pasta] ID")
	dir := fs.String("dir", ".", "pasta onde o arquivo .ics é gravado")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	id, err := a.positional(fs)
	if err != nil {
		return err
	}

	entry, err := a.schedule.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry.Status != schedule.StatusBooked {
		return errNotBooked
	}

	name, email := "Artista", ""
	if artist, err := a.client.GetArtist(ctx, entry.ArtistID); err != nil {
		a.logger.Warn("artist lookup failed, exporting without organizer", "artist_id", entry.ArtistID, "err", err)
	} else {
		name, email = artist.Name, artist.Email
	}
	event := ics.FromEntry(entry, name, email)

	doc, err := ics.Generator{}.Render(event)
	if err != nil {
		return err
	}
	path := filepath.Join(*dir, ics.FileName(entry))
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("não foi possível gravar %s: %w", path, err)
	}
	link, err := ics.GoogleLink(event)
	if err != nil {
		return err
	}
	a.console.Success(ctx, "Arquivo gerado: "+path)
	fmt.Fprintf(a.out, "Google Calendar: %s\n", link)
	return nil
}
