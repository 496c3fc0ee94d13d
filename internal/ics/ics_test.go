package ics

import (
	"net/url"
	"strings"
	"testing"

	"github.com/example/quebra-tigela/internal/testfixtures"
)

func TestRenderBookedEntry(t *testing.T) {
	t.Parallel()

	entry := testfixtures.NewEntryFixture(
		testfixtures.WithEntryDate("2025-11-19T00:00:00.000Z"),
		testfixtures.WithEntryTimes("14:00", "15:30"),
		testfixtures.WithEntryBookedBy("c1"),
	).Entry()
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	gen := Generator{Now: clock.NowFunc(), NewID: func() string { return "fixed" }}

	doc, err := gen.Render(FromEntry(entry, "Marina Silva", "marina@exemplo.com"))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Quebra Tigela//Agenda//PT-BR",
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:fixed@quebra-tigela.com",
		"DTSTAMP:20251119T103000Z",
		"DTSTART:20251119T140000",
		"DTEND:20251119T153000",
		"SUMMARY:Horário com Marina Silva",
		"DESCRIPTION:Serviço agendado com Marina Silva",
		"LOCATION:A combinar",
		"ORGANIZER;CN=Marina Silva:mailto:marina@exemplo.com",
		"STATUS:CONFIRMED",
		"SEQUENCE:0",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")
	if doc != want {
		t.Fatalf("unexpected document:\n%s", doc)
	}
}

func TestRenderEscapesNotesAndOmitsOrganizer(t *testing.T) {
	t.Parallel()

	entry := testfixtures.NewEntryFixture(testfixtures.WithEntryNotes("Trazer referências\nfoto, tinta; pincel")).Entry()
	doc, err := Generator{}.Render(FromEntry(entry, "Ana", ""))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(doc, `DESCRIPTION:Trazer referências\nfoto\, tinta\; pincel`) {
		t.Fatalf("notes not escaped:\n%s", doc)
	}
	if strings.Contains(doc, "ORGANIZER") {
		t.Fatal("organizer must be omitted without e-mail")
	}
	if !strings.Contains(doc, "@quebra-tigela.com") {
		t.Fatal("expected generated UID")
	}
}

func TestRenderRejectsInvalidTimes(t *testing.T) {
	t.Parallel()

	entry := testfixtures.NewEntryFixture(testfixtures.WithEntryTimes("25:00", "26:00")).Entry()
	if _, err := (Generator{}).Render(FromEntry(entry, "Ana", "")); err == nil {
		t.Fatal("expected error for invalid time")
	}
}

func TestGoogleLink(t *testing.T) {
	t.Parallel()

	entry := testfixtures.NewEntryFixture(testfixtures.WithEntryTimes("09:00", "10:00")).Entry()
	link, err := GoogleLink(FromEntry(entry, "Carlos", ""))
	if err != nil {
		t.Fatalf("GoogleLink returned error: %v", err)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("invalid link: %v", err)
	}
	if parsed.Host != "calendar.google.com" || parsed.Path != "/calendar/render" {
		t.Fatalf("unexpected link %s", link)
	}
	q := parsed.Query()
	if q.Get("action") != "TEMPLATE" || q.Get("text") != "Horário com Carlos" ||
		q.Get("dates") != "20251119T090000/20251119T100000" ||
		q.Get("details") != "Serviço agendado com Carlos" || q.Get("location") != "A combinar" {
		t.Fatalf("unexpected query %v", q)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	entry := testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-19T00:00:00Z"), testfixtures.WithEntryTimes("14:00", "15:00")).Entry()
	if got := FileName(entry); got != "agendamento-2025-11-19-1400.ics" {
		t.Fatalf("unexpected file name %q", got)
	}
}
