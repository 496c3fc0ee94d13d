package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/example/quebra-tigela/internal/calendar"
	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/testfixtures"
)

func TestActionsGating(t *testing.T) {
	t.Parallel()

	all := Permissions{CanCancel: true, CanDelete: true, CanBook: true}
	cases := []struct {
		name   string
		status schedule.Status
		mode   Mode
		perms  Permissions
		want   ActionSet
	}{
		{name: "artist booked", status: schedule.StatusBooked, mode: ModeArtist, perms: all, want: ActionSet{Cancel: true}},
		{name: "artist available", status: schedule.StatusAvailable, mode: ModeArtist, perms: all, want: ActionSet{Delete: true}},
		{name: "artist cancelled", status: schedule.StatusCancelled, mode: ModeArtist, perms: all, want: ActionSet{}},
		{name: "artist without permission", status: schedule.StatusBooked, mode: ModeArtist, perms: Permissions{CanDelete: true}, want: ActionSet{}},
		{name: "client available", status: schedule.StatusAvailable, mode: ModeClient, perms: all, want: ActionSet{Book: true}},
		{name: "client available without handler", status: schedule.StatusAvailable, mode: ModeClient, perms: Permissions{}, want: ActionSet{}},
		{name: "client booked", status: schedule.StatusBooked, mode: ModeClient, perms: all, want: ActionSet{AddToCalendar: true}},
		{name: "unknown mode", status: schedule.StatusAvailable, mode: "visitante", perms: all, want: ActionSet{}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			entry := testfixtures.NewEntryFixture(testfixtures.WithEntryStatus(tc.status)).Entry()
			if got := Actions(entry, tc.mode, tc.perms); got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestGroupByDateIsChronological(t *testing.T) {
	t.Parallel()

	entries := testfixtures.Entries(
		testfixtures.NewEntryFixture(testfixtures.WithEntryID("late"), testfixtures.WithEntryDate("2025-11-21"), testfixtures.WithEntryTimes("09:00", "10:00")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryID("b"), testfixtures.WithEntryDate("2025-11-19T00:00:00.000Z"), testfixtures.WithEntryTimes("14:00", "15:00")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryID("a"), testfixtures.WithEntryDate("2025-11-19"), testfixtures.WithEntryTimes("09:00", "10:00")),
	)
	groups := GroupByDate(entries)
	if len(groups) != 2 || groups[0].Key != "2025-11-19" || groups[1].Key != "2025-11-21" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if groups[0].Entries[0].ID != "a" || groups[0].Entries[1].ID != "b" {
		t.Fatalf("expected entries ordered by start time, got %+v", groups[0].Entries)
	}
}

func TestForDay(t *testing.T) {
	t.Parallel()

	entries := testfixtures.Entries(
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-19T10:00:00")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-20")),
	)
	if got := ForDay(entries, testfixtures.ReferenceTime()); len(got) != 1 {
		t.Fatalf("expected one entry, got %+v", got)
	}
	if got := ForDay(entries, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)); len(got) != 0 {
		t.Fatalf("expected no entries, got %+v", got)
	}
}

func TestRenderList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderList(&buf, nil, ModeArtist, Permissions{}); err != nil {
		t.Fatalf("RenderList returned error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Nenhum horário encontrado" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}

	buf.Reset()
	entries := testfixtures.Entries(
		testfixtures.NewEntryFixture(testfixtures.WithEntryID("e1")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryID("e2"), testfixtures.WithEntryTimes("10:00", "11:00"),
			testfixtures.WithEntryBookedBy("c1"), testfixtures.WithEntryNotes("Retrato")),
	)
	if err := RenderList(&buf, entries, ModeArtist, Permissions{CanCancel: true, CanDelete: true}); err != nil {
		t.Fatalf("RenderList returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"19 de novembro de 2025 - Quarta-feira",
		"09:00 até 10:00",
		"Disponível",
		"Sem observações",
		"Deletar",
		"Reservado",
		"Retrato",
		"Cancelar",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderDayEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := RenderDay(&buf, nil, testfixtures.ReferenceTime(), ModeClient, Permissions{}); err != nil {
		t.Fatalf("RenderDay returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Nenhum agendamento para este dia") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderMonth(t *testing.T) {
	t.Parallel()

	entries := testfixtures.Entries(
		testfixtures.NewEntryFixture(),
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-20"), testfixtures.WithEntryBookedBy("c1")),
	)
	grid := calendar.Build(testfixtures.ReferenceTime(), entries, testfixtures.ReferenceTime())

	var buf bytes.Buffer
	if err := RenderMonth(&buf, grid); err != nil {
		t.Fatalf("RenderMonth returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Novembro 2025", "Dom", "Sáb", "[19]+", "20*", "30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
