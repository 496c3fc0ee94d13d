package calendar

import (
	"testing"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
	"github.com/example/quebra-tigela/internal/testfixtures"
)

func TestBuildNovember2025(t *testing.T) {
	t.Parallel()

	entries := testfixtures.Entries(
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-19")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-19T10:00:00"), testfixtures.WithEntryBookedBy("c1")),
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-11-20"), testfixtures.WithEntryStatus(schedule.StatusCancelled)),
		testfixtures.NewEntryFixture(testfixtures.WithEntryDate("2025-12-01")),
	)
	today := testfixtures.ReferenceTime()
	grid := Build(today, entries, today)

	if grid.Title() != "Novembro 2025" {
		t.Fatalf("unexpected title %q", grid.Title())
	}
	// 1 Nov 2025 is a Saturday: six leading blanks, 30 days, six trailing blanks.
	if len(grid.Weeks) != 6 {
		t.Fatalf("expected 6 weeks, got %d", len(grid.Weeks))
	}
	for i := 0; i < 6; i++ {
		if !grid.Weeks[0][i].Blank {
			t.Fatalf("expected blank leading cell %d", i)
		}
	}
	if first := grid.Weeks[0][6]; first.Blank || first.Key != "2025-11-01" {
		t.Fatalf("unexpected first day cell %+v", first)
	}
	if last := grid.Weeks[5][0]; last.Key != "2025-11-30" || !grid.Weeks[5][1].Blank {
		t.Fatalf("unexpected last week %+v", grid.Weeks[5])
	}

	day19, ok := grid.Cell(19)
	if !ok {
		t.Fatal("missing cell for day 19")
	}
	if day19.Count != 2 || !day19.HasAvailable || !day19.HasBooked || !day19.IsToday {
		t.Fatalf("unexpected cell %+v", day19)
	}
	day20, _ := grid.Cell(20)
	if day20.Count != 1 || day20.HasAvailable || day20.HasBooked || day20.IsToday {
		t.Fatalf("unexpected cell %+v", day20)
	}
}

func TestBuildMonthStartingOnSunday(t *testing.T) {
	t.Parallel()

	// 1 Feb 2026 is a Sunday and February 2026 has 28 days.
	grid := Build(time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC), nil, time.Time{})
	if len(grid.Weeks) != 4 {
		t.Fatalf("expected 4 weeks, got %d", len(grid.Weeks))
	}
	if grid.Weeks[0][0].Key != "2026-02-01" || grid.Weeks[3][6].Key != "2026-02-28" {
		t.Fatalf("unexpected grid bounds %+v", grid.Weeks)
	}
}

func TestMonthNavigation(t *testing.T) {
	t.Parallel()

	grid := Build(time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC), nil, time.Time{})
	if MonthTitle(grid.Prev()) != "Dezembro 2025" || MonthTitle(grid.Next()) != "Fevereiro 2026" {
		t.Fatalf("unexpected navigation %v %v", grid.Prev(), grid.Next())
	}
}

func TestDateLabels(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"2025-11-19", "2025-11-19T10:00:00"} {
		long, err := FormatLong(date)
		if err != nil || long != "19 de novembro de 2025" {
			t.Fatalf("FormatLong(%q) = %q, %v", date, long, err)
		}
		weekday, err := WeekdayOf(date)
		if err != nil || weekday != "Quarta-feira" {
			t.Fatalf("WeekdayOf(%q) = %q, %v", date, weekday, err)
		}
	}
	if _, err := FormatLong("19/11/2025"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
	if WeekdayShort(time.Saturday) != "Sáb" || len(WeekdayHeader()) != 7 {
		t.Fatal("unexpected short weekday names")
	}
	if StatusLabel(schedule.StatusBooked) != "Reservado" || StatusLabel("other") != "other" {
		t.Fatal("unexpected status labels")
	}
}

func TestDayHelpers(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, time.November, 19, 10, 30, 0, 0, time.UTC)
	b := time.Date(2025, time.November, 19, 15, 45, 0, 0, time.UTC)
	if !SameDay(a, b) || SameDay(a, a.AddDate(0, 0, 1)) {
		t.Fatal("unexpected SameDay result")
	}
	if DateString(RelativeMonths(a, -6)) != "2025-05-19" || DateString(RelativeMonths(a, 3)) != "2026-02-19" {
		t.Fatal("unexpected RelativeMonths result")
	}
}
