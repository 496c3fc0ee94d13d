// Package calendar builds the month grid of the agenda and carries the
// Portuguese date labels used by the views.
package calendar

import (
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

// Cell is one position of the grid. Blank cells pad the first and last
// weeks and have a zero Date.
type Cell struct {
	Blank        bool
	Date         time.Time
	Key          string
	Count        int
	HasAvailable bool
	HasBooked    bool
	IsToday      bool
}

// Month is a Sunday-first grid of weeks.
type Month struct {
	First time.Time
	Weeks [][7]Cell
}

// Build lays out month with per-day entry summaries. Only the year and
// month of month are used; today marks the matching cell.
func Build(month time.Time, entries []schedule.Entry, today time.Time) Month {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	days := first.AddDate(0, 1, -1).Day()

	byDay := make(map[string][]schedule.Entry)
	for _, entry := range entries {
		key := entry.Day()
		byDay[key] = append(byDay[key], entry)
	}

	var cells []Cell
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		date := first.AddDate(0, 0, d-1)
		key := schedule.DateString(date)
		cell := Cell{
			Date:    date,
			Key:     key,
			IsToday: SameDay(date, today),
		}
		for _, entry := range byDay[key] {
			cell.Count++
			switch entry.Status {
			case schedule.StatusAvailable:
				cell.HasAvailable = true
			case schedule.StatusBooked:
				cell.HasBooked = true
			}
		}
		cells = append(cells, cell)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{Blank: true})
	}

	grid := Month{First: first}
	for i := 0; i < len(cells); i += 7 {
		var week [7]Cell
		copy(week[:], cells[i:i+7])
		grid.Weeks = append(grid.Weeks, week)
	}
	return grid
}

// Title renders the month heading.
func (m Month) Title() string {
	return MonthTitle(m.First)
}

// Prev returns the first day of the previous month.
func (m Month) Prev() time.Time {
	return m.First.AddDate(0, -1, 0)
}

// Next returns the first day of the next month.
func (m Month) Next() time.Time {
	return m.First.AddDate(0, 1, 0)
}

// Cell returns the cell of the given day of the month.
func (m Month) Cell(day int) (Cell, bool) {
	for _, week := range m.Weeks {
		for _, cell := range week {
			if !cell.Blank && cell.Date.Day() == day {
				return cell, true
			}
		}
	}
	return Cell{}, false
}
