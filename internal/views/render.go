package views

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/quebra-tigela/internal/calendar"
	"github.com/example/quebra-tigela/internal/schedule"
)

const (
	emptyList = "Nenhum horário encontrado"
	emptyDay  = "Nenhum agendamento para este dia"
	noNotes   = "Sem observações"
)

// RenderList writes the entries grouped by day.
func RenderList(w io.Writer, entries []schedule.Entry, mode Mode, perms Permissions) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, emptyList)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, group := range GroupByDate(entries) {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, dayHeading(group.Key))
		writeRows(tw, group.Entries, mode, perms)
	}
	return tw.Flush()
}

// RenderDay writes the day view of day.
func RenderDay(w io.Writer, entries []schedule.Entry, day time.Time, mode Mode, perms Permissions) error {
	fmt.Fprintln(w, dayHeading(schedule.DateString(day)))
	dayEntries := ForDay(entries, day)
	if len(dayEntries) == 0 {
		_, err := fmt.Fprintln(w, emptyDay)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	writeRows(tw, dayEntries, mode, perms)
	return tw.Flush()
}

// RenderMonth writes the month grid. Days with available slots are marked
// with "+", days with bookings with "*".
func RenderMonth(w io.Writer, month calendar.Month) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, month.Title())
	fmt.Fprintln(tw, strings.Join(calendar.WeekdayHeader(), "\t")+"\t")
	for _, week := range month.Weeks {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, cellLabel(cell))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}

func cellLabel(cell calendar.Cell) string {
	if cell.Blank {
		return ""
	}
	label := fmt.Sprintf("%d", cell.Date.Day())
	if cell.IsToday {
		label = "[" + label + "]"
	}
	if cell.HasAvailable {
		label += "+"
	}
	if cell.HasBooked {
		label += "*"
	}
	return label
}

func dayHeading(key string) string {
	long, err := calendar.FormatLong(key)
	if err != nil {
		return key
	}
	weekday, _ := calendar.WeekdayOf(key)
	return long + " - " + weekday
}

func writeRows(tw *tabwriter.Writer, entries []schedule.Entry, mode Mode, perms Permissions) {
	for _, entry := range entries {
		notes := entry.Notes
		if notes == "" {
			notes = noNotes
		}
		actions := strings.Join(Actions(entry, mode, perms).Labels(), ", ")
		fmt.Fprintf(tw, "  %s\t%s até %s\t%s\t%s\t%s\n",
			entry.ID, clock(entry.StartTime), clock(entry.EndTime),
			calendar.StatusLabel(entry.Status), notes, actions)
	}
}

func clock(value string) string {
	if value == "" {
		return "00:00"
	}
	return value
}
