package calendar

import (
	"fmt"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

var monthNames = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

var monthTitles = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var weekdayNames = [...]string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira",
	"Quinta-feira", "Sexta-feira", "Sábado",
}

var weekdayShort = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

var statusLabels = map[schedule.Status]string{
	schedule.StatusAvailable: "Disponível",
	schedule.StatusBooked:    "Reservado",
	schedule.StatusCancelled: "Cancelado",
}

// MonthName returns the lower-case Portuguese month name.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// MonthTitle renders "Novembro 2025".
func MonthTitle(t time.Time) string {
	return fmt.Sprintf("%s %d", monthTitles[t.Month()-1], t.Year())
}

// WeekdayName returns the full weekday name, e.g. "Quarta-feira".
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// WeekdayShort returns the abbreviated weekday name, e.g. "Qua".
func WeekdayShort(d time.Weekday) string {
	return weekdayShort[d]
}

// WeekdayHeader returns the abbreviated names from Sunday to Saturday.
func WeekdayHeader() []string {
	return weekdayShort[:]
}

// FormatLong renders an ISO date as "19 de novembro de 2025". Any time
// suffix is ignored.
func FormatLong(date string) (string, error) {
	day, err := schedule.ParseDay(date, time.UTC)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d de %s de %d", day.Day(), MonthName(day.Month()), day.Year()), nil
}

// WeekdayOf returns the weekday name of an ISO date.
func WeekdayOf(date string) (string, error) {
	day, err := schedule.ParseDay(date, time.UTC)
	if err != nil {
		return "", err
	}
	return WeekdayName(day.Weekday()), nil
}

// StatusLabel returns the Portuguese label of a status.
func StatusLabel(status schedule.Status) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

// DateString formats t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return schedule.DateString(t)
}

// SameDay reports whether a and b fall on the same calendar day in their
// own locations.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// RelativeMonths returns from shifted by months, positive into the future.
func RelativeMonths(from time.Time, months int) time.Time {
	return from.AddDate(0, months, 0)
}
