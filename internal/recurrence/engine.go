// Package recurrence repeats a day's slot templates across a date range so an
// artist can publish recurring availability in one batch.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

// MaxDays bounds the window a single rule may cover.
const MaxDays = 92

// Frequency represents supported recurrence intervals.
type Frequency int

const (
	// FrequencyUnspecified indicates the rule frequency is not set.
	FrequencyUnspecified Frequency = iota
	// FrequencyDaily repeats every day, optionally filtered by weekday.
	FrequencyDaily
	// FrequencyWeekly repeats on the selected weekdays only.
	FrequencyWeekly
)

// Rule describes which days of [StartsOn, EndsOn] receive the templates.
// Both bounds are inclusive day keys.
type Rule struct {
	Frequency Frequency
	Weekdays  []time.Weekday
	StartsOn  string
	EndsOn    string
}

var (
	// ErrInvalidFrequency indicates the recurrence frequency is not supported.
	ErrInvalidFrequency = errors.New("Frequência de repetição inválida")
	// ErrInvalidWindow indicates the rule bounds are missing or reversed.
	ErrInvalidWindow = errors.New("Período de repetição inválido")
	// ErrWindowTooLong indicates the rule covers more than MaxDays.
	ErrWindowTooLong = fmt.Errorf("O período de repetição não pode passar de %d dias", MaxDays)
	// ErrNoWeekdays indicates a weekly rule without weekdays.
	ErrNoWeekdays = errors.New("Informe ao menos um dia da semana")
)

// Days returns the day keys selected by rule in chronological order.
func Days(rule Rule) ([]string, error) {
	start, err := schedule.ParseDay(rule.StartsOn, time.UTC)
	if err != nil || rule.StartsOn == "" {
		return nil, ErrInvalidWindow
	}
	end, err := schedule.ParseDay(rule.EndsOn, time.UTC)
	if err != nil || rule.EndsOn == "" || end.Before(start) {
		return nil, ErrInvalidWindow
	}
	if end.Sub(start) >= MaxDays*24*time.Hour {
		return nil, ErrWindowTooLong
	}

	weekdays := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, day := range rule.Weekdays {
		weekdays[day] = struct{}{}
	}
	if rule.Frequency == FrequencyWeekly && len(weekdays) == 0 {
		return nil, ErrNoWeekdays
	}

	var days []string
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		include, err := shouldInclude(rule.Frequency, weekdays, current.Weekday())
		if err != nil {
			return nil, err
		}
		if include {
			days = append(days, schedule.DateString(current))
		}
	}
	return days, nil
}

// Expand copies every template onto each day selected by rule. The template
// dates are ignored.
func Expand(rule Rule, templates []schedule.NewEntry) ([]schedule.NewEntry, error) {
	days, err := Days(rule)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.NewEntry, 0, len(days)*len(templates))
	for _, day := range days {
		for _, template := range templates {
			template.Date = day
			out = append(out, template)
		}
	}
	return out, nil
}

func shouldInclude(freq Frequency, weekdays map[time.Weekday]struct{}, day time.Weekday) (bool, error) {
	switch freq {
	case FrequencyDaily:
		if len(weekdays) == 0 {
			return true, nil
		}
		_, ok := weekdays[day]
		return ok, nil
	case FrequencyWeekly:
		_, ok := weekdays[day]
		return ok, nil
	default:
		return false, ErrInvalidFrequency
	}
}

var weekdayNames = map[string]time.Weekday{
	"dom": time.Sunday,
	"seg": time.Monday,
	"ter": time.Tuesday,
	"qua": time.Wednesday,
	"qui": time.Thursday,
	"sex": time.Friday,
	"sab": time.Saturday,
	"sáb": time.Saturday,
}

// ParseWeekdays parses a comma separated list of Portuguese weekday
// abbreviations such as "seg,qua,sex".
func ParseWeekdays(value string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len([]rune(part)) > 3 {
			part = string([]rune(part)[:3])
		}
		day, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("dia da semana desconhecido: %q", part)
		}
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	return out, nil
}
