// Package ics exports booked schedule entries as iCalendar files and Google
// Calendar template links.
package ics

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/quebra-tigela/internal/schedule"
)

const (
	prodID          = "-//Quebra Tigela//Agenda//PT-BR"
	uidDomain       = "quebra-tigela.com"
	defaultLocation = "A combinar"
	googleRenderURL = "https://calendar.google.com/calendar/render"
	stampLayout     = "20060102T150405Z"
)

// Organizer is the artist named on the invitation.
type Organizer struct {
	Name  string
	Email string
}

// Event is a calendar event with naive local start and end times.
type Event struct {
	Title       string
	Description string
	Location    string
	StartDate   string
	StartTime   string
	EndDate     string
	EndTime     string
	Organizer   *Organizer
}

// FromEntry describes a booked entry with artistName. The organizer is set
// only when artistEmail is known.
func FromEntry(entry schedule.Entry, artistName, artistEmail string) Event {
	description := entry.Notes
	if description == "" {
		description = "Serviço agendado com " + artistName
	}
	event := Event{
		Title:       "Horário com " + artistName,
		Description: description,
		Location:    defaultLocation,
		StartDate:   entry.Day(),
		StartTime:   entry.StartTime,
		EndDate:     entry.Day(),
		EndTime:     entry.EndTime,
	}
	if artistEmail != "" {
		event.Organizer = &Organizer{Name: artistName, Email: artistEmail}
	}
	return event
}

// FileName is the suggested download name for entry's invitation.
func FileName(entry schedule.Entry) string {
	return fmt.Sprintf("agendamento-%s-%s.ics", entry.Day(), strings.ReplaceAll(entry.StartTime, ":", ""))
}

// Generator renders events. The zero value uses the wall clock and random
// UUIDs.
type Generator struct {
	Now   func() time.Time
	NewID func() string
}

// Render returns the VCALENDAR document with CRLF line endings.
func (g Generator) Render(event Event) (string, error) {
	start, err := stamp(event.StartDate, event.StartTime)
	if err != nil {
		return "", err
	}
	end, err := stamp(event.EndDate, event.EndTime)
	if err != nil {
		return "", err
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	newID := uuid.NewString
	if g.NewID != nil {
		newID = g.NewID
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + prodID,
		"CALSCALE:GREGORIAN",
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + newID() + "@" + uidDomain,
		"DTSTAMP:" + now().UTC().Format(stampLayout),
		"DTSTART:" + start,
		"DTEND:" + end,
		"SUMMARY:" + escapeText(event.Title),
	}
	if event.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(event.Description))
	}
	if event.Location != "" {
		lines = append(lines, "LOCATION:"+escapeText(event.Location))
	}
	if event.Organizer != nil {
		lines = append(lines, fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", event.Organizer.Name, event.Organizer.Email))
	}
	lines = append(lines, "STATUS:CONFIRMED", "SEQUENCE:0", "END:VEVENT", "END:VCALENDAR")
	return strings.Join(lines, "\r\n"), nil
}

// GoogleLink returns the Google Calendar template URL for event.
func GoogleLink(event Event) (string, error) {
	start, err := stamp(event.StartDate, event.StartTime)
	if err != nil {
		return "", err
	}
	end, err := stamp(event.EndDate, event.EndTime)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", start+"/"+end)
	if event.Description != "" {
		params.Set("details", event.Description)
	}
	if event.Location != "" {
		params.Set("location", event.Location)
	}
	return googleRenderURL + "?" + params.Encode(), nil
}

// stamp renders a naive date and clock as YYYYMMDDTHHMM00.
func stamp(date, clock string) (string, error) {
	day, err := schedule.ParseDay(date, time.UTC)
	if err != nil {
		return "", fmt.Errorf("ics: invalid date %q: %w", date, err)
	}
	minutes, err := schedule.ParseClock(clock)
	if err != nil {
		return "", fmt.Errorf("ics: %w", err)
	}
	return fmt.Sprintf("%sT%02d%02d00", day.Format("20060102"), minutes/60, minutes%60), nil
}

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func escapeText(value string) string {
	return textEscaper.Replace(value)
}
