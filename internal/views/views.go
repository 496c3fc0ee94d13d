// Package views groups schedule entries for the list and day views, gates
// the per-entry actions by viewer mode and renders both views and the month
// grid as plain text.
package views

import (
	"sort"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

// Mode is the viewer of a list.
type Mode string

const (
	ModeArtist Mode = "artista"
	ModeClient Mode = "cliente"
)

// Permissions are the capabilities granted by the caller. An artist view
// shows cancel and delete only when permitted; a client view shows book
// only when a booking handler exists.
type Permissions struct {
	CanCancel bool
	CanDelete bool
	CanBook   bool
}

// ActionSet is the set of actions offered for one entry.
type ActionSet struct {
	Cancel        bool
	Delete        bool
	Book          bool
	AddToCalendar bool
}

// Empty reports whether no action is offered.
func (a ActionSet) Empty() bool {
	return !a.Cancel && !a.Delete && !a.Book && !a.AddToCalendar
}

// Labels returns the button labels of the offered actions.
func (a ActionSet) Labels() []string {
	var labels []string
	if a.Cancel {
		labels = append(labels, "Cancelar")
	}
	if a.Delete {
		labels = append(labels, "Deletar")
	}
	if a.Book {
		labels = append(labels, "Reservar")
	}
	if a.AddToCalendar {
		labels = append(labels, "Google Calendar", "Baixar .ics")
	}
	return labels
}

// Actions gates the actions of entry by mode and status.
func Actions(entry schedule.Entry, mode Mode, perms Permissions) ActionSet {
	switch mode {
	case ModeArtist:
		return ActionSet{
			Cancel: perms.CanCancel && entry.Status == schedule.StatusBooked,
			Delete: perms.CanDelete && entry.Status == schedule.StatusAvailable,
		}
	case ModeClient:
		return ActionSet{
			Book:          perms.CanBook && entry.Status == schedule.StatusAvailable,
			AddToCalendar: entry.Status == schedule.StatusBooked,
		}
	}
	return ActionSet{}
}

// DayGroup is the entries of one day.
type DayGroup struct {
	Key     string
	Entries []schedule.Entry
}

// GroupByDate buckets entries by day key. Groups are chronological and
// entries within a day are ordered by start time.
func GroupByDate(entries []schedule.Entry) []DayGroup {
	index := make(map[string]int)
	var groups []DayGroup
	for _, entry := range entries {
		key := entry.Day()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	for _, group := range groups {
		sortByStart(group.Entries)
	}
	return groups
}

// ForDay returns the entries dated on day, ordered by start time.
func ForDay(entries []schedule.Entry, day time.Time) []schedule.Entry {
	key := schedule.DateString(day)
	var out []schedule.Entry
	for _, entry := range entries {
		if entry.Day() == key {
			out = append(out, entry)
		}
	}
	sortByStart(out)
	return out
}

func sortByStart(entries []schedule.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})
}
