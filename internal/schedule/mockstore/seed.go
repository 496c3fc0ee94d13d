package mockstore

import (
	"fmt"
	"time"

	"github.com/example/quebra-tigela/internal/schedule"
)

const (
	seedHorizonDays = 90
	seedStepDays    = 3
	seedFirstHour   = 9
	seedHourStep    = 2

	bookedNote = "Horário reservado via sistema mock"
)

// generate builds the seed dataset relative to the store clock.
func (s *Store) generate() []schedule.Entry {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.rndMu.Lock()
	defer s.rndMu.Unlock()

	var entries []schedule.Entry
	for offset := 1; offset < seedHorizonDays; offset += seedStepDays {
		day := today.AddDate(0, 0, offset)
		date := schedule.DateString(day) + "T00:00:00.000Z"
		slots := 2 + s.rnd.IntN(2)

		for slot := 0; slot < slots; slot++ {
			start := (seedFirstHour + slot*seedHourStep) * 60
			entry := schedule.Entry{
				ID:        fmt.Sprintf("mock-%d-%d", offset, slot),
				ArtistID:  s.artistID,
				Date:      date,
				StartTime: schedule.FormatClock(start),
				EndTime:   schedule.FormatClock(start + 60),
				Status:    drawStatus(s.rnd.Float64()),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if entry.Status == schedule.StatusBooked {
				entry.ClientID = s.clientID
				entry.Notes = bookedNote
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

// drawStatus maps a uniform draw in [0, 1) to 60% available, 30% booked and
// 10% cancelled.
func drawStatus(r float64) schedule.Status {
	switch {
	case r >= 0.9:
		return schedule.StatusCancelled
	case r > 0.6:
		return schedule.StatusBooked
	default:
		return schedule.StatusAvailable
	}
}
