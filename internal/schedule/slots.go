package schedule

// Validate checks the form constraints of a creation payload.
func (n NewEntry) Validate() error {
	vErr := &ValidationError{}

	if n.Date == "" {
		vErr.add("date", "Informe a data do horário")
	} else if _, err := ParseDay(n.Date, nil); err != nil {
		vErr.add("date", "Data inválida")
	}

	start, startErr := ParseClock(n.StartTime)
	if startErr != nil {
		vErr.add("startTime", "Horário inicial inválido")
	}
	end, endErr := ParseClock(n.EndTime)
	if endErr != nil {
		vErr.add("endTime", "Horário final inválido")
	}
	if startErr == nil && endErr == nil && start >= end {
		vErr.add("time", "O horário final deve ser depois do inicial")
	}

	if n.Status != "" && !n.Status.Valid() {
		vErr.add("status", "Status inválido")
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// GenerateSlots splits [start, end) on date into consecutive slots of
// interval minutes. A trailing piece shorter than interval is dropped.
func GenerateSlots(date, start, end string, interval int, notes string) ([]NewEntry, error) {
	vErr := &ValidationError{}
	if interval <= 0 {
		vErr.add("interval", "O intervalo deve ser maior que zero")
	}
	from, err := ParseClock(start)
	if err != nil {
		vErr.add("startTime", "Horário inicial inválido")
	}
	to, err := ParseClock(end)
	if err != nil {
		vErr.add("endTime", "Horário final inválido")
	}
	if _, err := ParseDay(date, nil); err != nil {
		vErr.add("date", "Data inválida")
	}
	if vErr.HasErrors() {
		return nil, vErr
	}

	var slots []NewEntry
	for current := from; current+interval <= to; current += interval {
		slots = append(slots, NewEntry{
			Date:      DayKey(date),
			StartTime: FormatClock(current),
			EndTime:   FormatClock(current + interval),
			Status:    StatusAvailable,
			Notes:     notes,
		})
	}
	return slots, nil
}

// Overlaps returns the non-cancelled entries on the candidate's day whose
// half-open [start, end) range intersects the candidate. When the candidate
// names an artist only that artist's entries are considered.
func Overlaps(existing []Entry, candidate NewEntry) []Entry {
	start, err := ParseClock(candidate.StartTime)
	if err != nil {
		return nil
	}
	end, err := ParseClock(candidate.EndTime)
	if err != nil {
		return nil
	}
	day := DayKey(candidate.Date)

	var conflicts []Entry
	for _, entry := range existing {
		if entry.Status == StatusCancelled || entry.Day() != day {
			continue
		}
		if candidate.ArtistID != "" && entry.ArtistID != candidate.ArtistID {
			continue
		}
		otherStart, err := ParseClock(entry.StartTime)
		if err != nil {
			continue
		}
		otherEnd, err := ParseClock(entry.EndTime)
		if err != nil {
			continue
		}
		if start < otherEnd && otherStart < end {
			conflicts = append(conflicts, entry)
		}
	}
	return conflicts
}
