package schedule

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is the booking state of a schedule entry.
type Status string

const (
	// StatusAvailable marks a slot that clients can book.
	StatusAvailable Status = "available"
	// StatusBooked marks a slot reserved by a client.
	StatusBooked Status = "booked"
	// StatusCancelled marks a slot that can no longer be booked.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an entry in state s may move to next.
//
// Cancelling is idempotent, so cancelled → cancelled is accepted. Nothing
// reopens a booked or cancelled slot; artists re-create availability instead.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusAvailable:
		return next == StatusAvailable || next == StatusBooked || next == StatusCancelled
	case StatusBooked:
		return next == StatusBooked || next == StatusCancelled
	case StatusCancelled:
		return next == StatusCancelled
	}
	return false
}

// Entry is a bookable time slot owned by an artist.
type Entry struct {
	ID        string    `json:"id"`
	ArtistID  string    `json:"artistId"`
	ClientID  string    `json:"clientId,omitempty"`
	Date      string    `json:"date"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	ServiceID string    `json:"serviceId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Day returns the YYYY-MM-DD key of the entry date.
func (e Entry) Day() string {
	return DayKey(e.Date)
}

// UnmarshalJSON accepts the identity under "id" or the legacy "_id" key and
// tolerates numeric identifiers for the entry, artist and client.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		LegacyID  json.RawMessage `json:"_id"`
		ArtistID  json.RawMessage `json:"artistId"`
		ClientID  json.RawMessage `json:"clientId"`
		Date      string          `json:"date"`
		StartTime string          `json:"startTime"`
		EndTime   string          `json:"endTime"`
		Status    Status          `json:"status"`
		Notes     string          `json:"notes"`
		ServiceID json.RawMessage `json:"serviceId"`
		CreatedAt string          `json:"createdAt"`
		UpdatedAt string          `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := RawIdentifier(raw.ID)
	if id == "" {
		id = RawIdentifier(raw.LegacyID)
	}

	*e = Entry{
		ID:        id,
		ArtistID:  RawIdentifier(raw.ArtistID),
		ClientID:  RawIdentifier(raw.ClientID),
		Date:      raw.Date,
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		Status:    raw.Status,
		Notes:     raw.Notes,
		ServiceID: RawIdentifier(raw.ServiceID),
		CreatedAt: parseTimestamp(raw.CreatedAt),
		UpdatedAt: parseTimestamp(raw.UpdatedAt),
	}
	return nil
}

// RawIdentifier renders a JSON string or number as a string identifier.
func RawIdentifier(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

// NewEntry is the payload used to create a slot.
type NewEntry struct {
	ArtistID  string `json:"artistId,omitempty"`
	ClientID  string `json:"clientId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    Status `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ServiceID string `json:"serviceId,omitempty"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Status    *Status `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	ServiceID *string `json:"serviceId,omitempty"`
	ClientID  *string `json:"clientId,omitempty"`
}

// Apply merges the patch into a copy of entry.
//
// The client reference only survives while the resulting status is booked.
func (p Patch) Apply(entry Entry) Entry {
	if p.Date != nil {
		entry.Date = *p.Date
	}
	if p.StartTime != nil {
		entry.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		entry.EndTime = *p.EndTime
	}
	if p.Status != nil {
		entry.Status = *p.Status
	}
	if p.Notes != nil {
		entry.Notes = *p.Notes
	}
	if p.ServiceID != nil {
		entry.ServiceID = *p.ServiceID
	}
	if p.ClientID != nil {
		entry.ClientID = *p.ClientID
	}
	if entry.Status != StatusBooked {
		entry.ClientID = ""
	}
	return entry
}

// Filter narrows schedule listings.
type Filter struct {
	ArtistID string
	ClientID string
	Status   Status
	DateFrom string
	DateTo   string
}

// Matches reports whether entry satisfies every populated filter field.
// Date bounds compare day keys and are inclusive on both ends.
func (f Filter) Matches(entry Entry) bool {
	if f.ArtistID != "" && entry.ArtistID != f.ArtistID {
		return false
	}
	if f.ClientID != "" && entry.ClientID != f.ClientID {
		return false
	}
	if f.Status != "" && entry.Status != f.Status {
		return false
	}
	day := entry.Day()
	if f.DateFrom != "" && day < DayKey(f.DateFrom) {
		return false
	}
	if f.DateTo != "" && day > DayKey(f.DateTo) {
		return false
	}
	return true
}
