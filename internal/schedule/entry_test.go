package schedule

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestEntryUnmarshalNormalizesIdentifiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantID  string
		artist  string
		client  string
	}{
		{
			name:    "id key",
			payload: `{"id":"abc","artistId":"A1","date":"2025-12-01","startTime":"09:00","endTime":"10:00","status":"available"}`,
			wantID:  "abc",
			artist:  "A1",
		},
		{
			name:    "legacy key",
			payload: `{"_id":"507f1f77","artistId":"A1","clientId":"C9","status":"booked"}`,
			wantID:  "507f1f77",
			artist:  "A1",
			client:  "C9",
		},
		{
			name:    "numeric identifiers",
			payload: `{"id":42,"artistId":7,"clientId":null,"status":"available"}`,
			wantID:  "42",
			artist:  "7",
		},
		{
			name:    "id wins over legacy key",
			payload: `{"id":"new","_id":"old","artistId":"A1"}`,
			wantID:  "new",
			artist:  "A1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var entry Entry
			if err := json.Unmarshal([]byte(tc.payload), &entry); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if entry.ID != tc.wantID {
				t.Fatalf("expected id %q, got %q", tc.wantID, entry.ID)
			}
			if entry.ArtistID != tc.artist {
				t.Fatalf("expected artist %q, got %q", tc.artist, entry.ArtistID)
			}
			if entry.ClientID != tc.client {
				t.Fatalf("expected client %q, got %q", tc.client, entry.ClientID)
			}
		})
	}
}

func TestEntryUnmarshalParsesTimestamps(t *testing.T) {
	t.Parallel()

	var entry Entry
	payload := `{"id":"x","createdAt":"2025-11-19T10:00:00.000Z","updatedAt":"not-a-date"}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.CreatedAt.IsZero() || entry.CreatedAt.Hour() != 10 {
		t.Fatalf("unexpected createdAt %v", entry.CreatedAt)
	}
	if !entry.UpdatedAt.IsZero() {
		t.Fatalf("expected unparsable updatedAt to be zero, got %v", entry.UpdatedAt)
	}
}

func TestDayKeyIgnoresTimeSuffix(t *testing.T) {
	t.Parallel()

	if DayKey("2025-11-19") != DayKey("2025-11-19T10:00:00") {
		t.Fatalf("expected both forms to share a key")
	}
	if got := DayKey("2025-11-19T00:00:00.000Z"); got != "2025-11-19" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusAvailable, StatusBooked, true},
		{StatusAvailable, StatusCancelled, true},
		{StatusBooked, StatusCancelled, true},
		{StatusCancelled, StatusCancelled, true},
		{StatusBooked, StatusAvailable, false},
		{StatusCancelled, StatusAvailable, false},
		{StatusCancelled, StatusBooked, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestPatchApplyDropsClientUnlessBooked(t *testing.T) {
	t.Parallel()

	entry := Entry{ID: "1", Status: StatusBooked, ClientID: "C1"}
	cancelled := StatusCancelled
	got := Patch{Status: &cancelled}.Apply(entry)
	if got.ClientID != "" {
		t.Fatalf("expected client to be cleared, got %q", got.ClientID)
	}

	notes := "trazer tinta"
	got = Patch{Notes: &notes}.Apply(entry)
	if got.ClientID != "C1" || got.Notes != notes {
		t.Fatalf("unexpected patched entry %+v", got)
	}
}

func TestFilterMatches(t *testing.T) {
	t.Parallel()

	entry := Entry{ArtistID: "A1", ClientID: "C1", Status: StatusBooked, Date: "2025-11-19T00:00:00.000Z"}

	cases := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"artist match", Filter{ArtistID: "A1"}, true},
		{"artist mismatch", Filter{ArtistID: "A2"}, false},
		{"client mismatch", Filter{ClientID: "C2"}, false},
		{"status mismatch", Filter{Status: StatusAvailable}, false},
		{"inclusive lower bound", Filter{DateFrom: "2025-11-19"}, true},
		{"inclusive upper bound", Filter{DateTo: "2025-11-19T23:59:59"}, true},
		{"before range", Filter{DateFrom: "2025-11-20"}, false},
		{"after range", Filter{DateTo: "2025-11-18"}, false},
	}
	for _, tc := range cases {
		if got := tc.filter.Matches(entry); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestNewEntryValidate(t *testing.T) {
	t.Parallel()

	valid := NewEntry{Date: "2025-12-01", StartTime: "09:00", EndTime: "10:00"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid entry, got %v", err)
	}

	inverted := NewEntry{Date: "2025-12-01", StartTime: "10:00", EndTime: "09:00"}
	err := inverted.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["time"]; !ok {
		t.Fatalf("expected time field error, got %v", vErr.FieldErrors)
	}

	missing := NewEntry{StartTime: "9h", EndTime: "10:00"}
	if err := missing.Validate(); !errors.As(err, &vErr) || len(vErr.FieldErrors) != 2 {
		t.Fatalf("expected date and startTime errors, got %v", err)
	}
}

func TestGenerateSlots(t *testing.T) {
	t.Parallel()

	slots, err := GenerateSlots("2025-12-01", "09:00", "11:30", 60, "ateliê")
	if err != nil {
		t.Fatalf("GenerateSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots (tail dropped), got %d", len(slots))
	}
	if slots[0].StartTime != "09:00" || slots[0].EndTime != "10:00" {
		t.Fatalf("unexpected first slot %+v", slots[0])
	}
	if slots[1].StartTime != "10:00" || slots[1].EndTime != "11:00" {
		t.Fatalf("unexpected second slot %+v", slots[1])
	}
	for _, slot := range slots {
		if slot.Status != StatusAvailable || slot.Notes != "ateliê" || slot.Date != "2025-12-01" {
			t.Fatalf("unexpected slot %+v", slot)
		}
	}

	if _, err := GenerateSlots("2025-12-01", "09:00", "10:00", 0, ""); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	existing := []Entry{
		{ID: "a", ArtistID: "A1", Date: "2025-12-01T00:00:00Z", StartTime: "09:00", EndTime: "10:00", Status: StatusAvailable},
		{ID: "b", ArtistID: "A1", Date: "2025-12-01", StartTime: "10:00", EndTime: "11:00", Status: StatusBooked},
		{ID: "c", ArtistID: "A1", Date: "2025-12-01", StartTime: "09:30", EndTime: "10:30", Status: StatusCancelled},
		{ID: "d", ArtistID: "A2", Date: "2025-12-01", StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
		{ID: "e", ArtistID: "A1", Date: "2025-12-02", StartTime: "09:00", EndTime: "12:00", Status: StatusAvailable},
	}

	got := Overlaps(existing, NewEntry{ArtistID: "A1", Date: "2025-12-01", StartTime: "09:30", EndTime: "10:30"})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected overlaps %+v", got)
	}

	touching := Overlaps(existing, NewEntry{ArtistID: "A1", Date: "2025-12-01", StartTime: "11:00", EndTime: "12:00"})
	if len(touching) != 0 {
		t.Fatalf("expected touching ranges not to overlap, got %+v", touching)
	}
}
