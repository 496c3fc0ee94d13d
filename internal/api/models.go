package api

import (
	"encoding/json"

	"github.com/example/quebra-tigela/internal/schedule"
)

// Artist is a public artist profile.
type Artist struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Bio      string   `json:"bio,omitempty"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Verified bool     `json:"verified"`
	ArtTypes []string `json:"artTypes"`
}

// UnmarshalJSON accepts "id" or "_id" and normalises a missing artTypes to
// an empty list.
func (a *Artist) UnmarshalJSON(data []byte) error {
	type plain Artist
	var raw struct {
		plain
		ID       json.RawMessage `json:"id"`
		LegacyID json.RawMessage `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Artist(raw.plain)
	a.ID = identity(raw.ID, raw.LegacyID)
	if a.ArtTypes == nil {
		a.ArtTypes = []string{}
	}
	return nil
}

// NewArtist is the artist registration payload.
type NewArtist struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Bio      string   `json:"bio,omitempty"`
	City     string   `json:"city,omitempty"`
	State    string   `json:"state,omitempty"`
	ArtTypes []string `json:"artTypes"`
}

// ArtistUpdate is a partial profile update. E-mail and password are not
// editable through it.
type ArtistUpdate struct {
	Name     *string  `json:"name,omitempty"`
	Bio      *string  `json:"bio,omitempty"`
	City     *string  `json:"city,omitempty"`
	State    *string  `json:"state,omitempty"`
	ArtTypes []string `json:"artTypes,omitempty"`
}

// ArtistFilter narrows artist search.
type ArtistFilter struct {
	State   string
	City    string
	ArtType string
}

// User is a client account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// UnmarshalJSON accepts "id" or "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var raw struct {
		plain
		ID       json.RawMessage `json:"id"`
		LegacyID json.RawMessage `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)
	u.ID = identity(raw.ID, raw.LegacyID)
	return nil
}

// NewUser is the client registration payload.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
}

// MediaType is the kind of a service media item.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Media is an image or video attached to a service.
type Media struct {
	Type MediaType `json:"type"`
	URL  string    `json:"url"`
}

// Service is an offering published by an artist.
type Service struct {
	ID          string  `json:"_id"`
	ArtistID    string  `json:"artistId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Media       []Media `json:"media,omitempty"`
	Active      bool    `json:"active"`
}

// UnmarshalJSON accepts "_id" or "id" and numeric artist ids.
func (s *Service) UnmarshalJSON(data []byte) error {
	type plain Service
	var raw struct {
		plain
		LegacyID json.RawMessage `json:"_id"`
		ID       json.RawMessage `json:"id"`
		ArtistID json.RawMessage `json:"artistId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Service(raw.plain)
	s.ID = identity(raw.LegacyID, raw.ID)
	s.ArtistID = schedule.RawIdentifier(raw.ArtistID)
	return nil
}

// NewService is the service creation payload.
type NewService struct {
	ArtistID    string  `json:"artistId"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Media       []Media `json:"media,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// ServiceUpdate is a partial service update.
type ServiceUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Media       []Media `json:"media,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// IdentityCheck is the answer of the artist identity endpoint.
type IdentityCheck struct {
	Verified   bool    `json:"verified"`
	Similarity float64 `json:"similarity"`
	Message    string  `json:"message"`
}

// FaceComparison is the answer of the face comparison endpoints.
type FaceComparison struct {
	Similarity float64 `json:"similarity"`
	Confidence float64 `json:"confidence"`
	IsMatch    bool    `json:"isMatch"`
	Message    string  `json:"message"`
}

// QualityAnalysis is the answer of the quick quality check.
type QualityAnalysis struct {
	Quality         string   `json:"quality"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	CanProceed      bool     `json:"canProceed"`
}

// VerificationStatus is the outcome of an artist verification.
type VerificationStatus string

const (
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// VerificationDetails carries the detector parameters.
type VerificationDetails struct {
	DetectionMethod string  `json:"detectionMethod"`
	Threshold       float64 `json:"threshold"`
	Timestamp       string  `json:"timestamp"`
}

// Verification is the answer of the artist photo verification.
type Verification struct {
	Verified   bool                 `json:"verified"`
	Similarity float64              `json:"similarity"`
	Confidence float64              `json:"confidence"`
	Message    string               `json:"message"`
	Status     VerificationStatus   `json:"status"`
	Timestamp  string               `json:"timestamp"`
	Details    *VerificationDetails `json:"details,omitempty"`
	ArtistID   string               `json:"artistId,omitempty"`
}

// ImageQuality is the answer of the detailed quality analysis.
type ImageQuality struct {
	Quality string   `json:"quality"`
	Score   float64  `json:"score"`
	Issues  []string `json:"issues"`
	HasFace bool     `json:"hasFace"`
}

// State is a Brazilian federative unit.
type State struct {
	ID    int    `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// City is a municipality.
type City struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

func identity(primary, fallback json.RawMessage) string {
	if id := schedule.RawIdentifier(primary); id != "" {
		return id
	}
	return schedule.RawIdentifier(fallback)
}
