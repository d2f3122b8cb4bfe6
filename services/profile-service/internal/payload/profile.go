package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/model"
)

// Date accepts either a calendar date ("2006-01-02") or an RFC 3339 timestamp.
// An empty string decodes to the zero Date.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("invalid date %q", s)
}

// Ptr returns nil for a missing or empty date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}

	t := d.Time
	return &t
}

type ProfileRequest struct {
	Department     string `json:"department"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        *Date  `json:"from"`
	To          *Date  `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationRequest struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	From         *Date  `json:"from"`
	To           *Date  `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

type ProfileResponse struct {
	ID             string               `json:"_id"`
	User           string               `json:"user"`
	Department     string               `json:"department"`
	Location       string               `json:"location"`
	Status         string               `json:"status"`
	Bio            string               `json:"bio,omitempty"`
	GitHubUsername string               `json:"githubusername,omitempty"`
	Experience     []ExperienceResponse `json:"experience"`
	Education      []EducationResponse  `json:"education"`
	Social         SocialResponse       `json:"social"`
	Date           time.Time            `json:"date"`
}

type ExperienceResponse struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type EducationResponse struct {
	ID           string     `json:"_id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	From         *time.Time `json:"from,omitempty"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

type SocialResponse struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

func NewProfileResponse(p *model.Profile) ProfileResponse {
	experience := make([]ExperienceResponse, 0, len(p.Experience))
	for _, e := range p.Experience {
		experience = append(experience, ExperienceResponse{
			ID:          e.ID.Hex(),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        timePtr(e.From),
			To:          e.To,
			Current:     e.Current,
			Description: e.Description,
		})
	}

	education := make([]EducationResponse, 0, len(p.Education))
	for _, e := range p.Education {
		education = append(education, EducationResponse{
			ID:           e.ID.Hex(),
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         timePtr(e.From),
			To:           e.To,
			Current:      e.Current,
			Description:  e.Description,
		})
	}

	return ProfileResponse{
		ID:             p.ID.Hex(),
		User:           p.UserID.Hex(),
		Department:     p.Department,
		Location:       p.Location,
		Status:         p.Status,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Experience:     experience,
		Education:      education,
		Social:         SocialResponse(p.Social),
		Date:           p.CreatedAt,
	}
}

func NewProfileListResponse(profiles []*model.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, NewProfileResponse(p))
	}

	return out
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
