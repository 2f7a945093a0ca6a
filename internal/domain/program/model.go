package program

import (
	"math"
	"strings"
	"time"
)

const (
	StatusActive = "active"

	TagBeginnerFriendly = "beginner-friendly"
)

type Program struct {
	ID              string         `firestore:"id" json:"id"`
	Title           string         `firestore:"title" json:"title"`
	Sport           string         `firestore:"sport" json:"sport"`
	OrganizerEmail  string         `firestore:"organizer_email" json:"organizer_email"`
	Description     string         `firestore:"description" json:"description"`
	AgeGroups       []string       `firestore:"ageGroups" json:"ageGroups"`
	Cost            float64        `firestore:"cost" json:"cost"`
	CostUnit        string         `firestore:"costUnit" json:"costUnit"`
	Accessibility   []string       `firestore:"accessibility" json:"accessibility"`
	InclusivityTags []string       `firestore:"inclusivityTags" json:"inclusivityTags"`
	Schedule        any            `firestore:"schedule" json:"schedule"`
	Venue           Venue          `firestore:"venue" json:"venue"`
	Equipment       Equipment      `firestore:"equipment" json:"equipment"`
	Contact         map[string]any `firestore:"contact" json:"contact"`
	Images          []string       `firestore:"images" json:"images"`
	MaxParticipants float64        `firestore:"maxParticipants" json:"maxParticipants"`
	Status          string         `firestore:"status" json:"status"`

	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

type Venue struct {
	Name    string `firestore:"name,omitempty" json:"name,omitempty"`
	Suburb  string `firestore:"suburb,omitempty" json:"suburb,omitempty"`
	Address string `firestore:"address,omitempty" json:"address,omitempty"`
}

type Equipment struct {
	Provided bool     `firestore:"provided" json:"provided"`
	Required []string `firestore:"required" json:"required"`
}

// Normalize zeroes numbers that cannot be represented in JSON. Older
// documents carry maxParticipants as NaN when the field was left blank.
func (p *Program) Normalize() {
	if math.IsNaN(p.MaxParticipants) || math.IsInf(p.MaxParticipants, 0) {
		p.MaxParticipants = 0
	}
	if math.IsNaN(p.Cost) || math.IsInf(p.Cost, 0) {
		p.Cost = 0
	}
}

func (p Program) IsFree() bool { return p.Cost == 0 }

func (p Program) HasInclusivityTag(tag string) bool {
	for _, t := range p.InclusivityTags {
		if t == tag {
			return true
		}
	}
	return false
}

func (p Program) HasAgeGroup(g string) bool {
	for _, a := range p.AgeGroups {
		if a == g {
			return true
		}
	}
	return false
}

// Placeholder stands in for a program that could not be loaded.
func Placeholder(id, title string) *Program {
	return &Program{ID: id, Title: title}
}

// CreateProgramInput mirrors the createProgram payload. Cost is a pointer so
// an explicit zero (free program) can be told apart from a missing value.
type CreateProgramInput struct {
	Title           string         `json:"title" validate:"required"`
	Sport           string         `json:"sport" validate:"required"`
	OrganizerEmail  string         `json:"organizer_email" validate:"required,email"`
	Description     string         `json:"description" validate:"required"`
	AgeGroups       []string       `json:"ageGroups" validate:"required,min=1,dive,required"`
	Cost            *float64       `json:"cost" validate:"required,gte=0"`
	CostUnit        string         `json:"costUnit" validate:"required"`
	Accessibility   []string       `json:"accessibility,omitempty"`
	InclusivityTags []string       `json:"inclusivityTags,omitempty"`
	Schedule        any            `json:"schedule,omitempty"`
	Venue           *Venue         `json:"venue,omitempty"`
	Equipment       *Equipment     `json:"equipment,omitempty"`
	Contact         map[string]any `json:"contact,omitempty"`
	Images          []string       `json:"images,omitempty"`
	MaxParticipants int            `json:"maxParticipants,omitempty" validate:"gte=0"`
}

func (in *CreateProgramInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Sport = strings.TrimSpace(in.Sport)
	in.OrganizerEmail = strings.TrimSpace(in.OrganizerEmail)
	in.Description = strings.TrimSpace(in.Description)
	in.CostUnit = strings.TrimSpace(in.CostUnit)
	if in.Venue != nil {
		in.Venue.Name = strings.TrimSpace(in.Venue.Name)
		in.Venue.Suburb = strings.TrimSpace(in.Venue.Suburb)
		in.Venue.Address = strings.TrimSpace(in.Venue.Address)
	}
}

type CreateProgramResult struct {
	Success   bool   `json:"success"`
	ProgramID string `json:"programId"`
	Message   string `json:"message"`
}
