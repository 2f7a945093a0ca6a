package program

import (
	"context"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/events"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/validation"
)

type Store interface {
	Create(ctx context.Context, p Program) (*Program, error)
}

// Invalidator is notified after every successful catalog write.
type Invalidator interface {
	Clear()
}

type Service struct {
	store    Store
	cache    Invalidator
	events   events.Publisher
	validate *validation.Validator
	log      *logger.Logger
	now      func() time.Time
}

func NewService(store Store, cache Invalidator, pub events.Publisher, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		events:   pub,
		validate: validation.New().Override("ageGroups", "min", "Missing required field: ageGroups"),
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a new program. Only organizers may call it.
func (s *Service) Create(ctx context.Context, caller role.Caller, in CreateProgramInput) (*CreateProgramResult, error) {
	if !caller.Authenticated() {
		return nil, apperr.Unauthenticated("Please log in to create a program.")
	}

	in.Trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if !caller.Has(role.Organizer) {
		return nil, apperr.Permission("You do not have permission to create programs.")
	}

	now := s.now()
	p := Program{
		Title:           in.Title,
		Sport:           in.Sport,
		OrganizerEmail:  in.OrganizerEmail,
		Description:     in.Description,
		AgeGroups:       in.AgeGroups,
		Cost:            *in.Cost,
		CostUnit:        in.CostUnit,
		Accessibility:   orEmpty(in.Accessibility),
		InclusivityTags: orEmpty(in.InclusivityTags),
		Schedule:        in.Schedule,
		Contact:         in.Contact,
		Images:          orEmpty(in.Images),
		MaxParticipants: float64(in.MaxParticipants),
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if p.Schedule == nil {
		p.Schedule = []any{}
	}
	if p.Contact == nil {
		p.Contact = map[string]any{}
	}
	if in.Venue != nil {
		p.Venue = *in.Venue
	}
	if in.Equipment != nil {
		p.Equipment = *in.Equipment
	}
	if p.Equipment.Required == nil {
		p.Equipment.Required = []string{}
	}

	out, err := s.store.Create(ctx, p)
	if err != nil {
		s.log.ErrorContext(ctx, "Error creating program", "title", p.Title, "error", err)
		return nil, apperr.Upstream("Failed to create program. Please try again.", err)
	}

	s.cache.Clear()

	s.log.InfoContext(ctx, "Program created successfully", "program_id", out.ID, "organizer", caller.UID)
	if err := s.events.Publish(ctx, events.SubjectProgramCreated, out); err != nil {
		s.log.WarnContext(ctx, "Failed to publish program event", "program_id", out.ID, "error", err)
	}

	return &CreateProgramResult{
		Success:   true,
		ProgramID: out.ID,
		Message:   "Program created successfully",
	}, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
