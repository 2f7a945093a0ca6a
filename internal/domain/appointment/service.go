package appointment

import (
	"context"
	"sort"
	"time"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/events"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	placeholderMissing = "Program not found"
	placeholderError   = "Error loading program"
)

var tracer = otel.Tracer("community-sport/backend/internal/domain/appointment")

type Store interface {
	Create(ctx context.Context, a Appointment) (*Appointment, error)
	Get(ctx context.Context, appointmentID string) (*Appointment, error)
	Update(ctx context.Context, appointmentID string, fields map[string]interface{}) error
	ListByUser(ctx context.Context, email string) ([]Appointment, error)
}

// ProgramLookup resolves the program an appointment points at.
type ProgramLookup interface {
	Program(ctx context.Context, programID string) (*program.Program, error)
}

type Service struct {
	store    Store
	programs ProgramLookup
	events   events.Publisher
	validate *validation.Validator
	log      *logger.Logger
	now      func() time.Time
}

func NewService(store Store, programs ProgramLookup, pub events.Publisher, log *logger.Logger) *Service {
	v := validation.New().Override("time_slot", "min", "At least one time slot must be selected")
	return &Service{
		store:    store,
		programs: programs,
		events:   pub,
		validate: v,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (_ *CreateResult, err error) {
	ctx, span := tracer.Start(ctx, "appointment.Create")
	defer func() { endSpan(span, err) }()

	in.Trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("program.id", in.ProgramID))

	now := s.now()
	created, err := s.store.Create(ctx, Appointment{
		ProgramID: in.ProgramID,
		UserEmail: in.UserEmail,
		TimeSlot:  in.TimeSlot,
		Status:    StatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Error creating appointment", "program_id", in.ProgramID, "error", err)
		return nil, apperr.Upstream("Failed to create appointment. Please try again.", err)
	}

	s.log.InfoContext(ctx, "Appointment created successfully", "appointment_id", created.ID)
	s.publish(ctx, events.SubjectAppointmentCreated, created)

	return &CreateResult{
		Success:       true,
		AppointmentID: created.ID,
		Message:       "Appointment booked successfully",
	}, nil
}

// Update replaces the selected time slots of an appointment owned by the caller.
func (s *Service) Update(ctx context.Context, in UpdateInput) (_ *UpdateResult, err error) {
	ctx, span := tracer.Start(ctx, "appointment.Update")
	defer func() { endSpan(span, err) }()

	in.Trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("appointment.id", in.AppointmentID))

	existing, err := s.owned(ctx, in.AppointmentID, in.UserEmail, "Failed to update appointment. Please try again.")
	if err != nil {
		return nil, err
	}
	if existing.IsCancelled() {
		return nil, apperr.Conflict("Cannot update a cancelled appointment")
	}

	now := s.now()
	fields := map[string]interface{}{
		"time_slot": in.TimeSlot,
		"updatedAt": now,
	}
	if err := s.store.Update(ctx, in.AppointmentID, fields); err != nil {
		s.log.ErrorContext(ctx, "Error updating appointment", "appointment_id", in.AppointmentID, "error", err)
		return nil, apperr.Upstream("Failed to update appointment. Please try again.", err)
	}

	existing.TimeSlot = in.TimeSlot
	existing.UpdatedAt = now
	s.log.InfoContext(ctx, "Appointment updated successfully", "appointment_id", in.AppointmentID)
	s.publish(ctx, events.SubjectAppointmentUpdated, existing)

	return &UpdateResult{
		Success:       true,
		AppointmentID: in.AppointmentID,
		Message:       "Appointment updated successfully",
	}, nil
}

// Cancel marks an appointment cancelled. The document is kept.
func (s *Service) Cancel(ctx context.Context, in CancelInput) (_ *CancelResult, err error) {
	ctx, span := tracer.Start(ctx, "appointment.Cancel")
	defer func() { endSpan(span, err) }()

	in.Trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("appointment.id", in.AppointmentID))

	existing, err := s.owned(ctx, in.AppointmentID, in.UserEmail, "Failed to cancel appointment. Please try again.")
	if err != nil {
		return nil, err
	}
	if existing.IsCancelled() {
		return nil, apperr.Conflict("Appointment is already cancelled")
	}

	now := s.now()
	fields := map[string]interface{}{
		"status":      StatusCancelled,
		"cancelledAt": now,
		"updatedAt":   now,
	}
	if err := s.store.Update(ctx, in.AppointmentID, fields); err != nil {
		s.log.ErrorContext(ctx, "Error cancelling appointment", "appointment_id", in.AppointmentID, "error", err)
		return nil, apperr.Upstream("Failed to cancel appointment. Please try again.", err)
	}

	existing.Status = StatusCancelled
	existing.CancelledAt = &now
	existing.UpdatedAt = now
	s.log.InfoContext(ctx, "Appointment cancelled successfully", "appointment_id", in.AppointmentID)
	s.publish(ctx, events.SubjectAppointmentCancelled, existing)

	return &CancelResult{
		Success:       true,
		Message:       "Appointment cancelled successfully",
		AppointmentID: in.AppointmentID,
	}, nil
}

// ListByUser returns the active appointments of email, newest first, each with
// its program attached. A program that cannot be loaded is replaced by a
// placeholder instead of failing the list.
func (s *Service) ListByUser(ctx context.Context, email string) (_ *ListResult, err error) {
	ctx, span := tracer.Start(ctx, "appointment.ListByUser")
	defer func() { endSpan(span, err) }()

	if email == "" {
		return nil, apperr.Validation("Missing required field: user_email")
	}

	all, err := s.store.ListByUser(ctx, email)
	if err != nil {
		s.log.ErrorContext(ctx, "Error fetching user appointments", "error", err)
		return nil, apperr.Upstream("Failed to load appointments. Please try again.", err)
	}

	out := make([]Appointment, 0, len(all))
	for _, a := range all {
		if a.IsCancelled() {
			continue
		}
		a.Program = s.programFor(ctx, a.ProgramID)
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	span.SetAttributes(attribute.Int("appointments.count", len(out)))

	return &ListResult{Success: true, Appointments: out, Count: len(out)}, nil
}

// owned loads an appointment and checks it belongs to email. The check and the
// following write are not atomic.
func (s *Service) owned(ctx context.Context, appointmentID, email, failMsg string) (*Appointment, error) {
	existing, err := s.store.Get(ctx, appointmentID)
	if err != nil {
		if IsErrNotFound(err) {
			return nil, apperr.NotFound("Appointment not found")
		}
		s.log.ErrorContext(ctx, "Error loading appointment", "appointment_id", appointmentID, "error", err)
		return nil, apperr.Upstream(failMsg, err)
	}
	if existing.UserEmail != email {
		s.log.WarnContext(ctx, "Appointment ownership mismatch", "appointment_id", appointmentID)
		return nil, apperr.Permission("You can only modify your own appointments")
	}
	return existing, nil
}

func (s *Service) programFor(ctx context.Context, programID string) *program.Program {
	p, err := s.programs.Program(ctx, programID)
	switch {
	case err == nil && p != nil:
		return p
	case err == nil || program.IsErrNotFound(err):
		return program.Placeholder(programID, placeholderMissing)
	default:
		s.log.WarnContext(ctx, "Error loading program for appointment", "program_id", programID, "error", err)
		return program.Placeholder(programID, placeholderError)
	}
}

func (s *Service) publish(ctx context.Context, subject string, a *Appointment) {
	if err := s.events.Publish(ctx, subject, a); err != nil {
		s.log.WarnContext(ctx, "Failed to publish appointment event", "subject", subject, "appointment_id", a.ID, "error", err)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.MessageOf(err))
	}
	span.End()
}
