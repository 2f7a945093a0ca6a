package appointment

import (
	"strings"
	"time"

	"community-sport/backend/internal/domain/program"
)

const Collection = "appointments"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Appointment is a booking of one or more time slots of a program.
// Status only ever moves from confirmed to cancelled.
type Appointment struct {
	ID          string     `firestore:"appointment_id" json:"appointment_id"`
	ProgramID   string     `firestore:"program_id" json:"program_id"`
	UserEmail   string     `firestore:"user_email" json:"user_email"`
	TimeSlot    []string   `firestore:"time_slot" json:"time_slot"`
	Status      string     `firestore:"status" json:"status"`
	CreatedAt   time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" json:"updatedAt"`
	CancelledAt *time.Time `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`

	// Program is attached when listing and never persisted.
	Program *program.Program `firestore:"-" json:"program,omitempty"`
}

func (a Appointment) IsCancelled() bool { return a.Status == StatusCancelled }

type CreateInput struct {
	ProgramID string   `json:"program_id" validate:"required"`
	UserEmail string   `json:"user_email" validate:"required"`
	TimeSlot  []string `json:"time_slot" validate:"required,min=1,dive,required"`
}

func (in *CreateInput) Trim() {
	in.ProgramID = strings.TrimSpace(in.ProgramID)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
}

type UpdateInput struct {
	AppointmentID string   `json:"appointment_id" validate:"required"`
	TimeSlot      []string `json:"time_slot" validate:"required,min=1,dive,required"`
	UserEmail     string   `json:"user_email" validate:"required"`
}

func (in *UpdateInput) Trim() {
	in.AppointmentID = strings.TrimSpace(in.AppointmentID)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
}

type CancelInput struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
	UserEmail     string `json:"userEmail" validate:"required"`
}

func (in *CancelInput) Trim() {
	in.AppointmentID = strings.TrimSpace(in.AppointmentID)
	in.UserEmail = strings.TrimSpace(in.UserEmail)
}

type CreateResult struct {
	Success       bool   `json:"success"`
	AppointmentID string `json:"appointmentId"`
	Message       string `json:"message"`
}

type UpdateResult struct {
	Success       bool   `json:"success"`
	AppointmentID string `json:"appointmentId"`
	Message       string `json:"message"`
}

type CancelResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID string `json:"appointmentId"`
}

type ListResult struct {
	Success      bool          `json:"success"`
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
}
