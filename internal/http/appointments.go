package http

import (
	"net/http"
	"strings"

	"community-sport/backend/internal/apperr"
	"community-sport/backend/internal/domain/appointment"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/httpjson"
	"community-sport/backend/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// actingEmail resolves whose appointments a request touches. It defaults to
// the token's email; only admins may name someone else.
func actingEmail(caller role.Caller, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return caller.Email, nil
	}
	if requested != caller.Email && !caller.Admin {
		return "", apperr.Permission("You can only manage your own appointments")
	}
	return requested, nil
}

func createAppointment(s AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appointment.CreateInput
		if err := httpjson.Read(w, r, &in); err != nil {
			Fail(w, err)
			return
		}
		email, err := actingEmail(middleware.Caller(r.Context()), in.UserEmail)
		if err != nil {
			Fail(w, err)
			return
		}
		in.UserEmail = email

		out, err := s.Create(r.Context(), in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 201, out)
	}
}

func listAppointments(s AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := actingEmail(middleware.Caller(r.Context()), r.URL.Query().Get("user_email"))
		if err != nil {
			Fail(w, err)
			return
		}

		out, err := s.ListByUser(r.Context(), email)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}

func updateAppointment(s AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appointment.UpdateInput
		if err := httpjson.Read(w, r, &in); err != nil {
			Fail(w, err)
			return
		}
		in.AppointmentID = chi.URLParam(r, "appointmentId")

		email, err := actingEmail(middleware.Caller(r.Context()), in.UserEmail)
		if err != nil {
			Fail(w, err)
			return
		}
		in.UserEmail = email

		out, err := s.Update(r.Context(), in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}

func cancelAppointment(s AppointmentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in appointment.CancelInput
		if err := httpjson.ReadOptional(w, r, &in); err != nil {
			Fail(w, err)
			return
		}
		in.AppointmentID = chi.URLParam(r, "appointmentId")

		email, err := actingEmail(middleware.Caller(r.Context()), in.UserEmail)
		if err != nil {
			Fail(w, err)
			return
		}
		in.UserEmail = email

		out, err := s.Cancel(r.Context(), in)
		if err != nil {
			Fail(w, err)
			return
		}
		WriteJSON(w, 200, out)
	}
}
