package http

import (
	"context"
	"net/http"
	"time"

	"community-sport/backend/internal/config"
	"community-sport/backend/internal/domain/appointment"
	"community-sport/backend/internal/domain/faq"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/domain/role"
	"community-sport/backend/internal/logger"
	"community-sport/backend/internal/middleware"
	"community-sport/backend/internal/search"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type CatalogService interface {
	Search(ctx context.Context, f search.Filters) ([]program.Program, error)
	Featured(ctx context.Context, limit int) []search.Scored
	SportOptions(ctx context.Context) []string
	AgeGroupOptions(ctx context.Context) []string
	AccessibilityOptions(ctx context.Context) []search.Option
	Program(ctx context.Context, programID string) (*program.Program, error)
	Faqs(ctx context.Context) ([]faq.Faq, error)
}

type ProgramService interface {
	Create(ctx context.Context, caller role.Caller, in program.CreateProgramInput) (*program.CreateProgramResult, error)
}

type ImageService interface {
	UploadURL(ctx context.Context, caller role.Caller, in program.ImageUploadInput) (*program.ImageUploadResult, error)
}

type AppointmentService interface {
	Create(ctx context.Context, in appointment.CreateInput) (*appointment.CreateResult, error)
	Update(ctx context.Context, in appointment.UpdateInput) (*appointment.UpdateResult, error)
	Cancel(ctx context.Context, in appointment.CancelInput) (*appointment.CancelResult, error)
	ListByUser(ctx context.Context, email string) (*appointment.ListResult, error)
}

type RoleService interface {
	SetRole(ctx context.Context, caller role.Caller, in role.SetRoleInput) (*role.SetRoleResult, error)
	Me(ctx context.Context, caller role.Caller) (*role.UserRole, error)
}

type RouterDeps struct {
	Cfg      config.Config
	Log      *logger.Logger
	Verifier middleware.TokenVerifier

	Catalog      CatalogService
	Programs     ProgramService
	Images       ImageService
	Appointments AppointmentService
	Roles        RoleService
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins, d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public catalog
	r.Get("/v1/programs", searchPrograms(d.Catalog))
	r.Get("/v1/programs/featured", featuredPrograms(d.Catalog))
	r.Get("/v1/programs/options", programOptions(d.Catalog))
	r.Get("/v1/programs/{programId}", getProgram(d.Catalog))
	r.Get("/v1/faqs", listFaqs(d.Catalog))

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.Verifier))

		pr.Post("/v1/programs", createProgram(d.Programs))
		pr.Post("/v1/programs/images/upload-url", imageUploadURL(d.Images))

		pr.Post("/v1/appointments", createAppointment(d.Appointments))
		pr.Get("/v1/appointments", listAppointments(d.Appointments))
		pr.Put("/v1/appointments/{appointmentId}", updateAppointment(d.Appointments))
		pr.Post("/v1/appointments/{appointmentId}/cancel", cancelAppointment(d.Appointments))

		pr.Post("/v1/roles", setRole(d.Roles))
		pr.Get("/v1/roles/me", myRole(d.Roles))
	})

	return otelhttp.NewHandler(r, "community-sport-api")
}
