package middleware

import (
	"net/http"

	"community-sport/backend/internal/logger"

	"github.com/go-chi/cors"
)

func CORS(allowedOrigins []string, log *logger.Logger) func(http.Handler) http.Handler {
	// An empty list allows any origin, for local development.
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	log.Info("CORS configured", "allowed_origins", allowedOrigins)

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
