package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the listed dashboard origins to send credentials, which the
// refresh cookie needs. Config validation rejects a wildcard origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	handler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		MaxAge:           600,
		AllowCredentials: true,
	})

	return handler.Handler
}
