package middleware

import (
	"net/http"

	"condo-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS layer. Clients authenticate with bearer tokens, so
// credentials are only allowed when origins are listed explicitly.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CorsAllowedOrigins
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !wildcard,
		MaxAge:           600,
	})

	return c.Handler
}
