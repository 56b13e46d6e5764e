package middleware

import (
	"log"
	"net/http"

	"github.com/rs/cors"

	"parking-client/internal/config"
	"parking-client/pkg/utils"
)

// NewCORS lets the screen UI (often on a dev server port) call the local API.
// Every call runs under the signed-in session, so browser requests from an
// origin outside the allow-list are refused before they reach a handler.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc:  cfg.OriginAllowed,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return func(next http.Handler) http.Handler {
		guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !cfg.OriginAllowed(origin) && !config.SameHost(origin, r.Host) {
				log.Printf("[CORS] Refused %s %s from origin %s", r.Method, r.URL.Path, origin)
				utils.Error(w, http.StatusForbidden, "Origin not allowed")
				return
			}
			next.ServeHTTP(w, r)
		})
		return c.Handler(guarded)
	}
}
