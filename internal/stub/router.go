package stub

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"docsmith/internal/middleware"
)

// NewRouter mounts the stub service with the shared middleware stack.
func NewRouter(svc *Service, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(allowedOrigins),
		middleware.RateLimit(120, time.Minute),
	)

	r.Get("/healthz", svc.Health)
	r.Post("/credits/deduct", svc.DeductCredits)
	r.Post("/documents/generate", svc.Generate)
	r.Route("/jobs/{job_id}", func(r chi.Router) {
		r.Get("/status", svc.JobStatus)
		r.Get("/download", svc.Download)
	})

	return r
}
