package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the session endpoints. CORS is open to the configured
// origins only; the consumer is a browser calendar dialog.
func NewRouter(h *SessionsHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Delete)
			r.Post("/professional", h.SelectProfessional)
			r.Post("/calendar/previous", h.NavigatePrevious)
			r.Post("/calendar/next", h.NavigateNext)
			r.Post("/date", h.SelectDate)
			r.Post("/slot", h.SelectSlot)
			r.Post("/confirm", h.Confirm)
		})
	})

	return r
}
