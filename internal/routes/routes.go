package routes

import (
	"log/slog"
	"time"

	"github.com/example/hotel-booking-workflow/internal/httpapi"
	mid "github.com/example/hotel-booking-workflow/internal/middleware"
	"github.com/example/hotel-booking-workflow/internal/obs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func GetRoutes(h *httpapi.Handler, metrics *obs.Metrics, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()
	// Useful built-in middlewares
	r.Use(middleware.RealIP)    // proper client IP extraction
	r.Use(middleware.RequestID) // sets request ID header
	r.Use(middleware.Recoverer) // built-in recoverer to avoid panics taking server down

	// our custom middlewares: logging, metrics & timeout
	r.Use(mid.MetricsMiddleware(metrics))
	r.Use(mid.LoggingMiddleware(logger))
	r.Use(mid.TimeoutMiddleware(30 * time.Second))

	// one route per screen action of the booking workflow
	r.Route("/workflows", func(r chi.Router) {
		r.Post("/", h.CreateWorkflow)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetWorkflow)
			r.Delete("/", h.DeleteWorkflow)
			r.Get("/locations", h.SearchLocations)
			r.Post("/location", h.SelectLocation)
			r.Post("/offers", h.SearchOffers)
			r.Post("/offers/more", h.LoadMoreOffers)
			r.Post("/hotel", h.SelectHotel)
			r.Post("/offer", h.SelectRoomOffer)
			r.Post("/book", h.Book)
		})
	})

	r.Get("/healthz", h.Healthz)
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	return r
}
