/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/payrolls/*              Payroll management
  /api/payrolls/adjustments/*  Adjustment reads
  /api/payrolls/{payrollID}/adjustments/*  Adjustment mutations

SECURITY NOTE:
  No authentication middleware. All endpoints are public; authentication is
  owned by the surrounding platform.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api/payrolls", func(r chi.Router) {
		r.Get("/", h.ListPayrolls)
		r.Post("/", h.CreatePayroll)
		r.Get("/status/{status}", h.GetPayrollByStatus)

		// Adjustment reads. Static segment, so it wins over {payrollID}.
		r.Route("/adjustments", func(r chi.Router) {
			r.Get("/", h.ListAdjustments)
			r.Get("/type/{type}", h.GetAdjustmentByType)
			r.Get("/{adjustmentID}", h.GetAdjustment)
		})

		r.Route("/{payrollID}", func(r chi.Router) {
			r.Get("/", h.GetPayroll)
			r.Put("/", h.UpdatePayroll)
			r.Delete("/", h.DeletePayroll)
			r.Get("/payslip", h.GetPayslip)

			// Adjustment mutations, scoped to the target payroll
			r.Route("/adjustments", func(r chi.Router) {
				r.Post("/", h.CreateAdjustment)
				r.Put("/{adjustmentID}", h.UpdateAdjustment)
				r.Delete("/{adjustmentID}", h.DeleteAdjustment)
			})
		})
	})

	return r
}
