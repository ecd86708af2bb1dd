// Package api provides the HTTP handlers for the ICare REST API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"icare/internal/middleware"
	"icare/internal/service/clinic"
	"icare/internal/service/governance"
	"icare/internal/service/identity"
	"icare/internal/service/store"
	"icare/internal/service/support"
)

// Services groups the service layer the handlers call into.
type Services struct {
	Users         *identity.UserService
	APIKeys       *identity.APIKeyService
	Optometrists  *clinic.OptometristService
	Appointments  *clinic.AppointmentService
	Prescriptions *clinic.PrescriptionService
	Library       *clinic.LibraryService
	Tickets       *support.TicketService
	Products      *store.ProductService
	Orders        *store.OrderService
	Cards         *store.CardService
	Audit         *governance.AuditService
}

// APIHandler serves the REST API.
type APIHandler struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler creates a new APIHandler.
func NewHandler(svc Services, logger *slog.Logger) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{svc: svc, logger: logger}
}

// Router builds the API routes. Public reads pass through auth.Optional so
// that a presented credential is still verified; everything else requires
// an identity before any handler runs.
func (h *APIHandler) Router(auth *middleware.Authenticator) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.Optional())
		r.Post("/users/signup", h.Signup)
		r.Post("/users/signin", h.Signin)
		r.Get("/optometrists", h.ListOptometrists)
		r.Get("/optometrists/{id}", h.GetOptometrist)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/products/slug/{slug}", h.GetProductBySlug)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())

		r.Get("/users/profile", h.GetProfile)
		r.Put("/users/profile", h.UpdateProfile)
		r.Get("/users", h.ListUsers)
		r.Get("/users/{id}", h.GetUser)
		r.Put("/users/{id}", h.UpdateUser)
		r.Delete("/users/{id}", h.DeleteUser)

		r.Get("/api-keys", h.ListAPIKeys)
		r.Post("/api-keys", h.CreateAPIKey)
		r.Post("/api-keys/cleanup", h.CleanupAPIKeys)
		r.Delete("/api-keys/{id}", h.DeleteAPIKey)

		r.Post("/optometrists", h.CreateOptometrist)
		r.Put("/optometrists/{id}", h.UpdateOptometrist)
		r.Delete("/optometrists/{id}", h.DeleteOptometrist)

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", h.ListAppointments(false))
			r.Post("/", h.CreateAppointment)
			r.Get("/mine", h.ListAppointments(true))
			r.Get("/{id}", h.GetAppointment)
			r.Put("/{id}", h.UpdateAppointment)
			r.Delete("/{id}", h.DeleteAppointment)
		})

		r.Route("/prescriptions", func(r chi.Router) {
			r.Get("/", h.ListPrescriptions(false))
			r.Post("/", h.CreatePrescription)
			r.Get("/mine", h.ListPrescriptions(true))
			r.Get("/{id}", h.GetPrescription)
			r.Put("/{id}", h.UpdatePrescription)
			r.Delete("/{id}", h.DeletePrescription)
		})

		r.Route("/digital-library", func(r chi.Router) {
			r.Get("/", h.ListLibraryResources)
			r.Post("/", h.CreateLibraryResource)
			r.Get("/{id}", h.GetLibraryResource)
			r.Put("/{id}", h.UpdateLibraryResource)
			r.Delete("/{id}", h.DeleteLibraryResource)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.ListTickets(false))
			r.Post("/", h.CreateTicket)
			r.Get("/mine", h.ListTickets(true))
			r.Get("/{id}", h.GetTicket)
			r.Put("/{id}", h.UpdateTicket)
			r.Delete("/{id}", h.DeleteTicket)
			r.Post("/{id}/responses", h.RespondTicket)
		})

		r.Route("/card-details", func(r chi.Router) {
			r.Get("/", h.ListCards(false))
			r.Post("/", h.CreateCard)
			r.Get("/mine", h.ListCards(true))
			r.Get("/{id}", h.GetCard)
			r.Put("/{id}", h.UpdateCard)
			r.Delete("/{id}", h.DeleteCard)
		})

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)
		r.Post("/products/{id}/reviews", h.CreateReview)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders(false))
			r.Post("/", h.CreateOrder)
			r.Get("/mine", h.ListOrders(true))
			r.Get("/summary", h.OrderSummary)
			r.Get("/{id}", h.GetOrder)
			r.Delete("/{id}", h.DeleteOrder)
			r.Put("/{id}/pay", h.PayOrder)
			r.Put("/{id}/deliver", h.DeliverOrder)
		})

		r.Get("/audit", h.ListAuditLogs)
	})

	return r
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
