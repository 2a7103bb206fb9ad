package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cinemahub-billing/internal/infra/logging"
	"cinemahub-billing/internal/usecase"
)

// Server wires the billing REST surface: user-facing checkout, the
// gateway-facing webhook, and the admin read/delete path over the ledger.
type Server struct {
	checkoutUC    usecase.CheckoutUseCase
	webhookUC     usecase.WebhookUseCase
	orderUC       usecase.OrderUseCase
	auth          *AuthManager
	webhookSecret string
	log           *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	webhookUC usecase.WebhookUseCase,
	orderUC usecase.OrderUseCase,
	auth *AuthManager,
	webhookSecret string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		checkoutUC:    checkoutUC,
		webhookUC:     webhookUC,
		orderUC:       orderUC,
		auth:          auth,
		webhookSecret: webhookSecret,
		log:           &l,
	}
}

// RegisterRoutes sets up the routing for the billing API. The webhook route
// is deliberately outside the auth guards: the gateway authenticates with the
// payload signature instead.
func (s *Server) RegisterRoutes(r *chi.Mux) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/webhook", s.handleWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(RoleUser))
			r.Post("/", s.handleCheckout)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireRole(RoleAdmin))
			r.Get("/", s.handleList)
			r.Delete("/{id}", s.handleDelete)
		})
	})
}

// requireRole authenticates the bearer token and enforces a minimum role.
// Admin tokens satisfy the user requirement.
func (s *Server) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.auth.ParseFromRequest(r)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if role == RoleAdmin && claims.Role != RoleAdmin {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			ctx := logging.WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
