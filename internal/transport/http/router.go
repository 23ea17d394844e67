package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	appadmin "marketplace-ledger/internal/app/admin"
	"marketplace-ledger/internal/app/catalog"
	"marketplace-ledger/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Services are the collaborators the router dispatches to. Metrics is
// optional; without it /metrics is not mounted.
type Services struct {
	DB       Pinger
	Profiles ProfileLookup
	Ledger   Payments
	Catalog  *catalog.Service
	Admin    *appadmin.Service
	Metrics  *HTTPMetrics
}

func NewRouter(svc Services, cfg config.ServerConfig) *chi.Mux {
	ledgerHandlers := NewLedgerHandlers(svc.Ledger)
	publicHandlers := NewPublicHandlers(svc.Catalog)
	adminHandlers := NewAdminHandlers(svc.DB, svc.Admin)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	if svc.Metrics != nil {
		r.Use(svc.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", svc.Metrics.Handler())
	}

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Group(func(r chi.Router) {
			r.Use(ProfileMiddleware(svc.Profiles))
			r.Get("/contracts/{id}", publicHandlers.Contract())
			r.Get("/contracts", publicHandlers.Contracts())
			r.Get("/jobs/unpaid", publicHandlers.UnpaidJobs())

			r.Group(func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Post("/jobs/{job_id}/pay", ledgerHandlers.Pay())
				r.Post("/balances/deposit/{user_id}", ledgerHandlers.Deposit())
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/best-profession", adminHandlers.BestProfession())
			r.Get("/best-clients", adminHandlers.BestClients())
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
