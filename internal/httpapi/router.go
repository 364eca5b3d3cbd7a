package httpapi

import (
	"net/http"

	"github.com/fekuna/omnipos-community-store/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	AllowedOrigins []string
	// Gatherer backs GET /metrics. Defaults to the Prometheus default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(h *Handler, opts RouterOptions, log logger.ZapLogger) http.Handler {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(tracing)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", BranchHeader},
		MaxAge:         300,
	}))
	r.Use(branchContext)

	r.Post("/purchases", h.RecordPurchase)
	r.Post("/sales", h.RecordSale)
	r.Post("/ration-cards/renew", h.RenewRationCard)
	r.Post("/credits", h.IssueCredit)

	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.ListMembers)
		r.Post("/", h.CreateMember)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetMember)
			r.Get("/purchases", h.ListPurchases)
			r.Get("/sales", h.ListSales)
			r.Get("/credits", h.ListCredits)
			r.Get("/ration-cards", h.ListRationCards)
			r.Get("/ration-cards/{year}", h.GetRationCard)
		})
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/{id}", h.GetItem)
	})

	r.Route("/branches", func(r chi.Router) {
		r.Get("/", h.ListBranches)
		r.Post("/", h.CreateBranch)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	return r
}
