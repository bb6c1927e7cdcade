package http

import (
	"database/sql"
	"net/http"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/auth"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/cache"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/careplan"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/report"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/telemetry"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/visit"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application
func SetupRouter(
	db *sql.DB,
	verifier *auth.Verifier,
	perms map[string][]string,
	publisher messaging.PublisherInterface,
	store cache.Store,
	metrics *telemetry.Metrics,
) *mux.Router {
	// Initialize visit components
	visitRepo := visit.NewRepository(db)
	visitService := visit.NewService(visitRepo)
	visitHandler := visit.NewHandler(visitService)

	// Initialize care-plan components
	planRepo := careplan.NewRepository(db)
	planService := careplan.NewService(planRepo)

	// Initialize report components. The resolver links visit records back
	// onto reports through the report repository.
	reportRepo := report.NewRepository(db)
	resolver := visit.NewResolver(visitRepo, reportRepo, publisher)
	reportService := report.NewService(reportRepo, visitRepo, resolver, planService, publisher, store)
	// A typed nil must not end up inside the interface values below.
	var authMetrics auth.MetricsRecorder
	if metrics != nil {
		resolver.WithMetrics(metrics)
		reportService.WithMetrics(metrics)
		authMetrics = metrics
	}
	reportHandler := report.NewHandler(reportService)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("care-report-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"care-report-service"}`))
	}).Methods("GET")

	// Report data aggregation (CAREGIVER and ORG_ADMIN)
	r.Handle("/clients/{clientId}/report-data",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("report:view", perms)(
				http.HandlerFunc(reportHandler.GetReportData),
			),
		),
	).Methods("GET")

	// Report submission and listing
	r.Handle("/reports",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("report:submit", perms)(
				http.HandlerFunc(reportHandler.SubmitReport),
			),
		),
	).Methods("POST")

	r.Handle("/reports",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("report:view", perms)(
				http.HandlerFunc(reportHandler.ListReports),
			),
		),
	).Methods("GET")

	r.Handle("/reports/{id}",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("report:view", perms)(
				http.HandlerFunc(reportHandler.GetReport),
			),
		),
	).Methods("GET")

	// Review decisions (ORG_ADMIN only)
	r.Handle("/reports/{id}/review",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("report:review", perms)(
				http.HandlerFunc(reportHandler.ReviewReport),
			),
		),
	).Methods("POST")

	// Visit record detail
	r.Handle("/visits/{id}",
		auth.MiddlewareWithMetrics(verifier, authMetrics)(
			auth.RequirePermission("visit:view", perms)(
				http.HandlerFunc(visitHandler.GetVisit),
			),
		),
	).Methods("GET")

	return r
}
