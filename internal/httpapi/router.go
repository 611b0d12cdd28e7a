package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/radekzitek/crudelty/internal/config"
	"github.com/radekzitek/crudelty/internal/logstore"
	"github.com/radekzitek/crudelty/internal/metrics"
	"github.com/radekzitek/crudelty/internal/middleware"
	"github.com/radekzitek/crudelty/internal/storage"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	DB       *storage.DB
	LogStore *logstore.Store
	Appender *logstore.AsyncAppender
	Metrics  *metrics.Aggregator
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	// Initialize database
	db, err := storage.NewDB(storage.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		OrgCacheSize:    500,
		OrgCacheTTL:     5 * time.Minute,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize the request log store. The connection is lazy, so an
	// unreachable Redis does not prevent startup.
	store := logstore.New(logstore.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,

		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,

		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,

		MaxEntries:         cfg.LogStore.MaxEntries,
		EntryTTL:           cfg.LogStore.EntryTTL,
		CorrelationTTL:     cfg.LogStore.CorrelationTTL,
		DefaultQueryWindow: cfg.LogStore.DefaultQueryWindow,
	})

	appender := logstore.NewAsyncAppender(store, cfg.LogStore.AsyncBufferSize)
	aggregator := metrics.New(cfg.Metrics.RecentWindow, cfg.Metrics.CountFailures)

	deps := &Dependencies{
		DB:       db,
		LogStore: store,
		Appender: appender,
		Metrics:  aggregator,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies) {
	logging := middleware.RequestLogging(deps.Appender, deps.Metrics)

	orgs := NewOrganizationsHandler(storage.NewOrganizationRepository(deps.DB))
	departments := NewDepartmentsHandler(storage.NewDepartmentRepository(deps.DB))
	employees := NewEmployeesHandler(storage.NewEmployeeRepository(deps.DB))
	positions := NewPositionsHandler(storage.NewPositionRepository(deps.DB))
	teams := NewTeamsHandler(storage.NewTeamRepository(deps.DB))
	observability := NewObservabilityHandler(deps.DB, deps.LogStore, deps.Metrics)

	// Both the bare and the trailing-slash patterns route to the same
	// handler; the handler itself parses the id segment.
	register := func(resource string, handler http.HandlerFunc) {
		mux.Handle("/"+resource, logging(handler))
		mux.Handle("/"+resource+"/", logging(handler))
	}

	register("organizations", orgs.Handle)
	register("departments", departments.Handle)
	register("employees", employees.Handle)
	register("positions", positions.Handle)
	register("teams", teams.Handle)

	// Observability endpoints go through the interceptor too, so they
	// show up in their own logs and metrics.
	mux.Handle("/logs", logging(http.HandlerFunc(observability.HandleLogs)))
	mux.Handle("/metrics", logging(http.HandlerFunc(observability.HandleMetrics)))
	mux.Handle("/health", logging(http.HandlerFunc(observability.HandleHealth)))
}
