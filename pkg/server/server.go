package server

import (
	"context"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/metrics"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

type Server struct {
	Config   *config.TenantConfig
	Store    store.Store
	Services *service.Services

	// Metrics is nil when metrics are disabled
	Metrics *metrics.Metrics

	Router *mux.Router
	DB     *gorm.DB
	srv    *http.Server
}

func NewServer(
	cfg *config.TenantConfig,
	st store.Store,
	db *gorm.DB,
	host string,
	port string,
) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	var m *metrics.Metrics
	opts := service.Options{
		Sequencer:        service.NewSequencer(cfg.ModuleSequences),
		DefaultCreatedBy: cfg.DefaultCreatedBy,
	}
	if cfg.IsMetricsEnabled() {
		m = metrics.New(cfg.ServiceName)
		opts.Metrics = m
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(logger.RequestIDMiddleware, logger.Middleware)
	if m != nil {
		router.Use(m.Middleware)
	}

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(logger.GetLogger())),
		handlers.PrintRecoveryStack(true),
	)
	cors := handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", logger.RequestIDHeader}),
		handlers.ExposedHeaders([]string{logger.RequestIDHeader}),
	)

	srv := &http.Server{
		Handler:      recovery(cors(handlers.LoggingHandler(os.Stdout, router))),
		Addr:         host + ":" + port,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
	}

	s := &Server{
		Config:   cfg,
		Store:    st,
		Services: service.New(st, opts),
		Metrics:  m,
		Router:   router,
		DB:       db,
		srv:      srv,
	}
	audit.SetEnabled(cfg.IsAuditEnabled())
	return s
}

// Reconfigure applies the settings that can change while the server runs
func (s *Server) Reconfigure(cfg *config.TenantConfig) {
	s.Services.Sequencer.Set(cfg.ModuleSequences)
	audit.SetEnabled(cfg.IsAuditEnabled())
	s.Config = cfg
}

// Handler is the fully wrapped handler the server listens with
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
