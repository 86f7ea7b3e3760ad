package endpoints

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// StatusInfo is the body of the status page
type StatusInfo struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// RegisterStatusEndpoints registers the status, health and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.Config)).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.Store)).Methods("GET")
	if s.Metrics != nil {
		s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
	}
}

func handleStatus(cfg *config.TenantConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("TENANT_CONFIG_VERSION")
		if version == "" {
			version = "0.1.0"
		}
		respondWithData(w, http.StatusOK, cfg.ServiceName+" is running", StatusInfo{
			Service:     cfg.ServiceName,
			Version:     version,
			Environment: cfg.Environment,
		})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", zap.Error(err))
			respondWithStatus(w, http.StatusServiceUnavailable, "database connectivity check failed")
			return
		}
		respondWithData(w, http.StatusOK, "", map[string]string{"database": "ok"})
	}
}
