package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/tenant-config/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	srv.Router.Use(withActor)

	RegisterStatusEndpoints(srv)
	RegisterTenantsEndpoints(srv)
	RegisterBranchesEndpoints(srv)
	RegisterProductsEndpoints(srv)
	RegisterConfigurationEndpoints(srv)
	RegisterTenantFeaturesEndpoints(srv)
	RegisterCatalogEndpoints(srv)

	srv.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithStatus(w, http.StatusNotFound, "Resource not found.")
	})
	srv.Router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithStatus(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})
}
