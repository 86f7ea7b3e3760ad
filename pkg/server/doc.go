// Package server provides the HTTP server for the tenant-config API.
//
// It wires a gorilla/mux router to the service layer and wraps it with the
// request-id, request logging, metrics, CORS and panic recovery
// middleware.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, gormstore.NewStore(db), db, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Config: the loaded tenant-config settings
//   - Store: the persistence layer
//   - Services: the domain services built over Store
//   - Metrics: the prometheus collectors, nil when disabled
//   - Router: HTTP request router
//   - DB: Database connection
//
// Reconfigure swaps the settings that may change at runtime, the module
// display sequence and the audit switch, when the config file is edited.
package server
