package integration

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/db"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/tenant-config/pkg/server/store/gorm"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerConfig holds configuration for a test server instance
type ServerConfig struct {
	ModuleSequences map[uint]int
	MetricsEnabled  bool

	// AuditDatabase persists audit messages to the test database
	AuditDatabase bool
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ModuleSequences: config.DefaultModuleSequences(),
		MetricsEnabled:  true,
		AuditDatabase:   true,
	}
}

// ServerInstance represents a running server
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	cancel        context.CancelFunc
	httpServer    *http.Server
	serverProcess *exec.Cmd
}

// StartServer starts a server against the test database in the mode the
// suite was started with
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc.DatabaseURL, cfg)
	}
	return startBinaryServerInstance(tc.BinaryPath, tc.DatabaseURL, cfg)
}

func (cfg ServerConfig) environment(dbURL string) []string {
	env := []string{
		"DATABASE_URL=" + dbURL,
		"TENANT_CONFIG_MODULE_SEQUENCES=" + config.FormatModuleSequences(cfg.ModuleSequences),
		"TENANT_CONFIG_METRICS_ENABLED=" + strconv.FormatBool(cfg.MetricsEnabled),
	}
	if cfg.AuditDatabase {
		env = append(env, "AUDIT_DATABASE_URL="+dbURL)
	}
	return env
}

func startInlineServerInstance(dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	// The audit store reads its URL once, on the first event.
	if cfg.AuditDatabase {
		_ = os.Setenv("AUDIT_DATABASE_URL", dbURL)
	}

	tenantCfg := config.Default()
	tenantCfg.ModuleSequences = cfg.ModuleSequences
	tenantCfg.MetricsEnabled = &cfg.MetricsEnabled

	database, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}

	s := server.NewServer(tenantCfg, gormstore.NewStore(database), database, "127.0.0.1", strconv.Itoa(port))
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	httpServer := &http.Server{Handler: s.Handler()}
	_, cancel := context.WithCancel(context.Background())

	instance := &ServerInstance{
		Server:     s,
		ServerURL:  fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:       port,
		Config:     cfg,
		cancel:     cancel,
		httpServer: httpServer,
	}

	go func() {
		_ = httpServer.Serve(listener)
	}()

	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

func startBinaryServerInstance(binaryPath, dbURL string, cfg ServerConfig) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := strconv.Itoa(port)

	ctx, cancel := context.WithCancel(context.Background())

	// migrations already ran in the test setup
	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(), cfg.environment(dbURL)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = si.httpServer.Shutdown(ctx)
		cancel()
	}
	if si.Server != nil && si.Server.DB != nil {
		_ = db.Close(si.Server.DB)
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}
