package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/db"
	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/tenant-config/pkg/server/store/gorm"
)

const shutdownTimeout = 30 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if p, err := strconv.Atoi(defaultPort()); err == nil {
		return p
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the tenant configuration server",
	Long: `Run the tenant configuration server.

The server requires the DATABASE_URL environment variable.

By default, database migrations are run on startup. Use --no-migrate to skip.
Changes to the config file are applied without a restart, and SIGHUP
reloads it on demand.`,
	Run: func(cmd *cobra.Command, args []string) {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")

		if err := runServer(host, port, !noMigrate); err != nil {
			fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(host, port string, migrateFirst bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config.Set(cfg)

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()

	if db.URL() == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if migrateFirst {
		log.Info("running database migrations")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{
		LogLevel:        cfg.LogLevel,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(database) }()

	s := server.NewServer(cfg, gormstore.NewStore(database), database, host, port)
	endpoints.RegisterAll(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := config.Watch(ctx, cfg.ConfigFilePath(), func(next *config.TenantConfig, err error) {
			if err != nil {
				log.Warn("configuration reload rejected", zap.Error(err))
				return
			}
			applyConfiguration(s, next)
			log.Info("configuration reloaded", zap.String("source", "file"))
		})
		if err != nil {
			log.Warn("configuration watch disabled", zap.String("path", cfg.ConfigFilePath()), zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", host+":"+port))
		errCh <- s.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				reloadConfiguration(s, log)
				continue
			}
			log.Info("shutting down", zap.String("signal", sig.String()))
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			err := s.Shutdown(shutdownCtx)
			done()
			return err
		}
	}
}

func reloadConfiguration(s *server.Server, log *zap.Logger) {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.Warn("configuration reload rejected", zap.Error(err))
		return
	}
	applyConfiguration(s, cfg)
	log.Info("configuration reloaded", zap.String("source", "signal"))
}

// applyConfiguration makes cfg the global configuration and the one s runs with
func applyConfiguration(s *server.Server, cfg *config.TenantConfig) {
	config.Set(cfg)
	s.Reconfigure(cfg)
}
