package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/db"
	"github.com/doodlesbykumbi/tenant-config/pkg/seed"
	gormstore "github.com/doodlesbykumbi/tenant-config/pkg/server/store/gorm"
)

// seedLoadCmd represents the seed load command
var seedLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a seed file",
	Long: `Load a seed file into the database.

Rows are matched by code (country_code for countries, name for features)
and created or updated; loading the same file twice changes nothing. The
whole file is loaded in one transaction.

Example:
  tenantctl seed load catalog.yml
  tenantctl seed load catalog.yml --dry-run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		createdBy, _ := cmd.Flags().GetString("created-by")

		database, err := connectDB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close(database) }()

		result, err := loadSeedFile(context.Background(), database, args[0], createdBy, dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed: %v\n", err)
			os.Exit(1)
		}

		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	seedCmd.AddCommand(seedLoadCmd)
	seedLoadCmd.Flags().Bool("dry-run", false, "report the changes without writing them")
	seedLoadCmd.Flags().String("created-by", "", "created_by for new rows (default: default_created_by)")
}

// connectDB opens the database with the configured pool settings
func connectDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.Set(cfg)
	return db.Connect(db.Config{
		LogLevel:        cfg.LogLevel,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
}

func loadSeedFile(ctx context.Context, database *gorm.DB, filename, createdBy string, dryRun bool) (*seed.LoadResult, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if createdBy == "" {
		createdBy = config.Get().DefaultCreatedBy
	}

	loader := seed.NewLoader(gormstore.NewStore(database)).
		WithCreatedBy(createdBy).
		WithDryRun(dryRun)
	return loader.LoadFromReader(ctx, file)
}
