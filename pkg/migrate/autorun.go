package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	"github.com/angelmondragon/vendorscore-backend/pkg/db"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
)

// ShouldAutoMigrate reports whether the API applies the embedded migrations at
// boot. The flag must be set, and the process must be in dev or on sqlite, which
// has no separate migrate job.
func ShouldAutoMigrate(cfg *config.Config) bool {
	if cfg == nil || !cfg.Flags.AutoMigrate {
		return false
	}
	return cfg.App.IsDev() || cfg.DB.IsSQLite()
}

// AutoMigrate brings the schema up to date when ShouldAutoMigrate allows it and
// logs the version it moved between.
func AutoMigrate(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !ShouldAutoMigrate(cfg) {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	src := Source{Driver: client.Driver()}

	from, err := Version(ctx, sqlDB, src)
	if err != nil {
		return err
	}
	if err := Up(ctx, sqlDB, src); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	to, err := Version(ctx, sqlDB, src)
	if err != nil {
		return err
	}

	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"env":          cfg.App.Env,
			"driver":       client.Driver(),
			"from_version": from,
			"to_version":   to,
		})
		logg.Info(ctx, "schema migrations applied")
	}
	return nil
}
