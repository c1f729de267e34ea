package container

import (
	"context"
	"fmt"

	"mincerdash/adapters/postgres"
	"mincerdash/app"
	"mincerdash/internal"
	"mincerdash/internal/config"
	"mincerdash/internal/generator"
	"mincerdash/internal/migration"
	"mincerdash/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; nil when the export ledger is disabled
	DB *sqlx.DB

	// Export ledger (data access layer)
	Ledger ports.ExportLedger

	// Pipeline
	Cache     *generator.Cache
	Dashboard *app.DashboardService

	logger *internal.Logger
}

// New creates a new dependency injection container without a database
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	genCfg := generator.WithSeed(cfg.Data.Seed)
	genCfg.Size = cfg.Data.Size

	c := &Container{
		Config: cfg,
		Cache:  generator.NewCache(genCfg),
		logger: internal.DefaultLogger.With("container"),
	}
	c.initServices()
	return c, nil
}

// Open connects to the configured ledger database, migrates it and wires the
// repository. It is a no-op when DATABASE_URL is empty.
func (c *Container) Open(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.logger.Info("export ledger disabled (DATABASE_URL not set)")
		return nil
	}

	db, err := postgres.Open(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return err
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return err
	}
	return c.InitWithDatabase(ctx, db)
}

// InitWithDatabase wires the components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.Ledger = postgres.NewExportRepository(db)
	c.initServices()

	c.logger.Info("export ledger enabled (%s)", db.DriverName())
	return nil
}

// initServices (re)builds the dashboard service over the current ledger
func (c *Container) initServices() {
	opts := []app.Option{
		app.WithExportNames(c.Config.Export.ReportName, c.Config.Export.DataName),
	}
	if c.Ledger != nil {
		opts = append(opts, app.WithLedger(c.Ledger))
	}
	c.Dashboard = app.NewDashboardService(c.Cache, opts...)
}

// Close releases the database connection, if any
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
