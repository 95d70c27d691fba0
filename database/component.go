package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/database/migration"
	"github.com/kbukum/scribe/logger"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db  *DB
	cfg Config
	log *logger.Logger

	migrations fs.FS
	migrateDir string
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// WithMigrations registers the SQL migrations applied on Start when cfg.Migrate is set.
func (c *Component) WithMigrations(source fs.FS, dir string) *Component {
	c.migrations = source
	c.migrateDir = dir
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects and applies migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if c.cfg.Migrate && c.migrations != nil {
		if err := migration.MigrateUp(db.GormDB, c.migrations, c.migrateDir, migration.SQLite); err != nil {
			return fmt.Errorf("database migrate: %w", err)
		}
		c.log.Info("Migrations applied")
	}
	return nil
}

// Stop closes the connection pool.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the bootstrap display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("sqlite pool=%d/%d", c.cfg.MaxOpenConns, c.cfg.MaxIdleConns)
	if c.cfg.Migrate {
		details += " migrate=on"
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}
