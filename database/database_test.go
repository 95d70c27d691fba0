package database

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"testing/fstest"

	"gorm.io/gorm"

	"github.com/kbukum/scribe/component"
	"github.com/kbukum/scribe/database/migration"
	apperrors "github.com/kbukum/scribe/errors"
	"github.com/kbukum/scribe/logger"
)

type note struct {
	BaseModel
	Body string `gorm:"uniqueIndex"`
}

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), Config{DSN: ":memory:", LogLevel: "silent"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.GormDB.AutoMigrate(&note{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	cfg.ApplyDefaults()
	if cfg.MaxOpenConns != 1 || cfg.MaxRetries != 3 || cfg.LogLevel != "warn" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"idle above open", Config{Enabled: true, DSN: "x", MaxOpenConns: 1, MaxIdleConns: 2}},
		{"bad log level", Config{Enabled: true, DSN: "x", LogLevel: "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBaseModelAssignsID(t *testing.T) {
	db := openMemory(t)
	n := note{Body: "hello"}
	if err := db.WithContext(context.Background()).Create(&n).Error; err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID == "" {
		t.Error("expected generated id")
	}
	if n.CreatedAt.IsZero() {
		t.Error("expected CreatedAt")
	}
}

func TestFromDatabase(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	var missing note
	err := db.WithContext(ctx).First(&missing, "id = ?", "nope").Error
	if appErr := FromDatabase(err, "note"); appErr.Code != apperrors.ErrCodeNotFound {
		t.Errorf("not found mapped to %s", appErr.Code)
	}

	if err := db.WithContext(ctx).Create(&note{Body: "dup"}).Error; err != nil {
		t.Fatal(err)
	}
	err = db.WithContext(ctx).Create(&note{Body: "dup"}).Error
	if appErr := FromDatabase(err, "note"); appErr.HTTPStatus != http.StatusConflict {
		t.Errorf("duplicate mapped to %d (%v)", appErr.HTTPStatus, err)
	}

	if appErr := FromDatabase(errors.New("database is locked"), "note"); appErr.HTTPStatus != http.StatusServiceUnavailable {
		t.Errorf("busy mapped to %d", appErr.HTTPStatus)
	}
	if FromDatabase(nil, "note") != nil {
		t.Error("nil error should map to nil")
	}
}

func TestWithTransactionRollsBack(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&note{Body: "rolled back"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var count int64
	db.WithContext(ctx).Model(&note{}).Count(&count)
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

var testMigrations = fstest.MapFS{
	"sql/1_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY);")},
	"sql/1_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
}

func TestComponentLifecycle(t *testing.T) {
	c := NewComponent(Config{Enabled: true, DSN: ":memory:", Migrate: true, LogLevel: "silent"}, logger.Nop()).
		WithMigrations(testMigrations, "sql")
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %s (%s)", h.Status, h.Message)
	}

	version, dirty, err := migration.MigrateVersion(c.DB().GormDB, testMigrations, "sql", migration.SQLite)
	if err != nil || version != 1 || dirty {
		t.Errorf("version = %d dirty=%v err=%v", version, dirty, err)
	}
	if !c.DB().GormDB.Migrator().HasTable("widgets") {
		t.Error("widgets table missing")
	}

	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}
