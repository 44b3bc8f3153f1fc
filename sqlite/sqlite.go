// Package sqlite stores chat state and the reply server's chat log in a
// SQLite database using gorm. The schema is managed with gormigrate.
package sqlite

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is an open chat database.
type DB struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Option configures a [DB].
type Option func(*DB)

// WithLogger sets the logger used to report unreadable rows.
func WithLogger(l *slog.Logger) Option {
	return func(d *DB) { d.logger = l }
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string, opts ...Option) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d := &DB{db: gdb, logger: slog.Default()}
	for _, o := range opts {
		o(d)
	}
	if err := migrator(gdb).Migrate(); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
