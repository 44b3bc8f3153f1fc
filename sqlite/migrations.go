package sqlite

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func migrator(db *gorm.DB) *gormigrate.Gormigrate {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID:       "1",
			Migrate:  migrateSessions,
			Rollback: rollbackSessions,
		},
		{
			ID:       "2",
			Migrate:  migrateChats,
			Rollback: rollbackChats,
		},
	})

	// A clean database skips straight to the latest schema.
	m.InitSchema(func(tx *gorm.DB) error {
		return tx.AutoMigrate(&sessionRow{}, &messageRow{}, &settingRow{}, &chatRow{})
	})

	return m
}

func migrateSessions(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&sessionRow{}, &messageRow{}, &settingRow{}); err != nil {
		return fmt.Errorf("error creating session tables: %w", err)
	}
	return nil
}

func rollbackSessions(tx *gorm.DB) error {
	if err := tx.Migrator().DropTable(&messageRow{}, &sessionRow{}, &settingRow{}); err != nil {
		return fmt.Errorf("error dropping session tables: %w", err)
	}
	return nil
}

func migrateChats(tx *gorm.DB) error {
	if err := tx.AutoMigrate(&chatRow{}); err != nil {
		return fmt.Errorf("error creating chats table: %w", err)
	}
	return nil
}

func rollbackChats(tx *gorm.DB) error {
	if err := tx.Migrator().DropTable(&chatRow{}); err != nil {
		return fmt.Errorf("error dropping chats table: %w", err)
	}
	return nil
}
