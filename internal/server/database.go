package server

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens (creating if needed) the sqlite database at dsn and
// runs migrations. Use "file:pos?mode=memory&cache=shared" for an
// in-memory database in tests.
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // surface unique violations as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	log.Printf("Connected to sqlite database at %s", dsn)
	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Item{},
		&Bill{},
		&BillItem{},
		&Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
