package database

import (
	"fmt"
	"log"

	"github.com/saran-softdev/component-library-sub001/internal/model"
	"github.com/saran-softdev/component-library-sub001/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the database connection and runs migrations.
func Initialize(cfg *config.DBConfig) error {
	var err error

	// Connect with PreferSimpleProtocol to prevent "prepared statement
	// already exists" errors behind connection poolers
	pgConfig := postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true,
	}

	DB, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		// Surface unique-constraint violations as gorm.ErrDuplicatedKey
		// so repositories can map them to the duplicate-key error class
		TranslateError: true,
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return err
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := migrate(DB); err != nil {
		return err
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Organization{},
		&model.Role{},
		&model.User{},
		&model.Module{},
		&model.Component{},
		&model.AccessMatrix{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Postgres treats NULLs as distinct in unique indexes, so a plain
	// unique index on (role_id, user_id) would admit two live RBAC
	// matrices for one role. COALESCE(user_id, 0) closes that hole;
	// 0 is never a real user id.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_access_matrix_identity
		ON access_matrices (role_id, COALESCE(user_id, 0))
		WHERE is_deleted = false`).Error
	if err != nil {
		return fmt.Errorf("failed to create matrix identity index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
