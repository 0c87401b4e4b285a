package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/models"
)

// DB bundles the raw connection with the gorm handle built on top of it.
type DB struct {
	SQL  *sql.DB
	Gorm *gorm.DB
}

// New opens the Postgres connection and wraps it with gorm.
func New(cfg *config.Config) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	// Log connection target (without password)
	log.Printf("Connecting to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error initializing gorm: %w", err)
	}

	log.Printf("Successfully connected to database")
	return &DB{SQL: sqlDB, Gorm: gormDB}, nil
}

// Migrate creates or updates the schema for the recipe tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.RecipeRequest{},
		&models.GeneratedRecipe{},
	)
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}
