package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PostgresDbType selects the PostgreSQL (Supabase) backend
const PostgresDbType = "postgres"

// SqliteDbType selects the SQLite backend, used for local development and tests
const SqliteDbType = "sqlite"

// DatabaseSettings holds the connection settings for the relational store
type DatabaseSettings struct {
	Type        string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`
	DSN         string `mapstructure:"dsn" validate:"required"`
	Name        string `mapstructure:"name"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// Validate checks that the database settings are usable
func (s *DatabaseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for DatabaseSettings: %w", err)
	}

	return nil
}
