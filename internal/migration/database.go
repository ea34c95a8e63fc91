package migration

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"regexp"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"jtr/internal/config"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// Provisioner makes sure every worker has a database
type Provisioner interface {
	EnsureDatabases(ctx context.Context, workerCount int) ([]int, error)
}

// DatabaseManager manages test databases
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// DSN builds the server connection string from DB_HOST, DB_PORT, DB_USERNAME and DB_PASSWORD.
// No database is selected.
func (dm *DatabaseManager) DSN() string {
	c := mysql.NewConfig()
	c.User = envOr("DB_USERNAME", "root")
	c.Passwd = os.Getenv("DB_PASSWORD")
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(envOr("DB_HOST", "127.0.0.1"), envOr("DB_PORT", "3306"))
	return c.FormatDSN()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnsureDatabases creates the missing <prefix>_<n> databases and returns the worker ids that have one
func (dm *DatabaseManager) EnsureDatabases(ctx context.Context, workerCount int) ([]int, error) {
	db, err := sql.Open("mysql", dm.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	available := make([]int, 0, workerCount)
	created := 0
	for i := 1; i <= workerCount; i++ {
		name := dm.config.GetDatabaseName(i)

		exists, err := dm.databaseExists(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to check database %s: %w", name, err)
		}
		if !exists {
			if err := dm.createDatabase(ctx, db, name); err != nil {
				return nil, fmt.Errorf("failed to create database %s: %w", name, err)
			}
			created++
		}
		available = append(available, i)
	}

	log.Debug().Int("workers", workerCount).Int("created", created).Msg("test databases ready")
	return available, nil
}

func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, name).Scan(&exists)
	return exists, err
}

func (dm *DatabaseManager) createDatabase(ctx context.Context, db *sql.DB, name string) error {
	if !isValidDatabaseName(name) {
		return fmt.Errorf("invalid database name: %s", name)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name))
	return err
}

// isValidDatabaseName accepts identifiers that are safe to interpolate into CREATE DATABASE
func isValidDatabaseName(name string) bool {
	return databaseNamePattern.MatchString(name)
}
