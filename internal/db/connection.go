package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/techeer-11-team-k/aptmatch/internal/config"
)

// Connection holds the database connection to the reference catalog.
type Connection struct {
	DB *sql.DB
}

// NewConnection opens a connection using PG* environment variables.
func NewConnection() (*Connection, error) {
	host := config.GetEnv("PGHOST", "localhost")
	port := config.GetEnv("PGPORT", "5432")
	user := config.GetEnv("PGUSER", "aptmatch")
	password := config.GetEnv("PGPASSWORD", "aptmatch")
	dbname := config.GetEnv("PGDATABASE", "molit")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(config.GetEnvInt("PGMAXCONNS", 20))
	conn.SetMaxIdleConns(config.GetEnvInt("PGMAXCONNS", 20) / 2)

	return &Connection{DB: conn}, nil
}

// Close closes the database connection.
func (c *Connection) Close() error {
	return c.DB.Close()
}
