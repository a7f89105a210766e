package repository

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing handle
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database is reachable
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// listingColumns selects a listing joined with its seller's profile. Seller
// columns are aliased so sqlx scans them into Listing.Seller.
const listingColumns = `
		l.id, l.farmer_id, l.name, l.description, l.category, l.price, l.unit,
		l.quantity_available, l.image_url, l.is_active, l.created_at, l.updated_at,
		p.id AS "seller.profile_id",
		p.full_name AS "seller.display_name",
		p.location AS "seller.location",
		p.phone AS "seller.phone",
		p.is_available AS "seller.is_available"`

const listingFrom = `
	FROM listings l
	JOIN profiles p ON p.user_id = l.farmer_id`

func listingQuery(where, orderBy string) string {
	query := "SELECT" + listingColumns + listingFrom
	if where != "" {
		query += "\n\tWHERE " + where
	}
	if orderBy != "" {
		query += "\n\tORDER BY " + orderBy
	}
	return query
}
