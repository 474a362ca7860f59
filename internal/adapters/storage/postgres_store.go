package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// PostgresStore implements both persistence gateways (ports.IPLogStore and
// ports.LoginCheckStore) on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Pool sizing for a request-scoped pipeline with two small tables.
	// In production, tune based on workload.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates the tables if they don't exist.
// In production, use proper migration tools.
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- ============================================================================
	-- IP_LOG TABLE
	-- ============================================================================
	-- One row per (user, address key) sighting. Existence of a row is the
	-- whole signal; rows are never updated or deleted by this core.
	--
	-- ip_address holds either the raw address or its SHA-256 hex digest,
	-- depending on the hashIpAddress detector option. 64 chars covers both
	-- the digest and the longest textual IPv6 form.
	CREATE TABLE IF NOT EXISTS ip_log (
		id UUID PRIMARY KEY,
		user_id BIGINT NOT NULL,
		ip_address VARCHAR(64) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(user_id, ip_address)
	);

	-- ============================================================================
	-- LOGIN_CHECK TABLE
	-- ============================================================================
	-- Rolling last-check timestamp per user. Advanced to "now" on every
	-- long-time-no-see evaluation regardless of outcome, via a single atomic
	-- upsert so concurrent logins by the same user cannot race.
	CREATE TABLE IF NOT EXISTS login_check (
		user_id BIGINT PRIMARY KEY,
		last_check TIMESTAMP NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Seen reports whether an address key has been recorded for the user.
func (s *PostgresStore) Seen(ctx context.Context, userID int64, ipKey string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM ip_log WHERE user_id = $1 AND ip_address = $2
		)
	`
	var seen bool
	if err := s.db.QueryRowContext(ctx, query, userID, ipKey).Scan(&seen); err != nil {
		return false, err
	}
	return seen, nil
}

// Record inserts a sighting. Re-recording a known pair is a no-op.
func (s *PostgresStore) Record(ctx context.Context, entry domain.IPLogEntry) error {
	query := `
		INSERT INTO ip_log (id, user_id, ip_address, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, ip_address) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.IPAddress, entry.CreatedAt,
	)
	return err
}

// LastCheck returns the stored timestamp for the user, or nil if the user has
// never been checked.
func (s *PostgresStore) LastCheck(ctx context.Context, userID int64) (*time.Time, error) {
	query := `
		SELECT last_check FROM login_check WHERE user_id = $1
	`
	var last time.Time
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&last)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// Touch upserts the user's last-check timestamp in a single statement.
func (s *PostgresStore) Touch(ctx context.Context, userID int64, at time.Time) error {
	query := `
		INSERT INTO login_check (user_id, last_check)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET last_check = EXCLUDED.last_check
	`
	_, err := s.db.ExecContext(ctx, query, userID, at)
	return err
}
