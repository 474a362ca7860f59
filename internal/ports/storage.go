package ports

import (
	"context"
	"time"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// IPLogStore is the gateway to the IP-sighting log: existence of a
// (user, address key) row means that key has been seen for that user before.
type IPLogStore interface {
	// Seen reports whether an entry exists for the user and address key.
	Seen(ctx context.Context, userID int64, ipKey string) (bool, error)

	// Record inserts a sighting. Recording an already-known pair is a no-op,
	// not an error.
	Record(ctx context.Context, entry domain.IPLogEntry) error
}

// LoginCheckStore is the gateway to the per-user last-login-check timestamp.
type LoginCheckStore interface {
	// LastCheck returns the stored timestamp for the user, or nil if the
	// user has never been checked.
	LastCheck(ctx context.Context, userID int64) (*time.Time, error)

	// Touch sets the user's last-check timestamp to the given instant,
	// inserting or updating atomically.
	Touch(ctx context.Context, userID int64, at time.Time) error
}
