package ports

import (
	"context"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// GeoLocator resolves a raw public IP address to a coarse location via an
// external lookup service. Lookups are best-effort: callers treat any error
// as "location unknown" and never let it affect detection outcomes.
type GeoLocator interface {
	Lookup(ctx context.Context, address string) (*domain.Location, error)
}
