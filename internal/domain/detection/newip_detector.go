package detection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
	"github.com/cmsguard/login-sentinel/internal/domain/iputil"
	"github.com/cmsguard/login-sentinel/internal/ports"
)

// NewIPDetector fires when a user logs in from an address never seen for
// that account before.
//
// The whitelist short-circuit compares the raw address against the trimmed
// whitelist entries by exact string equality. CIDR entries are deliberately
// not expanded here; operators who configured ranges have always had them
// ignored by this check, and silently honoring them would widen the
// whitelist. iputil.IsWhitelisted remains available for callers that want
// range semantics.
type NewIPDetector struct {
	ipLog ports.IPLogStore
	geo   ports.GeoLocator
	log   *zap.Logger
	now   func() time.Time
}

// NewNewIPDetector creates the detector over the IP-sighting gateway and the
// geolocation service.
func NewNewIPDetector(ipLog ports.IPLogStore, geo ports.GeoLocator, log *zap.Logger) *NewIPDetector {
	return &NewIPDetector{
		ipLog: ipLog,
		geo:   geo,
		log:   log,
		now:   time.Now,
	}
}

// Kind returns the detector's identity.
func (d *NewIPDetector) Kind() domain.DetectorKind {
	return domain.DetectorNewIP
}

// Detect checks the login address against the sighting log. A whitelisted
// address returns unmatched without touching the store at all; a known
// address returns unmatched without writing; an unknown address records a
// sighting (keyed by the SHA-256 digest unless hashing is disabled) and
// matches, with locationData carrying the lookup result or nil.
func (d *NewIPDetector) Detect(ctx context.Context, user *domain.User, req *domain.RequestContext, opts config.Options) (domain.DetectionResult, error) {
	res := domain.DetectionResult{Kind: domain.DetectorNewIP}

	if req == nil || req.RemoteAddr == "" {
		return res, nil
	}
	address := req.RemoteAddr

	for _, entry := range opts.StringSlice("whitelist") {
		if strings.TrimSpace(entry) == address {
			return res, nil
		}
	}

	key := address
	if opts.Bool("hashIpAddress", true) {
		sum := sha256.Sum256([]byte(address))
		key = hex.EncodeToString(sum[:])
	}

	seen, err := d.ipLog.Seen(ctx, user.ID, key)
	if err != nil {
		return res, fmt.Errorf("querying ip log for user %d: %w", user.ID, err)
	}
	if seen {
		return res, nil
	}

	res.Data = map[string]any{"locationData": d.lookupLocation(ctx, address, opts)}

	entry := domain.IPLogEntry{
		ID:        uuid.New(),
		UserID:    user.ID,
		IPAddress: key,
		CreatedAt: d.now(),
	}
	if err := d.ipLog.Record(ctx, entry); err != nil {
		return res, fmt.Errorf("recording ip sighting for user %d: %w", user.ID, err)
	}

	res.Matched = true
	return res, nil
}

// lookupLocation fetches geolocation for the raw address when enabled and the
// address is public. Failures are logged and surface only as a nil location.
func (d *NewIPDetector) lookupLocation(ctx context.Context, address string, opts config.Options) *domain.Location {
	if !opts.Bool("fetchGeolocation", true) || !iputil.IsPublicAddress(address) {
		return nil
	}

	loc, err := d.geo.Lookup(ctx, address)
	if err != nil {
		d.log.Warn("geolocation lookup failed",
			zap.String("address", address),
			zap.Error(err))
		return nil
	}
	return loc
}
