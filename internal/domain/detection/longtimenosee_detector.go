package detection

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
	"github.com/cmsguard/login-sentinel/internal/ports"
)

const secondsPerDay = 86400

// LongTimeNoSeeDetector fires when a user logs in after a long absence.
//
// The stored timestamp advances to "now" on every invocation regardless of
// the outcome, so the window is "time since last check", not time since last
// login: two logins in quick succession reset the clock even when the first
// one fired.
type LongTimeNoSeeDetector struct {
	checks ports.LoginCheckStore
	log    *zap.Logger
	now    func() time.Time
}

// NewLongTimeNoSeeDetector creates the detector over the login-check gateway.
func NewLongTimeNoSeeDetector(checks ports.LoginCheckStore, log *zap.Logger) *LongTimeNoSeeDetector {
	return &LongTimeNoSeeDetector{
		checks: checks,
		log:    log,
		now:    time.Now,
	}
}

// Kind returns the detector's identity.
func (d *LongTimeNoSeeDetector) Kind() domain.DetectorKind {
	return domain.DetectorLongTimeNoSee
}

// Detect matches on the first-ever check for a user, or when the stored
// timestamp is at least thresholdDays old (boundary inclusive). When a
// previous timestamp exists, daysSinceLastLogin is exposed in the result
// data; otherwise it stays unset.
func (d *LongTimeNoSeeDetector) Detect(ctx context.Context, user *domain.User, req *domain.RequestContext, opts config.Options) (domain.DetectionResult, error) {
	res := domain.DetectionResult{Kind: domain.DetectorLongTimeNoSee}

	lastCheck, err := d.checks.LastCheck(ctx, user.ID)
	if err != nil {
		return res, fmt.Errorf("reading last login check for user %d: %w", user.ID, err)
	}

	now := d.now()
	threshold := now.Add(-time.Duration(opts.Int("thresholdDays", 365)) * secondsPerDay * time.Second)

	if lastCheck != nil {
		res.Data = map[string]any{
			"daysSinceLastLogin": int(now.Sub(*lastCheck) / (secondsPerDay * time.Second)),
		}
	}

	// The timestamp upsert happens on every call, whatever the outcome.
	if err := d.checks.Touch(ctx, user.ID, now); err != nil {
		return res, fmt.Errorf("updating login check for user %d: %w", user.ID, err)
	}

	res.Matched = lastCheck == nil || !lastCheck.After(threshold)
	return res, nil
}
