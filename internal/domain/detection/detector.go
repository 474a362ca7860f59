package detection

import (
	"context"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
)

// Detector is the capability contract implemented by all detector variants.
//
// Each detector inspects one login event and returns a tagged result: the
// orchestrator dispatches on the result's Kind and Matched fields and never
// needs to know concrete detector types. Detect may have persistence side
// effects regardless of the boolean outcome; persistence errors are hard
// failures and must be returned, while lookups against best-effort external
// services (geolocation) are swallowed and only affect the result's Data.
type Detector interface {
	// Kind identifies the detector and its configuration prefix.
	Kind() domain.DetectorKind

	// Detect runs the heuristic for one login. The options come from the
	// configuration builder and never include the activity flag.
	Detect(ctx context.Context, user *domain.User, req *domain.RequestContext, opts config.Options) (domain.DetectionResult, error)
}

// ShouldDetectForUser is the affected-users gate, applied by the orchestrator
// before any Detect call. The affectedUsers option limits which accounts a
// detector considers: "admins" matches only administrative users,
// "maintainers" matches the host's configured maintainer ids, and anything
// else (including the "all" default) matches unconditionally.
func ShouldDetectForUser(user *domain.User, opts config.Options, host config.HostSettings) bool {
	switch opts.String("affectedUsers", "all") {
	case "admins":
		return user.Admin
	case "maintainers":
		return host.IsMaintainer(user.ID)
	default:
		return true
	}
}
