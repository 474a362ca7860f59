package detection

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
)

// Violation types reported by the out-of-office detector. Checks are ordered
// and mutually exclusive: holiday beats vacation beats working hours.
const (
	ViolationHoliday      = "holiday"
	ViolationVacation     = "vacation"
	ViolationOutsideHours = "outside_hours"
)

// OutOfOfficeDetector fires when a login happens on a holiday, during a
// configured vacation period, or outside the configured working hours,
// evaluated against "now" in the configured timezone. It holds no state and
// performs no I/O.
type OutOfOfficeDetector struct {
	log *zap.Logger
	now func() time.Time
}

// NewOutOfOfficeDetector creates the detector.
func NewOutOfOfficeDetector(log *zap.Logger) *OutOfOfficeDetector {
	return &OutOfOfficeDetector{
		log: log,
		now: time.Now,
	}
}

// Kind returns the detector's identity.
func (d *OutOfOfficeDetector) Kind() domain.DetectorKind {
	return domain.DetectorOutOfOffice
}

// Detect evaluates the ordered checks. An empty workingHours schedule means
// no restriction at all (open office); a weekday missing from a non-empty
// schedule counts as outside hours.
func (d *OutOfOfficeDetector) Detect(ctx context.Context, user *domain.User, req *domain.RequestContext, opts config.Options) (domain.DetectionResult, error) {
	res := domain.DetectionResult{Kind: domain.DetectorOutOfOffice}

	zone, err := time.LoadLocation(opts.String("timezone", "UTC"))
	if err != nil {
		d.log.Warn("invalid timezone configured, falling back to UTC",
			zap.String("timezone", opts.String("timezone", "")),
			zap.Error(err))
		zone = time.UTC
	}

	now := d.now().In(zone)
	date := now.Format("2006-01-02")
	clock := now.Format("15:04")
	dayOfWeek := strings.ToLower(now.Weekday().String())

	details := func(violation string) map[string]any {
		return map[string]any{
			"type":      violation,
			"date":      date,
			"time":      clock,
			"dayOfWeek": dayOfWeek,
		}
	}

	for _, holiday := range opts.StringSlice("holidays") {
		if holiday == date {
			res.Matched = true
			res.Data = map[string]any{"violationDetails": details(ViolationHoliday)}
			return res, nil
		}
	}

	for _, period := range opts.DateRanges("vacationPeriods") {
		if period.Contains(date) {
			res.Matched = true
			res.Data = map[string]any{"violationDetails": details(ViolationVacation)}
			return res, nil
		}
	}

	schedule := opts.WorkingHours("workingHours")
	if len(schedule) == 0 {
		return res, nil
	}

	for _, window := range schedule[dayOfWeek] {
		if window.Contains(clock) {
			return res, nil
		}
	}

	violation := details(ViolationOutsideHours)
	violation["workingHours"] = schedule[dayOfWeek]
	res.Matched = true
	res.Data = map[string]any{"violationDetails": violation}
	return res, nil
}
