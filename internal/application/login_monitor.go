package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
	"github.com/cmsguard/login-sentinel/internal/domain/detection"
	"github.com/cmsguard/login-sentinel/internal/ports"
)

// LoginMonitor orchestrates the detect-then-notify pipeline for one login
// event. Detectors run in registration order and the first positive match
// wins: remaining detectors, active or not, never run for that event. The
// whole pipeline is synchronous and request-scoped; there is no retry and no
// background work.
type LoginMonitor struct {
	builder   *config.Builder
	host      config.HostSettings
	detectors []detection.Detector
	notifiers []ports.Notifier
	log       *zap.Logger
}

// NewLoginMonitor creates a monitor over the given detector and notifier
// registrations. Order of the detectors slice is the evaluation order.
func NewLoginMonitor(
	builder *config.Builder,
	host config.HostSettings,
	detectors []detection.Detector,
	notifiers []ports.Notifier,
	log *zap.Logger,
) *LoginMonitor {
	return &LoginMonitor{
		builder:   builder,
		host:      host,
		detectors: detectors,
		notifiers: notifiers,
		log:       log,
	}
}

// HandleLogin runs the pipeline for one successful backend login. Events
// without an authenticated backend user are ignored. A detector error aborts
// the pipeline for this event and propagates; notifier errors are logged and
// do not.
func (m *LoginMonitor) HandleLogin(ctx context.Context, event domain.LoginEvent) error {
	if event.User == nil {
		return nil
	}

	notifyCfg := m.builder.NotificationConfig()

	var fired *domain.DetectionResult
	var firedOpts config.Options

	for _, det := range m.detectors {
		kind := det.Kind()
		if !m.builder.IsActive(kind) {
			continue
		}

		opts := m.builder.Build(kind)
		if !detection.ShouldDetectForUser(event.User, opts, m.host) {
			continue
		}

		res, err := det.Detect(ctx, event.User, event.Request, opts)
		if err != nil {
			return fmt.Errorf("detector %s: %w", kind, err)
		}
		if res.Matched {
			m.log.Info("suspicious login detected",
				zap.String("detector", string(kind)),
				zap.Int64("user_id", event.User.ID))
			fired = &res
			firedOpts = opts
			break
		}
	}

	if fired == nil {
		return nil
	}

	// The firing detector's own notificationReceiver overrides the global
	// notification configuration for this dispatch.
	notifyCfg.Receiver = domain.NotificationReceiver(
		firedOpts.String("notificationReceiver", string(domain.ReceiverRecipients)))

	notification := domain.Notification{
		User:    event.User,
		Request: event.Request,
		Kind:    fired.Kind,
		Config:  notifyCfg,
		Data:    fired.Data,
	}

	for _, notifier := range m.notifiers {
		if err := notifier.Notify(ctx, notification); err != nil {
			m.log.Error("notifier failed",
				zap.String("detector", string(fired.Kind)),
				zap.Int64("user_id", event.User.ID),
				zap.Error(err))
		}
	}

	return nil
}
