package ports

import (
	"context"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// Notifier delivers a human-readable alert once a detector fires. The
// orchestrator invokes every registered notifier with the same notification;
// delivery is side-effect only.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}
