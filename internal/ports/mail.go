package ports

import (
	"context"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// MailTransport is the host's message-sending sink. One Send call delivers
// one message to one recipient; transport errors are reported per message so
// the notifier can isolate failures between recipients.
type MailTransport interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}
