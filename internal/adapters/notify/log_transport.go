package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// LogTransport implements ports.MailTransport by logging messages instead of
// sending them. Used by the demo command; in a real deployment the host's
// mail service stands behind the port.
type LogTransport struct {
	log *zap.Logger
}

// NewLogTransport creates the transport.
func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log}
}

// Send logs the message and reports success.
func (t *LogTransport) Send(ctx context.Context, msg domain.MailMessage) error {
	t.log.Info("outbound warning mail",
		zap.String("message_id", msg.ID.String()),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
		zap.String("language", msg.Language))
	return nil
}
