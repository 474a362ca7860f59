package notify

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/config"
	"github.com/cmsguard/login-sentinel/internal/domain"
	"github.com/cmsguard/login-sentinel/internal/ports"
)

// Subject prefixes keyed on the administrative-privilege flag.
const (
	adminSubjectPrefix = "[AdminLoginWarning]"
	userSubjectPrefix  = "[LoginWarning]"
)

// headline is the fixed alert headline carried by every warning message.
const headline = "Suspicious backend login detected"

// EmailNotifier implements ports.Notifier by sending one message per
// resolved recipient through the mail transport. Per-recipient failures are
// logged and never abort delivery to the remaining recipients.
type EmailNotifier struct {
	transport ports.MailTransport
	host      config.HostSettings
	log       *zap.Logger
}

// NewEmailNotifier creates the notifier over the given transport.
func NewEmailNotifier(transport ports.MailTransport, host config.HostSettings, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		transport: transport,
		host:      host,
		log:       log,
	}
}

// Notify resolves the recipient list from the merged notification
// configuration and sends one message per recipient. An empty resolved list
// is not an error; it is logged and skipped.
func (n *EmailNotifier) Notify(ctx context.Context, note domain.Notification) error {
	if note.User == nil {
		return nil
	}

	recipients := n.resolveRecipients(note)
	if len(recipients) == 0 {
		n.log.Info("no notification recipients resolved, skipping warning mail",
			zap.String("detector", string(note.Kind)),
			zap.Int64("user_id", note.User.ID))
		return nil
	}

	userEmail := strings.TrimSpace(note.User.Email)

	for _, recipient := range recipients {
		msg := n.buildMessage(note, recipient, recipient == userEmail)
		if err := n.transport.Send(ctx, msg); err != nil {
			n.log.Error("sending login warning failed",
				zap.String("recipient", recipient),
				zap.String("detector", string(note.Kind)),
				zap.Error(err))
			continue
		}
		n.log.Debug("login warning sent",
			zap.String("recipient", recipient),
			zap.String("detector", string(note.Kind)))
	}

	return nil
}

// resolveRecipients expands the notificationReceiver setting into a trimmed,
// deduplicated address list. Unknown receiver values resolve to nothing.
func (n *EmailNotifier) resolveRecipients(note domain.Notification) []string {
	var raw []string

	userEmail := strings.TrimSpace(note.User.Email)

	if note.Config.Receiver == domain.ReceiverRecipients || note.Config.Receiver == domain.ReceiverBoth {
		configured := note.Config.Recipient
		if configured == "" {
			configured = n.host.WarningEmail
		}
		raw = append(raw, strings.Split(configured, ",")...)
	}

	if note.Config.Receiver == domain.ReceiverUser || note.Config.Receiver == domain.ReceiverBoth {
		raw = append(raw, userEmail)
	}

	seen := make(map[string]bool, len(raw))
	recipients := make([]string, 0, len(raw))
	for _, addr := range raw {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[addr] {
			continue
		}
		seen[addr] = true
		recipients = append(recipients, addr)
	}
	return recipients
}

// buildMessage assembles one outbound warning. The template is keyed by the
// firing detector's kind so each heuristic gets its own wording.
func (n *EmailNotifier) buildMessage(note domain.Notification, recipient string, isUserNotification bool) domain.MailMessage {
	prefix := userSubjectPrefix
	if note.User.Admin {
		prefix = adminSubjectPrefix
	}

	variables := map[string]any{
		"user":               note.User,
		"headline":           headline,
		"isUserNotification": isUserNotification,
	}
	for k, v := range note.Data {
		variables[k] = v
	}

	return domain.MailMessage{
		ID:        uuid.New(),
		To:        recipient,
		Subject:   prefix + " " + headline,
		Template:  string(note.Kind),
		Language:  note.User.Language,
		Variables: variables,
	}
}
