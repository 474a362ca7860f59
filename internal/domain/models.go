package domain

import (
	"time"

	"github.com/google/uuid"
)

// DetectorKind identifies a detector variant. The kind doubles as the
// configuration prefix in the raw extension settings and as the template key
// for notifications, so the values are part of the external contract.
type DetectorKind string

const (
	DetectorNewIP         DetectorKind = "newIp"
	DetectorLongTimeNoSee DetectorKind = "longTimeNoSee"
	DetectorOutOfOffice   DetectorKind = "outOfOffice"
)

// User is the authenticated backend user as supplied by the host per login
// event. This core never mutates it.
type User struct {
	ID       int64  `json:"id"`
	Admin    bool   `json:"admin"`
	Email    string `json:"email"`
	Language string `json:"language"`
}

// RequestContext carries the originating request details the host attaches to
// a login event. RemoteAddr is the caller's raw network address.
type RequestContext struct {
	RemoteAddr string `json:"remote_addr"`
}

// LoginEvent is the trigger delivered by the host after a successful backend
// login. Request may be nil when the host cannot attach one (CLI logins).
type LoginEvent struct {
	User    *User
	Request *RequestContext
}

// DetectionResult is the tagged outcome of a single detector run. The
// orchestrator dispatches on Kind and Matched alone and never inspects
// concrete detector types.
type DetectionResult struct {
	Kind    DetectorKind
	Matched bool

	// Data holds detector-specific context for notification templates
	// (geolocation, elapsed days, violation details). Populated only when
	// the detector actually ran; not persisted.
	Data map[string]any
}

// NotificationReceiver selects who gets notified when a detector fires.
type NotificationReceiver string

const (
	ReceiverRecipients NotificationReceiver = "recipients"
	ReceiverUser       NotificationReceiver = "user"
	ReceiverBoth       NotificationReceiver = "both"
)

// NotificationConfig is built once per login event from the extension
// settings, then overridden per dispatch with the firing detector's own
// notificationReceiver option.
type NotificationConfig struct {
	// Recipient is a raw comma-separated address string, possibly empty.
	Recipient string
	Receiver  NotificationReceiver
}

// IPLogEntry records that an address key has been seen for a user. The key is
// either the raw address or its SHA-256 hex digest, depending on detector
// configuration. Existence of a row is the signal; rows are never updated.
type IPLogEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is the result of a geolocation lookup for a public address.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Notification is what the orchestrator hands to every registered notifier
// once a detector fires.
type Notification struct {
	User    *User
	Request *RequestContext
	Kind    DetectorKind
	Config  NotificationConfig
	Data    map[string]any
}

// MailMessage is one outbound message handed to the mail transport. One
// message is built per resolved recipient.
type MailMessage struct {
	ID       uuid.UUID
	To       string
	Subject  string
	Template string
	Language string

	// Variables is the template context: the user record, the fixed
	// headline, the per-recipient isUserNotification flag, and the firing
	// detector's additional data.
	Variables map[string]any
}
