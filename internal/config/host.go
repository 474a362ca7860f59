package config

// HostSettings is a snapshot of the host platform globals this core consumes
// as fallback defaults. It is built once by the caller and threaded
// explicitly through every component; nothing here is read from ambient
// state.
type HostSettings struct {
	// SystemTimezone is the host's configured timezone, used when the
	// out-of-office detector has no timezone of its own.
	SystemTimezone string

	// MaintainerIDs are the user ids the host considers system maintainers,
	// consumed by the "maintainers" affected-users gate.
	MaintainerIDs []int64

	// WarningEmail is the host's global backend-warning address, the final
	// fallback for notification recipients.
	WarningEmail string
}

// IsMaintainer reports whether the given user id is in the host's configured
// maintainer set.
func (h HostSettings) IsMaintainer(userID int64) bool {
	for _, id := range h.MaintainerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
