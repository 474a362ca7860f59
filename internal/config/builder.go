package config

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/cmsguard/login-sentinel/internal/domain"
)

// defaultWorkingHours is the fallback schedule when no valid workingHours
// option is configured: five weekdays, 06:00-19:00.
var defaultWorkingHours = WeekSchedule{
	"monday":    {{Start: "06:00", End: "19:00"}},
	"tuesday":   {{Start: "06:00", End: "19:00"}},
	"wednesday": {{Start: "06:00", End: "19:00"}},
	"thursday":  {{Start: "06:00", End: "19:00"}},
	"friday":    {{Start: "06:00", End: "19:00"}},
}

// Builder translates raw extension settings into strongly shaped per-detector
// options, with type coercion and defaulting. The raw mapping is loaded once
// per builder instance and cached after the first successful load; load
// failures are logged and treated as an empty mapping, so every detector
// reads as inactive rather than crashing the pipeline.
type Builder struct {
	source Source
	host   HostSettings
	log    *zap.Logger

	settings map[string]any
	loaded   bool
}

// NewBuilder creates a builder over the given settings source and host
// snapshot.
func NewBuilder(source Source, host HostSettings, log *zap.Logger) *Builder {
	return &Builder{source: source, host: host, log: log}
}

// raw returns the cached settings mapping, loading it on first use.
func (b *Builder) raw() map[string]any {
	if b.loaded {
		return b.settings
	}

	settings, err := b.source.Load()
	if err != nil {
		b.log.Warn("loading extension settings failed, treating as empty", zap.Error(err))
		settings = map[string]any{}
	}
	b.settings = settings
	b.loaded = true
	return b.settings
}

// section returns the sub-mapping for a detector kind, or an empty mapping.
func (b *Builder) section(kind domain.DetectorKind) map[string]any {
	if m, ok := b.raw()[string(kind)].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// IsActive reports whether the detector kind is switched on in the extension
// settings. Absent or malformed values read as inactive.
func (b *Builder) IsActive(kind domain.DetectorKind) bool {
	v, ok := b.section(kind)["active"]
	if !ok {
		return false
	}
	return coerceBool(v)
}

// Build materializes the options for a detector kind. The active flag is
// always stripped; known kinds get their detector-specific shaping and
// defaults, unknown kinds get the stripped raw mapping unmodified.
func (b *Builder) Build(kind domain.DetectorKind) Options {
	section := b.section(kind)

	stripped := make(map[string]any, len(section))
	for k, v := range section {
		if k == "active" {
			continue
		}
		stripped[k] = v
	}

	switch kind {
	case domain.DetectorNewIP:
		return b.buildNewIP(stripped)
	case domain.DetectorLongTimeNoSee:
		return b.buildLongTimeNoSee(stripped)
	case domain.DetectorOutOfOffice:
		return b.buildOutOfOffice(stripped)
	default:
		return Options(stripped)
	}
}

func (b *Builder) buildNewIP(raw map[string]any) Options {
	opts := Options{
		"hashIpAddress":        true,
		"fetchGeolocation":     true,
		"whitelist":            []string{"127.0.0.1"},
		"affectedUsers":        "all",
		"notificationReceiver": string(domain.ReceiverRecipients),
	}
	if v, ok := raw["hashIpAddress"]; ok {
		opts["hashIpAddress"] = coerceBool(v)
	}
	if v, ok := raw["fetchGeolocation"]; ok {
		opts["fetchGeolocation"] = coerceBool(v)
	}
	if v, ok := raw["whitelist"].(string); ok {
		opts["whitelist"] = splitCSV(v)
	}
	if v, ok := raw["affectedUsers"].(string); ok {
		opts["affectedUsers"] = v
	}
	if v, ok := raw["notificationReceiver"].(string); ok {
		opts["notificationReceiver"] = v
	}
	return opts
}

func (b *Builder) buildLongTimeNoSee(raw map[string]any) Options {
	opts := Options{
		"thresholdDays":        365,
		"affectedUsers":        "all",
		"notificationReceiver": string(domain.ReceiverRecipients),
	}
	// Only a fully absent key keeps the default; present non-numeric text
	// coerces to 0 under numeric-string coercion.
	if v, ok := raw["thresholdDays"]; ok {
		opts["thresholdDays"] = coerceInt(v)
	}
	if v, ok := raw["affectedUsers"].(string); ok {
		opts["affectedUsers"] = v
	}
	if v, ok := raw["notificationReceiver"].(string); ok {
		opts["notificationReceiver"] = v
	}
	return opts
}

func (b *Builder) buildOutOfOffice(raw map[string]any) Options {
	timezone := "UTC"
	if b.host.SystemTimezone != "" {
		timezone = b.host.SystemTimezone
	}
	if v, ok := raw["timezone"].(string); ok && v != "" {
		timezone = v
	}

	workingHours := defaultWorkingHours
	if v, ok := raw["workingHours"].(string); ok {
		if parsed, ok := parseWeekSchedule(v); ok {
			workingHours = parsed
		}
	}

	holidays := []string{}
	if v, ok := raw["holidays"].(string); ok {
		holidays = splitCSV(v)
	}

	vacations := []DateRange{}
	if v, ok := raw["vacationPeriods"].(string); ok {
		for _, token := range splitCSV(v) {
			start, end, found := strings.Cut(token, ":")
			if !found {
				continue
			}
			vacations = append(vacations, DateRange{
				Start: strings.TrimSpace(start),
				End:   strings.TrimSpace(end),
			})
		}
	}

	opts := Options{
		"timezone":             timezone,
		"workingHours":         workingHours,
		"holidays":             holidays,
		"vacationPeriods":      vacations,
		"affectedUsers":        "all",
		"notificationReceiver": string(domain.ReceiverRecipients),
	}
	if v, ok := raw["affectedUsers"].(string); ok {
		opts["affectedUsers"] = v
	}
	if v, ok := raw["notificationReceiver"].(string); ok {
		opts["notificationReceiver"] = v
	}
	return opts
}

// parseWeekSchedule decodes a JSON-encoded workingHours object. Each day maps
// to either a single ["HH:MM","HH:MM"] pair or a list of such pairs for split
// shifts. Returns false for invalid JSON or an unrecognized shape.
func parseWeekSchedule(s string) (WeekSchedule, bool) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return nil, false
	}

	schedule := make(WeekSchedule, len(decoded))
	for day, value := range decoded {
		entries, ok := value.([]any)
		if !ok || len(entries) == 0 {
			return nil, false
		}

		var ranges []TimeRange
		if _, single := entries[0].(string); single {
			r, ok := pairToRange(entries)
			if !ok {
				return nil, false
			}
			ranges = []TimeRange{r}
		} else {
			for _, e := range entries {
				pair, ok := e.([]any)
				if !ok {
					return nil, false
				}
				r, ok := pairToRange(pair)
				if !ok {
					return nil, false
				}
				ranges = append(ranges, r)
			}
		}
		schedule[strings.ToLower(day)] = ranges
	}
	return schedule, true
}

func pairToRange(pair []any) (TimeRange, bool) {
	if len(pair) != 2 {
		return TimeRange{}, false
	}
	start, ok1 := pair[0].(string)
	end, ok2 := pair[1].(string)
	if !ok1 || !ok2 {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// NotificationConfig builds the event-global notification configuration:
// notificationRecipients from the extension settings, falling back to the
// host's global backend-warning address, falling back to empty.
func (b *Builder) NotificationConfig() domain.NotificationConfig {
	recipient := ""
	if v, ok := b.raw()["notificationRecipients"].(string); ok {
		recipient = v
	}
	if recipient == "" {
		recipient = b.host.WarningEmail
	}
	return domain.NotificationConfig{
		Recipient: recipient,
		Receiver:  domain.ReceiverRecipients,
	}
}
