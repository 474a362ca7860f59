package config

import (
	"strings"
)

// TimeRange is a single working-hours window, both bounds inclusive. Start
// and End are zero-padded 24-hour "HH:MM" strings and are compared
// lexicographically, never as parsed durations.
type TimeRange struct {
	Start string
	End   string
}

// Contains reports whether the given "HH:MM" clock value falls inside the
// range, inclusive at both boundaries.
func (r TimeRange) Contains(clock string) bool {
	return r.Start <= clock && clock <= r.End
}

// DateRange is an inclusive "YYYY-MM-DD" date interval.
type DateRange struct {
	Start string
	End   string
}

// Contains reports whether the given "YYYY-MM-DD" date falls inside the
// range, inclusive at both boundaries.
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

// WeekSchedule maps lowercase English weekday names to their working-hours
// windows. A day may carry several windows (split shifts). A missing day
// means no working hours on that day.
type WeekSchedule map[string][]TimeRange

// Options is an immutable per-detector mapping of option name to typed
// value, materialized fresh per detection run by the Builder. The activity
// flag is never part of it; activity gating is a separate decision from
// behavior configuration.
type Options map[string]any

// Bool returns the option as a boolean, or def when the key is absent.
func (o Options) Bool(key string, def bool) bool {
	v, ok := o[key]
	if !ok {
		return def
	}
	return coerceBool(v)
}

// Int returns the option as an integer, or def when the key is absent.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	return coerceInt(v)
}

// String returns the option as a string, or def when the key is absent or
// not string-typed.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// StringSlice returns the option as a string slice, or nil when absent.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key].([]string); ok {
		return v
	}
	return nil
}

// WorkingHours returns the option as a WeekSchedule, or nil when absent.
func (o Options) WorkingHours(key string) WeekSchedule {
	if v, ok := o[key].(WeekSchedule); ok {
		return v
	}
	return nil
}

// DateRanges returns the option as a DateRange slice, or nil when absent.
func (o Options) DateRanges(key string) []DateRange {
	if v, ok := o[key].([]DateRange); ok {
		return v
	}
	return nil
}

// coerceBool applies loose truthiness to raw settings values: booleans pass
// through, numbers are true when non-zero, and strings are true unless
// empty, "0", "false", "off" or "no".
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "0", "false", "off", "no":
			return false
		default:
			return true
		}
	default:
		return false
	}
}

// coerceInt applies numeric-string coercion to raw settings values: the
// leading numeric prefix of a string is its value, so non-numeric text
// coerces to 0, not to any default.
func coerceInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return leadingInt(strings.TrimSpace(t))
	default:
		return 0
	}
}

// leadingInt parses an optional sign followed by leading digits; anything
// after the digits is ignored, and no digits at all yields 0.
func leadingInt(s string) int {
	i, neg := 0, false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	digits := false
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits = true
	}
	if !digits {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// splitCSV splits a comma-separated string into trimmed entries, dropping
// blanks.
func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
