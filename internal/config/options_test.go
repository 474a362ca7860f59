package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{1, true},
		{0, false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
		{"off", false},
		{"no", false},
		{"", false},
		{"  TRUE  ", true},
		{3.14, true},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceBool(tt.in), "coerceBool(%#v)", tt.in)
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{42, 42},
		{int64(7), 7},
		{12.9, 12},
		{"30", 30},
		{" 30 ", 30},
		{"-5", -5},
		{"+8", 8},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{true, 1},
		{false, 0},
		{nil, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, coerceInt(tt.in), "coerceInt(%#v)", tt.in)
	}
}

// Time comparison is lexicographic on zero-padded "HH:MM" strings, inclusive
// at both boundaries. This must not become a parsed-minutes comparison.
func TestTimeRangeContains(t *testing.T) {
	r := TimeRange{Start: "09:00", End: "17:00"}

	assert.True(t, r.Contains("09:00"), "start boundary is inside")
	assert.True(t, r.Contains("17:00"), "end boundary is inside")
	assert.True(t, r.Contains("12:30"))
	assert.False(t, r.Contains("08:59"))
	assert.False(t, r.Contains("17:01"))
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: "2026-07-01", End: "2026-07-21"}

	assert.True(t, r.Contains("2026-07-01"))
	assert.True(t, r.Contains("2026-07-21"))
	assert.True(t, r.Contains("2026-07-10"))
	assert.False(t, r.Contains("2026-06-30"))
	assert.False(t, r.Contains("2026-07-22"))
}
