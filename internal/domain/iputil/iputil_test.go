package iputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWhitelisted_Literals(t *testing.T) {
	tests := []struct {
		name    string
		address string
		entries []string
		want    bool
	}{
		{
			name:    "exact literal match",
			address: "192.168.1.10",
			entries: []string{"192.168.1.10"},
			want:    true,
		},
		{
			name:    "literal match after trimming",
			address: "192.168.1.10",
			entries: []string{"  192.168.1.10  "},
			want:    true,
		},
		{
			name:    "literal mismatch",
			address: "192.168.1.10",
			entries: []string{"192.168.1.11"},
			want:    false,
		},
		{
			name:    "first matching entry wins among many",
			address: "10.0.0.1",
			entries: []string{"8.8.8.8", "10.0.0.1", "definitely-not-an-ip"},
			want:    true,
		},
		{
			name:    "blank entries are skipped",
			address: "10.0.0.1",
			entries: []string{"", "   ", "10.0.0.1"},
			want:    true,
		},
		{
			name:    "empty address",
			address: "",
			entries: []string{"10.0.0.1"},
			want:    false,
		},
		{
			name:    "empty entry set",
			address: "10.0.0.1",
			entries: nil,
			want:    false,
		},
		{
			name:    "syntactically invalid address",
			address: "not-an-ip",
			entries: []string{"not-an-ip"},
			want:    false,
		},
		{
			name:    "IPv6 literal match",
			address: "2001:db8::1",
			entries: []string{"2001:db8::1"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWhitelisted(tt.address, tt.entries))
		})
	}
}

func TestIsWhitelisted_CIDR(t *testing.T) {
	tests := []struct {
		name    string
		address string
		entry   string
		want    bool
	}{
		{"inside /24", "192.168.1.200", "192.168.1.0/24", true},
		{"outside /24", "192.168.2.1", "192.168.1.0/24", false},
		{"boundary byte inside /20", "10.0.15.255", "10.0.0.0/20", true},
		{"boundary byte outside /20", "10.0.16.0", "10.0.0.0/20", false},
		{"non-aligned prefix inside /25", "10.0.0.127", "10.0.0.0/25", true},
		{"non-aligned prefix outside /25", "10.0.0.128", "10.0.0.0/25", false},
		{"/0 matches anything v4", "203.0.113.7", "0.0.0.0/0", true},
		{"/32 exact host", "203.0.113.7", "203.0.113.7/32", true},
		{"/32 different host", "203.0.113.8", "203.0.113.7/32", false},
		{"IPv6 inside /64", "2001:db8:0:1:ffff::1", "2001:db8:0:1::/64", true},
		{"IPv6 outside /64", "2001:db8:0:2::1", "2001:db8:0:1::/64", false},
		{"IPv6 /0 matches anything v6", "2001:db8::1", "::/0", true},
		{"IPv6 /128 exact", "2001:db8::1", "2001:db8::1/128", true},

		// Address family mismatches never match, regardless of bit content.
		{"v4 address against v6 subnet", "127.0.0.1", "::/0", false},
		{"v6 address against v4 subnet", "::1", "127.0.0.0/8", false},

		// Malformed entries never match.
		{"missing slash is not CIDR", "10.0.0.1", "10.0.0.0-24", false},
		{"empty mask text", "10.0.0.1", "10.0.0.0/", false},
		{"non-numeric mask text", "10.0.0.1", "10.0.0.0/abc", false},
		{"mask out of range v4", "10.0.0.1", "10.0.0.0/33", false},
		{"mask out of range v6", "2001:db8::1", "2001:db8::/129", false},
		{"negative mask", "10.0.0.1", "10.0.0.0/-1", false},
		{"invalid subnet", "10.0.0.1", "999.0.0.0/8", false},
		{"mask zero literal is valid", "10.0.0.1", "0.0.0.0/0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWhitelisted(tt.address, []string{tt.entry}))
		})
	}
}

// The first p bits decide membership: flipping any bit inside the prefix must
// break the match, flipping any bit outside must not.
func TestIsWhitelisted_PrefixBitAgreement(t *testing.T) {
	assert.True(t, IsWhitelisted("172.16.5.1", []string{"172.16.0.0/12"}))
	// 172.16.0.0/12 covers 172.16.0.0 - 172.31.255.255
	assert.True(t, IsWhitelisted("172.31.255.255", []string{"172.16.0.0/12"}))
	assert.False(t, IsWhitelisted("172.32.0.0", []string{"172.16.0.0/12"}))
	assert.False(t, IsWhitelisted("172.15.255.255", []string{"172.16.0.0/12"}))
}

func TestIsPublicAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"8.8.8.8", true},
		{"203.0.113.7", true},
		{"2001:4860:4860::8888", true},
		{"127.0.0.1", false},
		{"10.1.2.3", false},
		{"172.16.0.1", false},
		{"192.168.0.1", false},
		{"169.254.1.1", false},
		{"224.0.0.1", false},
		{"0.0.0.0", false},
		{"::1", false},
		{"fe80::1", false},
		{"fc00::1", false},
		{"", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublicAddress(tt.address))
		})
	}
}
