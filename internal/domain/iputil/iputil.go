// Package iputil provides pure address-matching helpers used by the
// detectors. No I/O, no state.
package iputil

import (
	"net"
	"strconv"
	"strings"
)

// IsWhitelisted reports whether address matches any entry in the whitelist.
// An entry is either a literal address (exact string equality) or CIDR
// notation "subnet/prefixLength". Entries are trimmed and blank entries are
// skipped; the first matching entry wins.
//
// Returns false for an empty address, an empty entry set, or an address that
// fails IP syntax validation.
func IsWhitelisted(address string, entries []string) bool {
	if address == "" || len(entries) == 0 {
		return false
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if entry == address {
			return true
		}
		if cidrMatch(ip, entry) {
			return true
		}
	}

	return false
}

// cidrMatch reports whether ip falls inside the range described by entry.
// Malformed entries never match: missing "/", empty or non-numeric mask text,
// invalid subnet, a prefix length outside [0, bitsize], or an address family
// differing from the subnet's.
func cidrMatch(ip net.IP, entry string) bool {
	slash := strings.Index(entry, "/")
	if slash < 0 {
		return false
	}

	subnet, maskText := entry[:slash], entry[slash+1:]
	if maskText == "" {
		return false
	}

	prefixLen, err := strconv.Atoi(maskText)
	if err != nil {
		return false
	}

	subnetIP := net.ParseIP(subnet)
	if subnetIP == nil {
		return false
	}

	// Normalize both sides to the same fixed-width representation. A v4
	// address never matches a v6 subnet and vice versa, regardless of bit
	// content.
	var addrBytes, subnetBytes []byte
	var bitSize int
	switch addr4, sub4 := ip.To4(), subnetIP.To4(); {
	case addr4 != nil && sub4 != nil:
		addrBytes, subnetBytes, bitSize = addr4, sub4, 32
	case addr4 == nil && sub4 == nil:
		addrBytes, subnetBytes, bitSize = ip.To16(), subnetIP.To16(), 128
	default:
		return false
	}

	if prefixLen < 0 || prefixLen > bitSize {
		return false
	}

	// Compare whole bytes covered by the prefix, then the remaining bits of
	// the boundary byte.
	wholeBytes, remainder := prefixLen/8, prefixLen%8
	for i := 0; i < wholeBytes; i++ {
		if addrBytes[i] != subnetBytes[i] {
			return false
		}
	}
	if remainder == 0 {
		return true
	}

	mask := byte(0xff << (8 - remainder))
	return addrBytes[wholeBytes]&mask == subnetBytes[wholeBytes]&mask
}

// IsPublicAddress reports whether address is a syntactically valid IP outside
// the private, loopback, link-local, multicast and unspecified ranges.
// Geolocation lookups are only attempted for public addresses.
func IsPublicAddress(address string) bool {
	ip := net.ParseIP(address)
	if ip == nil {
		return false
	}
	return !ip.IsLoopback() &&
		!ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsMulticast() &&
		!ip.IsUnspecified()
}
