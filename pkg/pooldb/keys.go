package pooldb

import (
	"fmt"
	"net/netip"

	"poolstat/pkg/model"
)

// Key prefixes.  Pool records are keyed by the range's first address in
// big-endian form so that iteration order is address order within a
// family.
const (
	PrefixPoolV4 = "P4:"
	PrefixPoolV6 = "P6:"
	PrefixMeta   = "meta:"
)

// IPToBytes returns the big-endian address bytes, 4 for IPv4 and 16 for
// IPv6.
func IPToBytes(ip netip.Addr) []byte {
	if ip.Is4() {
		b := ip.As4()
		return b[:]
	}
	b := ip.As16()
	return b[:]
}

// BytesToIP reverses IPToBytes.
func BytesToIP(b []byte) (netip.Addr, error) {
	ip, ok := netip.AddrFromSlice(b)
	if !ok {
		return netip.Addr{}, fmt.Errorf("%w: %d byte address", model.ErrInvalidIP, len(b))
	}
	return ip, nil
}

// EncodePoolKey builds the record key for a range starting at ip.
func EncodePoolKey(ip netip.Addr) []byte {
	var prefix string
	if ip.Is4() {
		prefix = PrefixPoolV4
	} else {
		prefix = PrefixPoolV6
	}
	return append([]byte(prefix), IPToBytes(ip)...)
}

// DecodePoolKey extracts the first address from a record key.
func DecodePoolKey(key []byte) (netip.Addr, error) {
	if len(key) < len(PrefixPoolV4) {
		return netip.Addr{}, fmt.Errorf("%w: short key", model.ErrInvalidIP)
	}
	return BytesToIP(key[len(PrefixPoolV4):])
}

// MetaKey builds a metadata key.
func MetaKey(name string) []byte {
	return []byte(PrefixMeta + name)
}

// IsInRange reports whether ip falls inside [first, last].
func IsInRange(ip, first, last netip.Addr) bool {
	return first.Compare(ip) <= 0 && ip.Compare(last) <= 0
}
