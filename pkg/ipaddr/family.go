package ipaddr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"
	"strings"

	"poolstat/pkg/model"
)

// Family provides the address operations that differ between IPv4 and
// IPv6.  A run selects its family at most once, either from an explicit
// option or from the first address string seen, and threads it through
// every call; there is no global dispatch state.
type Family interface {
	// Version returns 4 or 6.
	Version() int
	// Parse converts a textual address of this family.
	Parse(s string) (netip.Addr, error)
	// Compare orders two addresses of this family (-1, 0, 1).
	Compare(a, b netip.Addr) int
	// String renders an address of this family.
	String(a netip.Addr) string
	// RangeSize returns the number of addresses in [first, last].
	RangeSize(first, last netip.Addr) float64
	// CIDRLast returns the last address of the prefix base/bits, with
	// every host bit set.
	CIDRLast(base netip.Addr, bits int) (netip.Addr, error)
}

var (
	// V4 is the IPv4 family singleton.
	V4 Family = v4Family{}
	// V6 is the IPv6 family singleton.
	V6 Family = v6Family{}
)

// Detect infers the family from an address string: a colon selects
// IPv6, anything else IPv4.
func Detect(s string) Family {
	if strings.Contains(s, ":") {
		return V6
	}
	return V4
}

// ForVersion maps an --ip-version argument to a family.
func ForVersion(v int) (Family, error) {
	switch v {
	case 4:
		return V4, nil
	case 6:
		return V6, nil
	}
	return nil, fmt.Errorf("unsupported IP version %d", v)
}

type v4Family struct{}

func (v4Family) Version() int { return 4 }

func (v4Family) Parse(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", model.ErrInvalidIP, s)
	}
	addr = addr.Unmap()
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not IPv4", model.ErrFamilyMismatch, s)
	}
	return addr, nil
}

func (v4Family) Compare(a, b netip.Addr) int {
	ai, bi := toUint32(a), toUint32(b)
	if ai < bi {
		return -1
	}
	if ai > bi {
		return 1
	}
	return 0
}

func (v4Family) String(a netip.Addr) string {
	return a.String()
}

// RangeSize computes last - first + 1 in uint64 so the full 2^32
// address space does not overflow.
func (v4Family) RangeSize(first, last netip.Addr) float64 {
	return float64(uint64(toUint32(last))-uint64(toUint32(first)) + 1)
}

func (v4Family) CIDRLast(base netip.Addr, bits int) (netip.Addr, error) {
	if bits < 0 || 32 < bits {
		return netip.Addr{}, fmt.Errorf("%w: /%d", model.ErrInvalidMask, bits)
	}
	hostMask := uint32((uint64(1) << (32 - bits)) - 1)
	return fromUint32(toUint32(base) | hostMask), nil
}

type v6Family struct{}

func (v6Family) Version() int { return 6 }

func (v6Family) Parse(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", model.ErrInvalidIP, s)
	}
	if !addr.Is6() || addr.Is4In6() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not IPv6", model.ErrFamilyMismatch, s)
	}
	return addr, nil
}

func (v6Family) Compare(a, b netip.Addr) int {
	ab, bb := a.As16(), b.As16()
	return bytes.Compare(ab[:], bb[:])
}

func (v6Family) String(a netip.Addr) string {
	return a.String()
}

// RangeSize accumulates the size byte by byte.  float64 keeps only the
// low-order magnitude, so ranges beyond roughly 2^53 addresses lose
// precision.  Known limitation, not changed without product input.
func (v6Family) RangeSize(first, last netip.Addr) float64 {
	fb, lb := first.As16(), last.As16()
	var size float64
	for i := 0; i < 16; i++ {
		size *= 256
		size += float64(int(lb[i]) - int(fb[i]))
	}
	return size + 1
}

func (v6Family) CIDRLast(base netip.Addr, bits int) (netip.Addr, error) {
	if bits < 0 || 128 < bits {
		return netip.Addr{}, fmt.Errorf("%w: /%d", model.ErrInvalidMask, bits)
	}
	b := base.As16()
	hostBits := 128 - bits
	fullBytes := hostBits / 8
	remainingBits := hostBits % 8
	for i := len(b) - 1; i >= len(b)-fullBytes; i-- {
		b[i] = 0xFF
	}
	if remainingBits > 0 {
		idx := len(b) - fullBytes - 1
		b[idx] |= byte((1 << remainingBits) - 1)
	}
	return netip.AddrFrom16(b), nil
}

func toUint32(a netip.Addr) uint32 {
	b := a.As4()
	return binary.BigEndian.Uint32(b[:])
}

func fromUint32(n uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return netip.AddrFrom4(b)
}
