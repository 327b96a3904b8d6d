package ipaddr

import (
	"net/netip"
	"testing"
)

func TestDetect(t *testing.T) {
	if f := Detect("192.168.1.1"); f.Version() != 4 {
		t.Errorf("got version %d, want 4", f.Version())
	}
	if f := Detect("2001:db8::1"); f.Version() != 6 {
		t.Errorf("got version %d, want 6", f.Version())
	}
}

func TestParseFamilyMismatch(t *testing.T) {
	if _, err := V4.Parse("2001:db8::1"); err == nil {
		t.Error("V4.Parse accepted an IPv6 address")
	}
	if _, err := V6.Parse("10.0.0.1"); err == nil {
		t.Error("V6.Parse accepted an IPv4 address")
	}
	if _, err := V4.Parse("not-an-ip"); err == nil {
		t.Error("V4.Parse accepted garbage")
	}
}

func TestCompareV4(t *testing.T) {
	a := netip.MustParseAddr("10.0.0.1")
	b := netip.MustParseAddr("10.0.0.2")
	if got := V4.Compare(a, b); got != -1 {
		t.Errorf("Compare(a,b) = %d, want -1", got)
	}
	if got := V4.Compare(b, a); got != 1 {
		t.Errorf("Compare(b,a) = %d, want 1", got)
	}
	if got := V4.Compare(a, a); got != 0 {
		t.Errorf("Compare(a,a) = %d, want 0", got)
	}
	// Ordering must be numeric, not lexical on the dotted form.
	lo := netip.MustParseAddr("9.255.255.255")
	hi := netip.MustParseAddr("10.0.0.0")
	if got := V4.Compare(lo, hi); got != -1 {
		t.Errorf("Compare(9.255.255.255, 10.0.0.0) = %d, want -1", got)
	}
}

func TestCompareV6(t *testing.T) {
	a := netip.MustParseAddr("2001:db8::1")
	b := netip.MustParseAddr("2001:db8::1:0")
	if got := V6.Compare(a, b); got >= 0 {
		t.Errorf("Compare = %d, want negative", got)
	}
}

func TestRangeSizeV4(t *testing.T) {
	tests := []struct {
		first, last string
		want        float64
	}{
		{"10.0.0.1", "10.0.0.10", 10},
		{"10.0.0.1", "10.0.0.1", 1},
		{"0.0.0.0", "255.255.255.255", 4294967296}, // full space, no overflow
	}
	for _, tt := range tests {
		first := netip.MustParseAddr(tt.first)
		last := netip.MustParseAddr(tt.last)
		if got := V4.RangeSize(first, last); got != tt.want {
			t.Errorf("RangeSize(%s, %s) = %v, want %v", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestRangeSizeV6(t *testing.T) {
	first := netip.MustParseAddr("2001:db8::1")
	last := netip.MustParseAddr("2001:db8::ff")
	if got := V6.RangeSize(first, last); got != 255 {
		t.Errorf("RangeSize = %v, want 255", got)
	}
	// A /64 worth of addresses is still exact in float64 terms.
	first = netip.MustParseAddr("2001:db8::")
	last = netip.MustParseAddr("2001:db8::ffff:ffff")
	if got := V6.RangeSize(first, last); got != 4294967296 {
		t.Errorf("RangeSize = %v, want 2^32", got)
	}
}

func TestCIDRLastV4(t *testing.T) {
	tests := []struct {
		base string
		bits int
		want string
	}{
		{"192.168.1.0", 24, "192.168.1.255"},
		{"10.0.0.0", 8, "10.255.255.255"},
		{"10.1.2.3", 32, "10.1.2.3"},
		{"0.0.0.0", 0, "255.255.255.255"},
	}
	for _, tt := range tests {
		got, err := V4.CIDRLast(netip.MustParseAddr(tt.base), tt.bits)
		if err != nil {
			t.Fatalf("CIDRLast(%s/%d): %v", tt.base, tt.bits, err)
		}
		if got.String() != tt.want {
			t.Errorf("CIDRLast(%s/%d) = %s, want %s", tt.base, tt.bits, got, tt.want)
		}
	}
	if _, err := V4.CIDRLast(netip.MustParseAddr("10.0.0.0"), 33); err == nil {
		t.Error("CIDRLast accepted /33")
	}
}

func TestCIDRLastV6(t *testing.T) {
	got, err := V6.CIDRLast(netip.MustParseAddr("2001:db8::"), 64)
	if err != nil {
		t.Fatalf("CIDRLast: %v", err)
	}
	want := "2001:db8::ffff:ffff:ffff:ffff"
	if got.String() != want {
		t.Errorf("CIDRLast = %s, want %s", got, want)
	}
	got, err = V6.CIDRLast(netip.MustParseAddr("2001:db8::"), 126)
	if err != nil {
		t.Fatalf("CIDRLast: %v", err)
	}
	if got.String() != "2001:db8::3" {
		t.Errorf("CIDRLast = %s, want 2001:db8::3", got)
	}
	if _, err := V6.CIDRLast(netip.MustParseAddr("2001:db8::"), 129); err == nil {
		t.Error("CIDRLast accepted /129")
	}
}
