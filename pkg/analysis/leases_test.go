package analysis

import (
	"net/netip"
	"testing"

	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

func TestLeaseStoreLastWriteWins(t *testing.T) {
	s := NewLeaseStore()
	ip := netip.MustParseAddr("10.0.0.1")

	s.Add(ip, model.StateActive, "aa:bb:cc:dd:ee:ff")
	s.Add(ip, model.StateFree, "")

	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	l, ok := s.Find(ip)
	if !ok {
		t.Fatal("lease not found")
	}
	if l.State != model.StateFree {
		t.Errorf("state = %v, want free", l.State)
	}
	if l.Ethernet != "" {
		t.Errorf("ethernet = %q, want empty after replacement", l.Ethernet)
	}
}

func TestLeaseStoreDelete(t *testing.T) {
	s := NewLeaseStore()
	ip := netip.MustParseAddr("10.0.0.1")
	s.Add(ip, model.StateActive, "")
	s.Delete(ip)
	if _, ok := s.Find(ip); ok {
		t.Error("lease survived Delete")
	}

	s.Add(ip, model.StateActive, "")
	s.Add(netip.MustParseAddr("10.0.0.2"), model.StateFree, "")
	s.DeleteAll()
	if s.Len() != 0 {
		t.Errorf("len = %d after DeleteAll, want 0", s.Len())
	}
}

func TestLeaseStorePrepareOrder(t *testing.T) {
	s := NewLeaseStore()
	for _, ip := range []string{"10.0.0.30", "10.0.0.1", "10.0.0.200", "10.0.0.15"} {
		s.Add(netip.MustParseAddr(ip), model.StateActive, "")
	}
	s.Prepare(ipaddr.V4)

	want := []string{"10.0.0.1", "10.0.0.15", "10.0.0.30", "10.0.0.200"}
	got := s.Ordered()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].IP.String() != want[i] {
			t.Errorf("ordered[%d] = %s, want %s", i, got[i].IP, want[i])
		}
	}
	// Keyed lookup still works after Prepare.
	if _, ok := s.Find(netip.MustParseAddr("10.0.0.15")); !ok {
		t.Error("Find failed after Prepare")
	}
}

func TestLeaseStoreBackupsFound(t *testing.T) {
	s := NewLeaseStore()
	if s.BackupsFound() {
		t.Error("BackupsFound true on empty store")
	}
	s.Add(netip.MustParseAddr("10.0.0.1"), model.StateActive, "")
	if s.BackupsFound() {
		t.Error("BackupsFound true without backup leases")
	}
	s.Add(netip.MustParseAddr("10.0.0.2"), model.StateBackup, "")
	if !s.BackupsFound() {
		t.Error("BackupsFound false after adding a backup lease")
	}
}
