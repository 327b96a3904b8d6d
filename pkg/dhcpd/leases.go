package dhcpd

import (
	"bufio"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"poolstat/pkg/analysis"
	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// ParseLeases reads a dhcpd.leases file into the audit's lease store.
// IPv4 files carry "lease A.B.C.D {" blocks, IPv6 files "iaaddr X {"
// blocks inside ia-na declarations.  A record is stored when its block
// reveals a binding state; repeated blocks for the same address replace
// the earlier record.  Hardware addresses are kept only when
// wantEthernet is set, for the lease-detail output formats.
func ParseLeases(audit *analysis.Audit, path string, wantEthernet bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read lease file: %w", err)
	}
	defer f.Close()

	var (
		cur     netip.Addr
		haveCur bool
	)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if audit.Family == nil {
			switch {
			case strings.HasPrefix(line, "lease "):
				if err := audit.EnsureFamily(ipaddr.V4); err != nil {
					return err
				}
			case strings.HasPrefix(line, "iaaddr "):
				if err := audit.EnsureFamily(ipaddr.V6); err != nil {
					return err
				}
			default:
				continue
			}
		}

		switch {
		case audit.Family.Version() == 4 && strings.HasPrefix(line, "lease "):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				haveCur = false
				continue
			}
			ip, err := audit.Family.Parse(fields[1])
			if err != nil {
				// Not a block header for an address, e.g. a
				// "lease-duration" style statement.
				haveCur = false
				continue
			}
			cur = ip
			haveCur = true
		case audit.Family.Version() == 6 && strings.HasPrefix(line, "iaaddr "):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				haveCur = false
				continue
			}
			ip, err := audit.Family.Parse(fields[1])
			if err != nil {
				haveCur = false
				continue
			}
			cur = ip
			haveCur = true
		case haveCur && strings.HasPrefix(line, "binding state "):
			state := strings.TrimSuffix(strings.TrimPrefix(line, "binding state "), ";")
			switch state {
			case "active":
				audit.Leases.Add(cur, model.StateActive, "")
			case "free", "abandoned", "expired", "released":
				audit.Leases.Add(cur, model.StateFree, "")
			case "backup":
				audit.Leases.Add(cur, model.StateBackup, "")
			}
		case haveCur && wantEthernet && strings.HasPrefix(line, "hardware ethernet "):
			mac := strings.TrimSuffix(strings.TrimPrefix(line, "hardware ethernet "), ";")
			if l, ok := audit.Leases.Find(cur); ok {
				l.Ethernet = mac
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading lease file: %w", err)
	}
	return nil
}
