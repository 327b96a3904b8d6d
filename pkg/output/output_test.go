package output

import (
	"bytes"
	"encoding/json"
	"net/netip"
	"strings"
	"testing"

	"poolstat/pkg/analysis"
	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
)

// testAudit builds a counted audit with two ranges in one shared
// network: 10.0.0.1-10 with 9 active leases (90%) and 10.0.1.1-100
// with 1 active lease (1%).
func testAudit(t *testing.T) *analysis.Audit {
	t.Helper()
	a := analysis.NewAudit(ipaddr.V4)
	office := a.Networks.FindOrCreate("office")
	a.AddRange(&model.Range{
		First:     netip.MustParseAddr("10.0.0.1"),
		Last:      netip.MustParseAddr("10.0.0.10"),
		SharedNet: office,
	})
	a.AddRange(&model.Range{
		First:     netip.MustParseAddr("10.0.1.1"),
		Last:      netip.MustParseAddr("10.0.1.100"),
		SharedNet: office,
	})
	for i := 1; i <= 9; i++ {
		a.Leases.Add(netip.AddrFrom4([4]byte{10, 0, 0, byte(i)}), model.StateActive, "")
	}
	a.Leases.Add(netip.MustParseAddr("10.0.1.5"), model.StateActive, "aa:bb:cc:00:11:22")
	a.Prepare()
	a.Count()
	return a
}

func testConfig() model.Config {
	cfg := model.DefaultConfig()
	cfg.Color = "never"
	return cfg
}

func TestParseLimits(t *testing.T) {
	for _, tc := range []struct {
		in     string
		header int
		values int
		ok     bool
	}{
		{"77", 7, 7, true},
		{"01", 0, 1, true},
		{"40", 4, 0, true},
		{"0", 0, 0, true},
		{"78", 0, 0, false},
		{"99", 0, 0, false},
		{"-1", 0, 0, false},
		{"x", 0, 0, false},
	} {
		got, err := ParseLimits(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseLimits(%q) err = %v", tc.in, err)
			continue
		}
		if tc.ok && (got.Header != tc.header || got.Values != tc.values) {
			t.Errorf("ParseLimits(%q) = %+v, want %d/%d", tc.in, got, tc.header, tc.values)
		}
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	if on, err := UseColor(&buf, "always"); err != nil || !on {
		t.Errorf("always = %v, %v", on, err)
	}
	if on, err := UseColor(&buf, "never"); err != nil || on {
		t.Errorf("never = %v, %v", on, err)
	}
	// A bytes.Buffer is not a terminal.
	if on, err := UseColor(&buf, "auto"); err != nil || on {
		t.Errorf("auto on buffer = %v, %v", on, err)
	}
	if _, err := UseColor(&buf, "sometimes"); err == nil {
		t.Error("expected error for unknown color mode")
	}
}

func TestEvalStatus(t *testing.T) {
	cfg := testConfig()
	for _, tc := range []struct {
		percent, free float64
		want          Status
	}{
		{10, 90, StateOK},
		{80, 20, StateWarning},
		{90, 10, StateCritical},
		{95, 5, StateCritical},
		{10, 0, StateCritical}, // full by free count
	} {
		if got := evalStatus(&cfg, tc.percent, tc.free); got != tc.want {
			t.Errorf("evalStatus(%v%%, %v free) = %v, want %v", tc.percent, tc.free, got, tc.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()

	var buf bytes.Buffer
	status, err := Render(&buf, a, &cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	out := buf.String()
	for _, want := range []string{"Ranges:", "Shared networks:", "Sum of all ranges:",
		"office", "10.0.0.1", "All networks"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// No backup leases seen, so no backup columns.
	if strings.Contains(out, "bu perc") {
		t.Error("backup columns rendered without backup leases")
	}
	if strings.Contains(out, "\033[") {
		t.Error("color escapes with color=never")
	}
}

func TestRenderTextBackupColumns(t *testing.T) {
	a := testAudit(t)
	a.Leases.Add(netip.MustParseAddr("10.0.1.6"), model.StateBackup, "")
	a.Prepare()
	cfg := testConfig()

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "bu perc") {
		t.Error("backup columns missing although a backup lease was seen")
	}
}

func TestRenderTextLimits(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Limit = "01" // range rows only, no headers

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Ranges:") || strings.Contains(out, "Shared networks:") {
		t.Errorf("headers rendered with limit 01:\n%s", out)
	}
	if !strings.Contains(out, "10.0.0.1") {
		t.Errorf("range rows missing with limit 01:\n%s", out)
	}
	if strings.Contains(out, "All networks") {
		t.Errorf("summary rendered with limit 01:\n%s", out)
	}
}

func TestRenderTextColor(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Color = "always"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The 90% range row exceeds the critical threshold and turns red.
	if !strings.Contains(buf.String(), ansiRed) {
		t.Error("no red escape for the critical range")
	}
}

func TestRenderCSV(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "c"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 3 headers + 2 ranges + 1 network + 1 summary.
	if len(lines) != 7 {
		t.Fatalf("got %d CSV lines, want 7:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "office,10.0.0.1,10.0.0.10,10,9,90") {
		t.Errorf("unexpected first range row: %s", lines[1])
	}
}

func TestRenderJSON(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "J"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	var report struct {
		Ranges []struct {
			SharedNet    string  `json:"shared_net"`
			Percent      float64 `json:"percent"`
			ActiveLeases []struct {
				IP       string `json:"ip"`
				Ethernet string `json:"ethernet"`
			} `json:"active_leases"`
		} `json:"ranges"`
		Summary *struct {
			Name string `json:"name"`
			Used int64  `json:"used"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(report.Ranges) != 2 {
		t.Fatalf("got %d ranges, want 2", len(report.Ranges))
	}
	if report.Ranges[0].Percent != 90 {
		t.Errorf("percent = %v, want 90", report.Ranges[0].Percent)
	}
	if len(report.Ranges[1].ActiveLeases) != 1 ||
		report.Ranges[1].ActiveLeases[0].Ethernet != "aa:bb:cc:00:11:22" {
		t.Errorf("lease details = %+v", report.Ranges[1].ActiveLeases)
	}
	if report.Summary == nil || report.Summary.Name != "All networks" || report.Summary.Used != 10 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestRenderXML(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "X"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<poolstatus>", "<range>", "<shared_network>",
		"<summary>", `<lease ip="10.0.1.5"`} {
		if !strings.Contains(out, want) {
			t.Errorf("XML missing %q:\n%s", want, out)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "H"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<!DOCTYPE html>", "<h2>Ranges</h2>", "office", "All networks"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestRenderXLSX(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "e"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("output is not a zip container")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "q"

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRenderAlarmCritical(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "a"

	var buf bytes.Buffer
	status, err := Render(&buf, a, &cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The 90% range trips the 90% critical threshold.
	if status != int(StateCritical) {
		t.Errorf("status = %d, want %d", status, StateCritical)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "POOLSTAT CRITICAL:") {
		t.Errorf("status line = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "CRITICAL: range 10.0.0.1 - 10.0.0.10 (office)") {
		t.Errorf("missing critical detail:\n%s", out)
	}
}

func TestRenderAlarmOK(t *testing.T) {
	a := analysis.NewAudit(ipaddr.V4)
	a.AddRange(&model.Range{
		First:     netip.MustParseAddr("10.0.0.1"),
		Last:      netip.MustParseAddr("10.0.0.100"),
		SharedNet: a.Networks.FindOrCreate("quiet"),
	})
	a.Leases.Add(netip.MustParseAddr("10.0.0.1"), model.StateActive, "")
	a.Prepare()
	a.Count()

	cfg := testConfig()
	cfg.Format = "a"
	var buf bytes.Buffer
	status, err := Render(&buf, a, &cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}

func TestRenderAlarmSkipAndMinsize(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "a"
	cfg.SkipOK = true
	cfg.MinSize = 50 // the 10-address range is too small to alarm on

	var buf bytes.Buffer
	status, err := Render(&buf, a, &cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// With the critical range ignored, everything left is OK.
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	out := buf.String()
	if strings.Contains(out, "\nOK:") {
		t.Errorf("OK rows present despite skip:\n%s", out)
	}
	if !strings.Contains(out, "IGNORED: range 10.0.0.1 - 10.0.0.10") {
		t.Errorf("minsize row missing:\n%s", out)
	}
}

func TestRenderAlarmSnetAlarms(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "a"
	cfg.SnetAlarms = true
	cfg.SkipSuppressed = true

	var buf bytes.Buffer
	status, err := Render(&buf, a, &cfg)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Range alarms suppressed; the office network sits at 10/110.
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	if strings.Contains(buf.String(), "range 10.0.0.1") {
		t.Errorf("range rows present with snet-alarms:\n%s", buf.String())
	}
}

func TestRenderAlarmPerfdata(t *testing.T) {
	a := testAudit(t)
	cfg := testConfig()
	cfg.Format = "a"
	cfg.Perfdata = true

	var buf bytes.Buffer
	if _, err := Render(&buf, a, &cfg); err != nil {
		t.Fatalf("Render: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.Contains(first, "|") || !strings.Contains(first, "'network office'=10;") {
		t.Errorf("perfdata missing: %q", first)
	}
}
