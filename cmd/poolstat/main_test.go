package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"poolstat/pkg/model"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testInputs(t *testing.T) (conf, leases, dir string) {
	t.Helper()
	dir, err := os.MkdirTemp("", "poolstat-main")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	conf = writeTemp(t, dir, "dhcpd.conf", `
shared-network office {
  subnet 10.1.0.0 netmask 255.255.255.0 {
    range 10.1.0.50 10.1.0.59;
  }
}
`)
	leases = writeTemp(t, dir, "dhcpd.leases", `
lease 10.1.0.51 {
  binding state active;
}
lease 10.1.0.52 {
  binding state free;
}
`)
	return conf, leases, dir
}

func TestRunTextReport(t *testing.T) {
	conf, leases, dir := testInputs(t)
	out := filepath.Join(dir, "report.txt")

	status, err := run([]string{"-c", conf, "-l", leases, "-o", out, "--color", "never"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	report := string(data)
	for _, want := range []string{"office", "10.1.0.50", "All networks"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunAlarmExitStatus(t *testing.T) {
	conf, leases, dir := testInputs(t)
	out := filepath.Join(dir, "alarm.txt")

	// 1 of 10 used; a 5% critical threshold trips on the range.
	status, err := run([]string{"-c", conf, "-l", leases, "-o", out,
		"--warning", "3", "--critical", "5"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if status != 2 {
		t.Errorf("status = %d, want 2", status)
	}
	data, _ := os.ReadFile(out)
	if !strings.HasPrefix(string(data), "POOLSTAT CRITICAL:") {
		t.Errorf("alarm output = %q", string(data))
	}
}

func TestRunExportDB(t *testing.T) {
	conf, leases, dir := testInputs(t)
	out := filepath.Join(dir, "report.txt")
	dbPath := filepath.Join(dir, "pools.db")

	status, err := run([]string{"-c", conf, "-l", leases, "-o", out, "--export-db", dbPath})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created: %v", err)
	}
}

func TestRunMissingConfig(t *testing.T) {
	_, leases, dir := testInputs(t)
	out := filepath.Join(dir, "report.txt")

	if _, err := run([]string{"-c", filepath.Join(dir, "nope.conf"), "-l", leases, "-o", out}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSettingsArg(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want string
	}{
		{[]string{"--settings", "a.yaml"}, "a.yaml"},
		{[]string{"--settings=b.yaml"}, "b.yaml"},
		{[]string{"-settings=c.yaml", "-r"}, "c.yaml"},
		{[]string{"-c", "x.conf"}, ""},
	} {
		if got := settingsArg(tc.args); got != tc.want {
			t.Errorf("settingsArg(%v) = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestLoadSettings(t *testing.T) {
	dir, err := os.MkdirTemp("", "poolstat-settings")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := writeTemp(t, dir, "settings.yaml", `
config: /srv/dhcp/dhcpd.conf
format: j
warning: 70
snet_alarms: true
`)
	cfg := model.DefaultConfig()
	if err := loadSettings(path, &cfg); err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if cfg.ConfigFile != "/srv/dhcp/dhcpd.conf" {
		t.Errorf("config = %q", cfg.ConfigFile)
	}
	if cfg.Format != "j" || cfg.Warning != 70 || !cfg.SnetAlarms {
		t.Errorf("cfg = %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Critical != 90 || cfg.LeaseFile != "/var/lib/dhcp/dhcpd.leases" {
		t.Errorf("defaults lost: %+v", cfg)
	}

	if err := loadSettings(writeTemp(t, dir, "bad.yaml", "format: [j\n"), &cfg); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
