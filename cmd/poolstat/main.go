package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"poolstat/pkg/analysis"
	"poolstat/pkg/dhcpd"
	"poolstat/pkg/ipaddr"
	"poolstat/pkg/model"
	"poolstat/pkg/output"
	"poolstat/pkg/pooldb"
)

const version = "1.0.0"

func main() {
	status, err := run(os.Args[1:])
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	os.Exit(status)
}

func run(args []string) (int, error) {
	cfg := model.DefaultConfig()
	if path := settingsArg(args); path != "" {
		if err := loadSettings(path, &cfg); err != nil {
			return 0, err
		}
	}

	fs := flag.NewFlagSet("poolstat", flag.ExitOnError)
	fs.Usage = func() { usage(fs) }

	fs.StringVar(&cfg.ConfigFile, "c", cfg.ConfigFile, "Path to dhcpd.conf")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to dhcpd.conf")
	fs.StringVar(&cfg.LeaseFile, "l", cfg.LeaseFile, "Path to dhcpd.leases")
	fs.StringVar(&cfg.LeaseFile, "leases", cfg.LeaseFile, "Path to dhcpd.leases")
	fs.StringVar(&cfg.Format, "f", cfg.Format, "Output format: t H x X j J c e a")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: t H x X j J c e a")
	fs.StringVar(&cfg.SortKeys, "s", cfg.SortKeys, "Sort keys: n i m c p t T e")
	fs.StringVar(&cfg.SortKeys, "sort", cfg.SortKeys, "Sort keys: n i m c p t T e")
	fs.BoolVar(&cfg.Reverse, "r", cfg.Reverse, "Reverse the sort order")
	fs.BoolVar(&cfg.Reverse, "reverse", cfg.Reverse, "Reverse the sort order")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Write output to a file instead of stdout")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Write output to a file instead of stdout")
	fs.StringVar(&cfg.Limit, "L", cfg.Limit, "Section limit digits (headers, values)")
	fs.StringVar(&cfg.Limit, "limit", cfg.Limit, "Section limit digits (headers, values)")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "Color output: always, never, auto")
	fs.Float64Var(&cfg.Warning, "warning", cfg.Warning, "Warning threshold, percent used")
	fs.Float64Var(&cfg.Critical, "critical", cfg.Critical, "Critical threshold, percent used")
	fs.Float64Var(&cfg.WarnCount, "warn-count", cfg.WarnCount, "Warning threshold, free addresses")
	fs.Float64Var(&cfg.CritCount, "crit-count", cfg.CritCount, "Critical threshold, free addresses")
	fs.Float64Var(&cfg.MinSize, "minsize", cfg.MinSize, "Ignore pools smaller than this in alarms")
	fs.BoolVar(&cfg.SnetAlarms, "snet-alarms", cfg.SnetAlarms, "Suppress range alarms inside shared networks")
	fs.BoolVar(&cfg.Perfdata, "p", cfg.Perfdata, "Append performance data to the alarm output")
	fs.BoolVar(&cfg.Perfdata, "perfdata", cfg.Perfdata, "Append performance data to the alarm output")
	fs.BoolVar(&cfg.AllAsShared, "A", cfg.AllAsShared, "Treat stand-alone subnets as shared networks")
	fs.BoolVar(&cfg.AllAsShared, "all-as-shared", cfg.AllAsShared, "Treat stand-alone subnets as shared networks")
	fs.IntVar(&cfg.IPVersion, "ip-version", cfg.IPVersion, "Force address family: 4 or 6")
	fs.StringVar(&cfg.ExportDB, "export-db", cfg.ExportDB, "Export counted pools to a LevelDB database")
	fs.BoolVar(&cfg.SkipOK, "skip-ok", cfg.SkipOK, "Skip OK rows in alarm output")
	fs.BoolVar(&cfg.SkipWarning, "skip-warning", cfg.SkipWarning, "Skip warning rows in alarm output")
	fs.BoolVar(&cfg.SkipCritical, "skip-critical", cfg.SkipCritical, "Skip critical rows in alarm output")
	fs.BoolVar(&cfg.SkipMinsize, "skip-minsize", cfg.SkipMinsize, "Skip minsize rows in alarm output")
	fs.BoolVar(&cfg.SkipSuppressed, "skip-suppressed", cfg.SkipSuppressed, "Skip suppressed rows in alarm output")
	var settings string
	fs.StringVar(&settings, "settings", "", "YAML settings file")
	var showVersion bool
	fs.BoolVar(&showVersion, "v", false, "Show version")
	fs.BoolVar(&showVersion, "version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if showVersion {
		fmt.Printf("poolstat version %s\n", version)
		return 0, nil
	}

	// Threshold flags imply the alarm format unless a format was asked
	// for explicitly.
	formatGiven, thresholdGiven := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f", "format":
			formatGiven = true
		case "warning", "critical", "warn-count", "crit-count", "minsize", "snet-alarms":
			thresholdGiven = true
		}
	})
	if !formatGiven && cfg.Format == "" && thresholdGiven {
		cfg.Format = "a"
	}

	var fam ipaddr.Family
	switch cfg.IPVersion {
	case 0:
		// Inferred from the input.
	case 4:
		fam = ipaddr.V4
	case 6:
		fam = ipaddr.V6
	default:
		return 0, fmt.Errorf("invalid ip-version %d: expected 4 or 6", cfg.IPVersion)
	}

	a := analysis.NewAudit(fam)
	if err := dhcpd.ParseConfig(a, cfg.ConfigFile, cfg.AllAsShared); err != nil {
		return 0, err
	}
	wantEthernet := cfg.Format == "X" || cfg.Format == "J"
	if err := dhcpd.ParseLeases(a, cfg.LeaseFile, wantEthernet); err != nil {
		return 0, err
	}
	log.Printf("INFO: Parsed %d ranges and %d leases from %s",
		len(a.Ranges), a.Leases.Len(), cfg.LeaseFile)

	a.Prepare()
	a.Count()

	if cfg.SortKeys != "" {
		sorter, err := analysis.NewSorter(a.Family, cfg.SortKeys)
		if err != nil {
			return 0, err
		}
		sorter.Sort(a.Ranges)
	}
	if cfg.Reverse {
		analysis.Flip(a.Ranges)
	}

	out := os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			return 0, fmt.Errorf("cannot create output file: %w", err)
		}
		out = f
	}
	status, err := output.Render(out, a, &cfg)
	if err != nil {
		return 0, err
	}
	if cfg.OutputFile != "" {
		if err := out.Close(); err != nil {
			return 0, fmt.Errorf("cannot write output file: %w", err)
		}
	}

	if cfg.ExportDB != "" {
		log.Printf("INFO: Exporting %d pools to %s", len(a.Ranges), cfg.ExportDB)
		if err := pooldb.Export(cfg.ExportDB, a, version); err != nil {
			return 0, fmt.Errorf("database export failed: %w", err)
		}
	}

	return status, nil
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: poolstat [options]\n\n")
	fmt.Fprintf(os.Stderr, "Reports ISC dhcpd address pool utilization from the server's\n")
	fmt.Fprintf(os.Stderr, "configuration and lease files.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  poolstat -c /etc/dhcp/dhcpd.conf -l /var/lib/dhcp/dhcpd.leases\n")
	fmt.Fprintf(os.Stderr, "  poolstat -f j -s p\n")
	fmt.Fprintf(os.Stderr, "  poolstat --critical 95 --warning 85\n")
}
