package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"poolstat/pkg/model"
	"poolstat/pkg/pooldb"
)

const version = "1.0.0"

// queryResult is the JSON shape of a successful lookup.
type queryResult struct {
	IP          string  `json:"ip"`
	FirstIP     string  `json:"first_ip"`
	LastIP      string  `json:"last_ip"`
	SharedNet   string  `json:"shared_net"`
	Size        float64 `json:"size"`
	Used        int64   `json:"used"`
	Touched     int64   `json:"touched"`
	Backups     int64   `json:"backups"`
	Free        float64 `json:"free"`
	Percent     float64 `json:"percent"`
	Netmask     int     `json:"netmask,omitempty"`
	CollectedAt string  `json:"collected_at"`
}

func main() {
	dbPath := flag.String("db", "./poolsdb", "Path to LevelDB pool database")
	jsonOutput := flag.Bool("json", true, "Output as JSON")
	showStats := flag.Bool("stats", false, "Show database statistics and exit")
	showVersion := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("poolstat-query version %s\n", version)
		return
	}

	db, err := pooldb.Open(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database: %v", err)
	}
	defer db.Close()

	if *showStats {
		printStats(db, *jsonOutput)
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: poolstat-query [options] <ip-address>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  poolstat-query 10.1.0.55\n")
		fmt.Fprintf(os.Stderr, "  poolstat-query --db=/data/poolsdb 2001:db8::100\n")
		os.Exit(1)
	}

	ipStr := flag.Arg(0)

	rec, err := db.LookupString(ipStr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			if *jsonOutput {
				fmt.Printf("{\"error\":\"no pool contains this address\",\"ip\":\"%s\"}\n", ipStr)
			} else {
				fmt.Printf("No pool contains %s\n", ipStr)
			}
			os.Exit(1)
		}
		log.Fatalf("ERROR: Lookup failed: %v", err)
	}

	result := toResult(ipStr, rec)
	if *jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("ERROR: Failed to marshal JSON: %v", err)
		}
		fmt.Println(string(data))
	} else {
		printHumanReadable(result)
	}
}

func toResult(ip string, rec *model.PoolRecord) *queryResult {
	free := rec.Size - float64(rec.Used)
	percent := 0.0
	if rec.Size > 0 {
		percent = float64(rec.Used) / rec.Size * 100
	}
	return &queryResult{
		IP:          ip,
		FirstIP:     rec.First.String(),
		LastIP:      rec.Last.String(),
		SharedNet:   rec.SharedNet,
		Size:        rec.Size,
		Used:        rec.Used,
		Touched:     rec.Touched,
		Backups:     rec.Backups,
		Free:        free,
		Percent:     percent,
		Netmask:     rec.Netmask,
		CollectedAt: rec.CollectedAt.Format("2006-01-02 15:04:05"),
	}
}

func printHumanReadable(r *queryResult) {
	fmt.Printf("IP Address:         %s\n", r.IP)
	fmt.Printf("Pool:               %s - %s\n", r.FirstIP, r.LastIP)
	fmt.Printf("Shared network:     %s\n", r.SharedNet)
	fmt.Printf("Size:               %.0f\n", r.Size)
	fmt.Printf("Used:               %d (%.3f%%)\n", r.Used, r.Percent)
	fmt.Printf("Touched:            %d\n", r.Touched)
	if r.Backups > 0 {
		fmt.Printf("Backups:            %d\n", r.Backups)
	}
	fmt.Printf("Free:               %.0f\n", r.Free)
	if r.Netmask > 0 {
		fmt.Printf("Netmask:            /%d\n", r.Netmask)
	}
	fmt.Printf("Collected:          %s\n", r.CollectedAt)
}

func printStats(db *pooldb.DB, jsonOutput bool) {
	stats, err := db.Stats()
	if err != nil {
		log.Fatalf("ERROR: Failed to read statistics: %v", err)
	}
	if jsonOutput {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			log.Fatalf("ERROR: Failed to marshal JSON: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	fmt.Printf("Schema version:     %d\n", stats.SchemaVersion)
	fmt.Printf("Collected at:       %s\n", stats.CollectedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Analyzer version:   %s\n", stats.AnalyzerVersion)
	fmt.Printf("Pools:              %d (IPv4 %d, IPv6 %d)\n",
		stats.TotalPools, stats.IPv4Pools, stats.IPv6Pools)
	fmt.Printf("Addresses:          %.0f\n", stats.TotalAddresses)
	fmt.Printf("Used:               %d\n", stats.TotalUsed)
}
