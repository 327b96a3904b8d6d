package model

// Config carries the options of a single analyzer run.  Fields are
// populated from the optional YAML settings file first, then overridden
// by command line flags.
type Config struct {
	ConfigFile  string  `yaml:"config"`
	LeaseFile   string  `yaml:"leases"`
	Format      string  `yaml:"format"`
	SortKeys    string  `yaml:"sort"`
	Reverse     bool    `yaml:"reverse"`
	OutputFile  string  `yaml:"output"`
	Limit       string  `yaml:"limit"`
	Color       string  `yaml:"color"`
	Warning     float64 `yaml:"warning"`
	Critical    float64 `yaml:"critical"`
	WarnCount   float64 `yaml:"warn_count"`
	CritCount   float64 `yaml:"crit_count"`
	MinSize     float64 `yaml:"minsize"`
	SnetAlarms  bool    `yaml:"snet_alarms"`
	Perfdata    bool    `yaml:"perfdata"`
	AllAsShared bool    `yaml:"all_as_shared"`
	IPVersion   int     `yaml:"ip_version"`
	ExportDB    string  `yaml:"export_db"`

	// Skip filters for the alarm format.
	SkipOK         bool `yaml:"skip_ok"`
	SkipWarning    bool `yaml:"skip_warning"`
	SkipCritical   bool `yaml:"skip_critical"`
	SkipMinsize    bool `yaml:"skip_minsize"`
	SkipSuppressed bool `yaml:"skip_suppressed"`
}

// DefaultConfig returns the defaults that apply before the settings
// file and flags are read.  Count thresholds default to zero free
// addresses, which fires only on a completely full pool.
func DefaultConfig() Config {
	return Config{
		ConfigFile: "/etc/dhcp/dhcpd.conf",
		LeaseFile:  "/var/lib/dhcp/dhcpd.leases",
		Limit:      "77",
		Color:      "auto",
		Warning:    80.0,
		Critical:   90.0,
	}
}
