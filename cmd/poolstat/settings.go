package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"poolstat/pkg/model"
)

// settingsArg pre-scans the arguments for --settings so the file can
// seed the flag defaults before parsing.
func settingsArg(args []string) string {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--settings" || a == "-settings":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--settings="):
			return strings.TrimPrefix(a, "--settings=")
		case strings.HasPrefix(a, "-settings="):
			return strings.TrimPrefix(a, "-settings=")
		}
	}
	return ""
}

// loadSettings overlays the YAML settings file onto cfg.  Keys absent
// from the file keep their current values.
func loadSettings(path string, cfg *model.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("cannot parse settings file %s: %w", path, err)
	}
	return nil
}
