package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"poolstat/pkg/analysis"
	"poolstat/pkg/model"
)

// Section selector bits for the -L limit digits.
const (
	limitRanges  = 1
	limitShared  = 2
	limitSummary = 4
)

// Limits splits the two-digit -L value: the first digit gates section
// headers, the second gates the rows themselves.
type Limits struct {
	Header int
	Values int
}

// ParseLimits validates a limit string such as "77" (everything) or
// "01" (range rows only, no headers).
func ParseLimits(s string) (Limits, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 77 || n/10 > 7 || n%10 > 7 {
		return Limits{}, fmt.Errorf("invalid limit %q: expected two digits 0-7", s)
	}
	return Limits{Header: n / 10, Values: n % 10}, nil
}

// UseColor resolves a color mode against the destination writer.  Auto
// colors only when writing to a terminal.
func UseColor(w io.Writer, mode string) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never", "":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		info, err := f.Stat()
		if err != nil {
			return false, nil
		}
		return info.Mode()&os.ModeCharDevice != 0, nil
	}
	return false, fmt.Errorf("%w: %q", model.ErrUnknownColor, mode)
}

// Render writes the analysis in the configured format and returns the
// process exit status.  Only the alarm format produces a non-zero
// status; every other format reports and exits cleanly.
func Render(w io.Writer, a *analysis.Audit, cfg *model.Config) (int, error) {
	format := byte('t')
	if cfg.Format != "" {
		format = cfg.Format[0]
	}
	if cfg.Format != "" && len(cfg.Format) != 1 {
		return 0, fmt.Errorf("%w: %q", model.ErrUnknownFormat, cfg.Format)
	}

	limits, err := ParseLimits(cfg.Limit)
	if err != nil {
		return 0, err
	}

	switch format {
	case 't':
		return 0, renderText(w, a, cfg, limits)
	case 'H':
		return 0, renderHTML(w, a, cfg, limits)
	case 'x':
		return 0, renderXML(w, a, cfg, limits, false)
	case 'X':
		return 0, renderXML(w, a, cfg, limits, true)
	case 'j':
		return 0, renderJSON(w, a, cfg, limits, false)
	case 'J':
		return 0, renderJSON(w, a, cfg, limits, true)
	case 'c':
		return 0, renderCSV(w, a, cfg, limits)
	case 'e':
		return 0, renderXLSX(w, a, cfg, limits)
	case 'a':
		return renderAlarm(w, a, cfg)
	}
	return 0, fmt.Errorf("%w: %q", model.ErrUnknownFormat, cfg.Format)
}
