package rewrite

import (
	"fmt"
	"strings"

	"ppifix/internal/config"
)

// DefaultPPI is the fixed resolution used when a request does not set one.
const DefaultPPI = 144

// Mode selects how the output resolution is derived.
type Mode string

const (
	// ModeLinear sets both axes to round(width / 10).
	ModeLinear Mode = config.ModeLinear
	// ModeFixed sets both axes to Request.PPI.
	ModeFixed Mode = config.ModeFixed
	// ModeNoChange keeps whatever resolution the source carried.
	ModeNoChange Mode = config.ModeNone
)

// ParseMode accepts the configuration spellings of a mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "linear":
		return ModeLinear, nil
	case "fixed":
		return ModeFixed, nil
	case "none", "no-change", "nochange", "no_change":
		return ModeNoChange, nil
	default:
		return "", fmt.Errorf("unknown resolution mode %q (want linear, fixed, or none)", value)
	}
}

func (m Mode) String() string { return string(m) }

// Request describes one rewrite.
type Request struct {
	SourcePath   string
	PPI          int
	ConvertToPNG bool
	Mode         Mode
}

// DefaultRequest returns a request for path with Linear mode, 144 ppi, and no
// conversion.
func DefaultRequest(path string) Request {
	return Request{
		SourcePath: path,
		PPI:        DefaultPPI,
		Mode:       ModeLinear,
	}
}

// RequestFromConfig seeds a request for path from the [rewrite] section.
func RequestFromConfig(cfg *config.Config, path string) (Request, error) {
	req := DefaultRequest(path)
	if cfg == nil {
		return req, nil
	}
	mode, err := ParseMode(cfg.Rewrite.DefaultMode)
	if err != nil {
		return Request{}, err
	}
	req.Mode = mode
	req.PPI = cfg.Rewrite.DefaultPPI
	req.ConvertToPNG = cfg.Rewrite.ConvertToPNG
	return req, nil
}
