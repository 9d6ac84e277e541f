// Package format renders a BuildResult in the supported output encodings.
// Encoders alone decide field omission; the result they receive is complete.
package format

import (
	"fmt"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// Options carries the rendering knobs shared across encoders.
type Options struct {
	// WarningDetails controls whether the per-warning detail list is
	// rendered; the warning count always is.
	WarningDetails bool
	// SlowThreshold marks failed tests at or above this duration (seconds)
	// as slow. Zero disables the marking.
	SlowThreshold float64
}

// Formatter renders one complete BuildResult.
type Formatter interface {
	Format(result *m.BuildResult) (string, error)
}

// New returns the named encoder: json, compact, github, yaml or pretty.
func New(name string, opts Options) (Formatter, error) {
	switch name {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "compact":
		return &CompactFormatter{opts: opts}, nil
	case "github":
		return &GitHubFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "pretty":
		return &PrettyFormatter{opts: opts}, nil
	}

	return nil, fmt.Errorf("unknown output format %q", name)
}

// isSlow applies the slow-test threshold to an optional duration.
func (o Options) isSlow(duration *float64) bool {
	return o.SlowThreshold > 0 && duration != nil && *duration >= o.SlowThreshold
}

// withoutWarningDetails returns a shallow copy with the warning list dropped
// when details are suppressed. Counts stay intact.
func (o Options) withoutWarningDetails(result *m.BuildResult) *m.BuildResult {
	if o.WarningDetails {
		return result
	}

	trimmed := *result
	trimmed.Warnings = nil

	return &trimmed
}
