package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ldomaradzki/xcsift-sub001/internal/adapter"
	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// BundleConverter drives the result-bundle pipeline: xccov renders the
// bundle's coverage data as JSON.
type BundleConverter struct {
	runner adapter.CommandRunner
}

// NewBundleConverter constructs a BundleConverter using the given runner.
func NewBundleConverter(runner adapter.CommandRunner) *BundleConverter {
	return &BundleConverter{runner: runner}
}

// xccovReport mirrors the xccov JSON schema. lineCoverage fields have been
// observed both as a 0..1 fraction and as a pre-multiplied percentage
// depending on tool version; normalizePercent reconciles them.
type xccovReport struct {
	LineCoverage float64       `json:"lineCoverage"`
	Targets      []xccovTarget `json:"targets"`
}

type xccovTarget struct {
	Name  string      `json:"name"`
	Files []xccovFile `json:"files"`
}

type xccovFile struct {
	Path            string  `json:"path"`
	Name            string  `json:"name"`
	LineCoverage    float64 `json:"lineCoverage"`
	CoveredLines    int     `json:"coveredLines"`
	ExecutableLines int     `json:"executableLines"`
}

// Convert exports the bundle's coverage report and decodes it into the
// internal model.
func (c *BundleConverter) Convert(ctx context.Context, bundlePath string) (*m.CodeCoverage, error) {
	stdout, stderr, err := c.runner.Run(ctx, "xcrun",
		"xccov", "view", "--report", "--json", bundlePath,
	)
	if err != nil {
		return nil, fmt.Errorf("report export: %w (%s)", err, firstLine(stderr))
	}

	return decodeXccovReport(stdout)
}

func decodeXccovReport(payload []byte) (*m.CodeCoverage, error) {
	var report xccovReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode xccov report: %w", err)
	}

	cov := &m.CodeCoverage{}

	for _, target := range report.Targets {
		for _, file := range target.Files {
			name := file.Name
			if name == "" {
				name = filepath.Base(file.Path)
			}

			fc := m.NewFileCoverage(m.Path(file.Path), name, file.CoveredLines, file.ExecutableLines)
			if file.ExecutableLines == 0 && file.LineCoverage > 0 {
				fc.LineCoverage = normalizePercent(file.LineCoverage)
			}

			cov.Files = append(cov.Files, fc)
		}
	}

	cov.Recompute()

	// Some tool versions omit per-file line counts; fall back to the
	// report's own aggregate in that case.
	if cov.LineCoverage == 0 && report.LineCoverage > 0 {
		cov.LineCoverage = normalizePercent(report.LineCoverage)
	}

	return cov, nil
}

// normalizePercent converts a coverage value to the percentage convention.
// Values at or below 1.0 are treated as fractions.
func normalizePercent(value float64) float64 {
	if value <= 1.0 {
		return value * 100
	}

	return value
}
