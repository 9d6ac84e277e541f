package model

// FileCoverage holds line-coverage figures for a single source file.
type FileCoverage struct {
	Path            Path    `json:"path" yaml:"path"`
	Name            string  `json:"name" yaml:"name"`
	LineCoverage    float64 `json:"line_coverage_percent" yaml:"line_coverage_percent"`
	CoveredLines    int     `json:"covered_lines" yaml:"covered_lines"`
	ExecutableLines int     `json:"executable_lines" yaml:"executable_lines"`
}

// CodeCoverage is the aggregate coverage report attached to a BuildResult.
type CodeCoverage struct {
	LineCoverage float64        `json:"line_coverage_percent" yaml:"line_coverage_percent"`
	Files        []FileCoverage `json:"files,omitempty" yaml:"files,omitempty"`
}

// NewFileCoverage derives the per-file percentage from the raw line counts.
// A file with no executable lines reports 0 percent.
func NewFileCoverage(path Path, name string, covered, executable int) FileCoverage {
	return FileCoverage{
		Path:            path,
		Name:            name,
		LineCoverage:    coveragePercent(covered, executable),
		CoveredLines:    covered,
		ExecutableLines: executable,
	}
}

// Recompute recalculates the aggregate percentage from the line totals of
// the current file list.
func (c *CodeCoverage) Recompute() {
	covered := 0
	executable := 0

	for _, f := range c.Files {
		covered += f.CoveredLines
		executable += f.ExecutableLines
	}

	c.LineCoverage = coveragePercent(covered, executable)
}

func coveragePercent(covered, executable int) float64 {
	if executable <= 0 {
		return 0
	}

	return float64(covered) / float64(executable) * 100
}
