// Package model defines the data structures shared by the parsing and
// coverage subsystems.
package model

// Path represents a file system path.
type Path string

// Status represents the overall outcome of a build or test invocation.
type Status string

const (
	// StatusSucceeded indicates the build produced no errors, linker errors
	// or failed tests.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates at least one error, linker error or failed test.
	StatusFailed Status = "failed"
)

// BuildError is a compiler error extracted from the build output. Line is 0
// when the diagnostic carried no source location.
type BuildError struct {
	File    Path   `json:"file,omitempty" yaml:"file,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// BuildWarning is a compiler warning extracted from the build output.
type BuildWarning struct {
	File    Path   `json:"file,omitempty" yaml:"file,omitempty"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// LinkerErrorKind distinguishes the two linker diagnostic block variants.
type LinkerErrorKind string

const (
	// LinkerUndefinedSymbol is an "Undefined symbols for architecture" block.
	LinkerUndefinedSymbol LinkerErrorKind = "undefined_symbol"
	// LinkerDuplicateSymbol is a "duplicate symbol ... in:" block.
	LinkerDuplicateSymbol LinkerErrorKind = "duplicate_symbol"
)

// LinkerError is one linker diagnostic. Exactly one variant applies per
// record: ReferencedFrom is set for the undefined-symbol variant,
// ConflictingFiles (at least two entries) for the duplicate-symbol variant.
type LinkerError struct {
	Kind             LinkerErrorKind `json:"kind" yaml:"kind"`
	Symbol           string          `json:"symbol" yaml:"symbol"`
	Architecture     string          `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	ReferencedFrom   string          `json:"referenced_from,omitempty" yaml:"referenced_from,omitempty"`
	ConflictingFiles []Path          `json:"conflicting_files,omitempty" yaml:"conflicting_files,omitempty"`
}

// FailedTest is one failing test case. Duration is nil unless duration
// tracking was enabled and the runner reported a timing annotation.
type FailedTest struct {
	Identifier string   `json:"identifier" yaml:"identifier"`
	Message    string   `json:"message" yaml:"message"`
	Duration   *float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

// BuildSummary is the derived, read-only view over the detail collections.
// Counts always equal the cardinality of the corresponding collections.
type BuildSummary struct {
	Errors          int      `json:"errors" yaml:"errors"`
	Warnings        int      `json:"warnings" yaml:"warnings"`
	LinkerErrors    int      `json:"linker_errors" yaml:"linker_errors"`
	FailedTests     int      `json:"failed_tests" yaml:"failed_tests"`
	PassedTests     int      `json:"passed_tests" yaml:"passed_tests"`
	BuildTime       *float64 `json:"build_time_seconds,omitempty" yaml:"build_time_seconds,omitempty"`
	CoveragePercent *float64 `json:"coverage_percent,omitempty" yaml:"coverage_percent,omitempty"`
}

// BuildResult is the root aggregate handed to the formatting layer. It is
// constructed once per input stream and treated as immutable afterwards.
type BuildResult struct {
	Status       Status         `json:"status" yaml:"status"`
	Summary      BuildSummary   `json:"summary" yaml:"summary"`
	Errors       []BuildError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings     []BuildWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	LinkerErrors []LinkerError  `json:"linker_errors,omitempty" yaml:"linker_errors,omitempty"`
	FailedTests  []FailedTest   `json:"failed_tests,omitempty" yaml:"failed_tests,omitempty"`
	Coverage     *CodeCoverage  `json:"coverage,omitempty" yaml:"coverage,omitempty"`

	// Target is the tested-target name captured from the input stream, empty
	// when no target-bearing line was seen.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}
