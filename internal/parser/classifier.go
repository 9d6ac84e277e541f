// Package parser turns the raw text output of xcodebuild and swift
// build/test invocations into a structured BuildResult.
package parser

import "strings"

// maxDiagnosticLineLen bounds the lines handed to the pattern matchers.
// Diagnostics are short; extremely long lines are almost always dumped data
// and a regex backtracking risk.
const maxDiagnosticLineLen = 2048

// keywordHints is the cheap pre-filter vocabulary. A line that contains none
// of these cannot match any extractor pattern, so the expensive matching is
// skipped for it. The set over-approximates: a false hit only costs one regex
// attempt.
var keywordHints = []string{
	"error:",
	"warning:",
	"note:",
	"Test Case '",
	"Test Suite '",
	" passed after ",
	" failed after ",
	"recorded an issue",
	"Undefined symbols",
	"duplicate symbol",
	"Build complete!",
	"** BUILD ",
	"** TEST ",
}

// couldMatchDiagnostic reports whether line is worth running the extractor
// patterns against. False negatives here are correctness bugs; keep the
// vocabulary in sync with the extractors.
func couldMatchDiagnostic(line string) bool {
	if len(line) == 0 || len(line) > maxDiagnosticLineLen {
		return false
	}

	for _, hint := range keywordHints {
		if strings.Contains(line, hint) {
			return true
		}
	}

	return false
}

// looksStructuredData reports whether a line is likely echoed source code or
// serialized data rather than a diagnostic. Compilers repeat offending source
// inside note/warning explanations; when that source contains
// string-interpolation syntax or key/value structure it can contain the
// diagnostic keywords without being a diagnostic.
func looksStructuredData(line string) bool {
	if strings.Contains(line, `\(`) {
		return true
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	// Bracketed or braced dumps, e.g. JSON fragments or array literals.
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return true
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasSuffix(trimmed, "}") {
		return true
	}

	// Quoted key/value pairs, e.g. `"error": "..."`.
	if strings.Contains(trimmed, `":`) && strings.Contains(trimmed, `"`) {
		return true
	}

	return false
}
