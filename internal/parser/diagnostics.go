package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// Accepted compiler diagnostic header shapes. The column group is optional:
// swiftc emits path:line:col, clang occasionally omits the column.
var (
	locatedDiagnosticPattern = regexp.MustCompile(`^([^\s:][^:]*):(\d+)(?::(\d+))?:\s*(error|warning):\s*(.+)$`)
	bareErrorPattern         = regexp.MustCompile(`^(?:xcodebuild:\s*)?error:\s*(.+)$`)
	notePattern              = regexp.MustCompile(`(?:^|\d+:\s*)note:\s`)
)

// diagnostic is one extracted error or warning before it is folded into the
// result collections.
type diagnostic struct {
	severity string
	file     m.Path
	line     int
	message  string
}

// extractLocatedDiagnostic matches `path:line[:col]: error|warning: message`.
func extractLocatedDiagnostic(line string) (diagnostic, bool) {
	groups := locatedDiagnosticPattern.FindStringSubmatch(line)
	if groups == nil {
		return diagnostic{}, false
	}

	lineNo, err := strconv.Atoi(groups[2])
	if err != nil || lineNo < 1 {
		return diagnostic{}, false
	}

	message := strings.TrimSpace(groups[5])
	if message == "" {
		return diagnostic{}, false
	}

	return diagnostic{
		severity: groups[4],
		file:     m.Path(groups[1]),
		line:     lineNo,
		message:  message,
	}, true
}

// extractBareError matches location-free `error: message` lines, including
// the `xcodebuild: error:` prefix form.
func extractBareError(line string) (diagnostic, bool) {
	groups := bareErrorPattern.FindStringSubmatch(line)
	if groups == nil {
		return diagnostic{}, false
	}

	message := strings.TrimSpace(groups[1])
	if message == "" {
		return diagnostic{}, false
	}

	return diagnostic{severity: "error", message: message}, true
}

// isNote recognizes note lines so they are consumed without producing a
// record.
func isNote(line string) bool {
	return notePattern.MatchString(line)
}

// normalizeDiagnosticMessage strips visual-pointer artifacts so a diagnostic
// header and its caret restatement produce the same fingerprint.
func normalizeDiagnosticMessage(message string) string {
	message = strings.TrimSpace(message)
	return strings.TrimRight(message, "^~ \t")
}

// fingerprint is the de-duplication key for a diagnostic.
func (d diagnostic) fingerprint() string {
	return fmt.Sprintf("%s|%s:%d|%s", d.severity, d.file, d.line, normalizeDiagnosticMessage(d.message))
}
