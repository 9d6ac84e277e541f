package format

import (
	"fmt"
	"strings"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// GitHubFormatter renders GitHub Actions workflow commands so findings show
// up as CI annotations.
type GitHubFormatter struct {
	opts Options
}

// Format implements Formatter.
func (f *GitHubFormatter) Format(result *m.BuildResult) (string, error) {
	var b strings.Builder

	for _, e := range result.Errors {
		writeAnnotation(&b, "error", e.File, e.Line, e.Message)
	}

	if f.opts.WarningDetails {
		for _, w := range result.Warnings {
			writeAnnotation(&b, "warning", w.File, w.Line, w.Message)
		}
	}

	for _, le := range result.LinkerErrors {
		writeAnnotation(&b, "error", "", 0, linkerSummary(le))
	}

	for _, ft := range result.FailedTests {
		writeAnnotation(&b, "error", "", 0, fmt.Sprintf("%s: %s", ft.Identifier, ft.Message))
	}

	writeAnnotation(&b, "notice", "", 0, summaryLine(result))

	return strings.TrimRight(b.String(), "\n"), nil
}

func writeAnnotation(b *strings.Builder, level string, file m.Path, line int, message string) {
	b.WriteString("::" + level)

	if file != "" {
		fmt.Fprintf(b, " file=%s", file)

		if line > 0 {
			fmt.Fprintf(b, ",line=%d", line)
		}
	}

	b.WriteString("::" + escapeAnnotation(message) + "\n")
}

// escapeAnnotation applies the workflow-command data escaping rules.
func escapeAnnotation(message string) string {
	message = strings.ReplaceAll(message, "%", "%25")
	message = strings.ReplaceAll(message, "\r", "%0D")
	message = strings.ReplaceAll(message, "\n", "%0A")

	return message
}

func linkerSummary(le m.LinkerError) string {
	switch le.Kind {
	case m.LinkerDuplicateSymbol:
		return fmt.Sprintf("duplicate symbol %s (%d files)", le.Symbol, len(le.ConflictingFiles))
	default:
		return fmt.Sprintf("undefined symbol %s for architecture %s", le.Symbol, le.Architecture)
	}
}

func summaryLine(result *m.BuildResult) string {
	s := result.Summary

	line := fmt.Sprintf("build %s: %d errors, %d warnings, %d linker errors, %d failed, %d passed",
		result.Status, s.Errors, s.Warnings, s.LinkerErrors, s.FailedTests, s.PassedTests)

	if s.CoveragePercent != nil {
		line += fmt.Sprintf(", coverage %.1f%%", *s.CoveragePercent)
	}

	return line
}
