package format

import (
	"fmt"
	"strings"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// CompactFormatter renders the token-minimal encoding: one summary line
// followed by one line per finding, prefixed with a single-letter tag.
type CompactFormatter struct {
	opts Options
}

// Format implements Formatter.
func (f *CompactFormatter) Format(result *m.BuildResult) (string, error) {
	var b strings.Builder

	f.writeSummaryLine(&b, result)

	for _, e := range result.Errors {
		b.WriteString("E " + location(e.File, e.Line) + e.Message + "\n")
	}

	if f.opts.WarningDetails {
		for _, w := range result.Warnings {
			b.WriteString("W " + location(w.File, w.Line) + w.Message + "\n")
		}
	}

	for _, le := range result.LinkerErrors {
		f.writeLinkerLine(&b, le)
	}

	for _, ft := range result.FailedTests {
		b.WriteString("T " + ft.Identifier + " " + ft.Message)

		if ft.Duration != nil {
			fmt.Fprintf(&b, " (%.3fs", *ft.Duration)

			if f.opts.isSlow(ft.Duration) {
				b.WriteString(" slow")
			}

			b.WriteString(")")
		}

		b.WriteString("\n")
	}

	if result.Coverage != nil {
		for _, file := range result.Coverage.Files {
			fmt.Fprintf(&b, "C %s %.1f%%\n", file.Path, file.LineCoverage)
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *CompactFormatter) writeSummaryLine(b *strings.Builder, result *m.BuildResult) {
	s := result.Summary

	fmt.Fprintf(b, "status=%s errors=%d warnings=%d linker_errors=%d failed_tests=%d passed_tests=%d",
		result.Status, s.Errors, s.Warnings, s.LinkerErrors, s.FailedTests, s.PassedTests)

	if s.BuildTime != nil {
		fmt.Fprintf(b, " build_time=%.2fs", *s.BuildTime)
	}

	if s.CoveragePercent != nil {
		fmt.Fprintf(b, " coverage=%.1f%%", *s.CoveragePercent)
	}

	b.WriteString("\n")
}

func (f *CompactFormatter) writeLinkerLine(b *strings.Builder, le m.LinkerError) {
	switch le.Kind {
	case m.LinkerUndefinedSymbol:
		fmt.Fprintf(b, "L undefined %s", le.Symbol)

		if le.Architecture != "" {
			b.WriteString(" arch=" + le.Architecture)
		}

		if le.ReferencedFrom != "" {
			b.WriteString(" from=" + le.ReferencedFrom)
		}
	case m.LinkerDuplicateSymbol:
		paths := make([]string, 0, len(le.ConflictingFiles))
		for _, p := range le.ConflictingFiles {
			paths = append(paths, string(p))
		}

		fmt.Fprintf(b, "L duplicate %s in %s", le.Symbol, strings.Join(paths, ","))
	}

	b.WriteString("\n")
}

func location(file m.Path, line int) string {
	if file == "" {
		return ""
	}

	if line > 0 {
		return fmt.Sprintf("%s:%d ", file, line)
	}

	return string(file) + " "
}
