package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

var (
	succeededStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	slowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// PrettyFormatter renders a human-readable report with summary and detail
// tables. It is the only encoder meant for people rather than agents.
type PrettyFormatter struct {
	opts Options
}

// Format implements Formatter.
func (f *PrettyFormatter) Format(result *m.BuildResult) (string, error) {
	var b strings.Builder

	f.writeHeader(&b, result)
	b.WriteString(renderSummaryTable(result))

	for _, e := range result.Errors {
		fmt.Fprintf(&b, "  error: %s%s\n", location(e.File, e.Line), e.Message)
	}

	if f.opts.WarningDetails {
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  warning: %s%s\n", location(w.File, w.Line), w.Message)
		}
	}

	for _, le := range result.LinkerErrors {
		fmt.Fprintf(&b, "  linker: %s\n", linkerSummary(le))
	}

	if len(result.FailedTests) > 0 {
		b.WriteString("\n" + f.renderFailedTestsTable(result.FailedTests))
	}

	if result.Coverage != nil && len(result.Coverage.Files) > 0 {
		b.WriteString("\n" + renderCoverageTable(result.Coverage))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func (f *PrettyFormatter) writeHeader(b *strings.Builder, result *m.BuildResult) {
	header := succeededStyle.Render("BUILD SUCCEEDED")
	if result.Status == m.StatusFailed {
		header = failedStyle.Render("BUILD FAILED")
	}

	b.WriteString(header)

	if result.Summary.BuildTime != nil {
		fmt.Fprintf(b, " (%.2fs)", *result.Summary.BuildTime)
	}

	b.WriteString("\n\n")
}

func renderSummaryTable(result *m.BuildResult) string {
	var buf bytes.Buffer

	s := result.Summary

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Errors", "Warnings", "Linker", "Failed", "Passed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{
		fmt.Sprintf("%d", s.Errors),
		fmt.Sprintf("%d", s.Warnings),
		fmt.Sprintf("%d", s.LinkerErrors),
		fmt.Sprintf("%d", s.FailedTests),
		fmt.Sprintf("%d", s.PassedTests),
	})
	table.Render()

	return buf.String() + "\n"
}

func (f *PrettyFormatter) renderFailedTestsTable(tests []m.FailedTest) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Failed Test", "Message", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, ft := range tests {
		duration := ""
		if ft.Duration != nil {
			duration = fmt.Sprintf("%.3fs", *ft.Duration)

			if f.opts.isSlow(ft.Duration) {
				duration = slowStyle.Render(duration + " (slow)")
			}
		}

		table.Append([]string{ft.Identifier, ft.Message, duration})
	}

	table.Render()

	return buf.String()
}

func renderCoverageTable(cov *m.CodeCoverage) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Coverage", "Lines"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, file := range cov.Files {
		table.Append([]string{
			file.Name,
			fmt.Sprintf("%.1f%%", file.LineCoverage),
			fmt.Sprintf("%d/%d", file.CoveredLines, file.ExecutableLines),
		})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%.1f%%", cov.LineCoverage), ""})
	table.Render()

	return buf.String()
}
