// Package controller provides the interactive browser over a parsed build
// result.
package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle = lipgloss.NewStyle().PaddingLeft(2)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Browser runs the interactive finding list for one BuildResult.
type Browser struct {
	output io.Writer
	result *m.BuildResult
}

// NewBrowser creates a Browser writing to output.
func NewBrowser(result *m.BuildResult, output io.Writer) *Browser {
	return &Browser{output: output, result: result}
}

// Run blocks until the user closes the browser.
func (b *Browser) Run() error {
	program := tea.NewProgram(newBrowseModel(b.result), tea.WithOutput(b.output), tea.WithAltScreen())

	_, err := program.Run()

	return err
}

// findingItem is one list entry: an error, warning, linker error or failed
// test.
type findingItem struct {
	tag    string
	title  string
	detail string
}

func (i findingItem) Title() string       { return i.tag + " " + i.title }
func (i findingItem) Description() string { return i.detail }
func (i findingItem) FilterValue() string { return i.title + " " + i.detail }

// browseModel is the Bubble Tea model: a filterable list with a toggleable
// detail pane for the selected finding.
type browseModel struct {
	list       list.Model
	summary    string
	showDetail bool
	width      int
	height     int
}

func newBrowseModel(result *m.BuildResult) browseModel {
	items := buildFindingItems(result)

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = browseTitle(result)
	l.SetShowStatusBar(false)

	return browseModel{
		list:    l,
		summary: summaryText(result),
	}
}

func buildFindingItems(result *m.BuildResult) []list.Item {
	items := make([]list.Item, 0,
		len(result.Errors)+len(result.Warnings)+len(result.LinkerErrors)+len(result.FailedTests))

	for _, e := range result.Errors {
		items = append(items, findingItem{tag: "E", title: findingLocation(e.File, e.Line), detail: e.Message})
	}

	for _, w := range result.Warnings {
		items = append(items, findingItem{tag: "W", title: findingLocation(w.File, w.Line), detail: w.Message})
	}

	for _, le := range result.LinkerErrors {
		items = append(items, findingItem{tag: "L", title: le.Symbol, detail: linkerDetail(le)})
	}

	for _, ft := range result.FailedTests {
		items = append(items, findingItem{tag: "T", title: ft.Identifier, detail: ft.Message})
	}

	return items
}

func (bm browseModel) Init() tea.Cmd {
	return nil
}

func (bm browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		bm.width = msg.Width
		bm.height = msg.Height
		bm.list.SetSize(msg.Width, msg.Height-2)

		return bm, nil
	case tea.KeyMsg:
		// Let the list's filter input capture keys while active.
		if bm.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return bm, tea.Quit
		case "enter":
			bm.showDetail = !bm.showDetail
			return bm, nil
		}
	}

	var cmd tea.Cmd
	bm.list, cmd = bm.list.Update(msg)

	return bm, cmd
}

func (bm browseModel) View() string {
	var b strings.Builder

	b.WriteString(bm.list.View())
	b.WriteString("\n" + bm.summary)

	if bm.showDetail {
		if item, ok := bm.list.SelectedItem().(findingItem); ok {
			b.WriteString("\n" + detailStyle.Render(item.detail))
		}
	}

	return b.String()
}

func browseTitle(result *m.BuildResult) string {
	status := okStyle.Render("succeeded")
	if result.Status == m.StatusFailed {
		status = failStyle.Render("failed")
	}

	return titleStyle.Render("xcsift") + " build " + status
}

func summaryText(result *m.BuildResult) string {
	s := result.Summary

	text := fmt.Sprintf("%d errors | %d warnings | %d linker | %d failed | %d passed",
		s.Errors, s.Warnings, s.LinkerErrors, s.FailedTests, s.PassedTests)

	if s.CoveragePercent != nil {
		text += fmt.Sprintf(" | %.1f%% coverage", *s.CoveragePercent)
	}

	return text
}

func findingLocation(file m.Path, line int) string {
	if file == "" {
		return "(no location)"
	}

	if line > 0 {
		return fmt.Sprintf("%s:%d", file, line)
	}

	return string(file)
}

func linkerDetail(le m.LinkerError) string {
	if le.Kind == m.LinkerDuplicateSymbol {
		paths := make([]string, 0, len(le.ConflictingFiles))
		for _, p := range le.ConflictingFiles {
			paths = append(paths, string(p))
		}

		return "duplicate in " + strings.Join(paths, ", ")
	}

	detail := "undefined"
	if le.Architecture != "" {
		detail += " for " + le.Architecture
	}

	if le.ReferencedFrom != "" {
		detail += ", referenced from " + le.ReferencedFrom
	}

	return detail
}
