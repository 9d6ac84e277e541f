package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func browseResult() *m.BuildResult {
	return &m.BuildResult{
		Status: m.StatusFailed,
		Summary: m.BuildSummary{
			Errors:          1,
			Warnings:        1,
			LinkerErrors:    1,
			FailedTests:     1,
			PassedTests:     2,
			CoveragePercent: floatPtr(45.0),
		},
		Errors:   []m.BuildError{{File: "main.swift", Line: 15, Message: "boom"}},
		Warnings: []m.BuildWarning{{File: "util.swift", Line: 3, Message: "unused"}},
		LinkerErrors: []m.LinkerError{
			{Kind: m.LinkerUndefinedSymbol, Symbol: "_missing", Architecture: "arm64", ReferencedFrom: "_main in main.o"},
		},
		FailedTests: []m.FailedTest{{Identifier: "T.C.testX", Message: "assert failed"}},
	}
}

func TestBuildFindingItems(t *testing.T) {
	items := buildFindingItems(browseResult())
	require.Len(t, items, 4)

	first, ok := items[0].(findingItem)
	require.True(t, ok)
	assert.Equal(t, "E main.swift:15", first.Title())
	assert.Equal(t, "boom", first.Description())
	assert.Contains(t, first.FilterValue(), "boom")

	last := items[3].(findingItem)
	assert.Equal(t, "T T.C.testX", last.Title())
}

func TestBrowseModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		model := newBrowseModel(browseResult())

		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		switch key {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}

		_, cmd := model.Update(msg)
		require.NotNil(t, cmd, key)
		assert.IsType(t, tea.QuitMsg{}, cmd(), key)
	}
}

func TestBrowseModel_EnterTogglesDetail(t *testing.T) {
	model := newBrowseModel(browseResult())

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, updated.(browseModel).showDetail)

	updated, _ = updated.(browseModel).Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, updated.(browseModel).showDetail)
}

func TestBrowseModel_WindowResize(t *testing.T) {
	model := newBrowseModel(browseResult())

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	resized := updated.(browseModel)
	assert.Equal(t, 100, resized.width)
	assert.Equal(t, 40, resized.height)
}

func TestSummaryText(t *testing.T) {
	text := summaryText(browseResult())
	assert.Equal(t, "1 errors | 1 warnings | 1 linker | 1 failed | 2 passed | 45.0% coverage", text)
}

func TestFindingLocation(t *testing.T) {
	assert.Equal(t, "main.swift:15", findingLocation("main.swift", 15))
	assert.Equal(t, "main.swift", findingLocation("main.swift", 0))
	assert.Equal(t, "(no location)", findingLocation("", 0))
}

func TestLinkerDetail(t *testing.T) {
	undefined := m.LinkerError{Kind: m.LinkerUndefinedSymbol, Symbol: "_x", Architecture: "arm64", ReferencedFrom: "_main in main.o"}
	assert.Equal(t, "undefined for arm64, referenced from _main in main.o", linkerDetail(undefined))

	duplicate := m.LinkerError{Kind: m.LinkerDuplicateSymbol, Symbol: "_y", ConflictingFiles: []m.Path{"/a.o", "/b.o"}}
	assert.Equal(t, "duplicate in /a.o, /b.o", linkerDetail(duplicate))
}
