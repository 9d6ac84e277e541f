package parser

import (
	"regexp"
	"strconv"
	"strings"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// Build timing markers: SwiftPM prints `Build complete! (4.52s)`, xcodebuild
// prints `** BUILD SUCCEEDED ** [12.345 sec]`.
var (
	buildCompletePattern = regexp.MustCompile(`^Build complete!\s*\(([0-9.]+)s\)`)
	buildFinishedPattern = regexp.MustCompile(`^\*\* (?:BUILD|TEST) (?:SUCCEEDED|FAILED) \*\*(?: \[([0-9.]+) sec\])?`)
)

// Options controls parse behavior supplied by the caller.
type Options struct {
	// TrackDurations records per-test durations on failed tests.
	TrackDurations bool
	// WarningsAsErrors fails the build when only warnings were found.
	WarningsAsErrors bool
}

// Parser converts one buffered build-tool output stream into a BuildResult.
// A Parser holds no per-invocation state and is safe to reuse; each Parse
// call owns its own parse state.
type Parser struct {
	opts Options
}

// New constructs a Parser.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// parseState is the transient per-invocation state: the de-duplication set,
// the currently open linker block and the pending test failures awaiting
// their verdict line.
type parseState struct {
	seenDiagnostics map[string]struct{}
	block           *linkerBlock

	pendingFailures map[string][]string
	pendingOrder    []string

	errors       []m.BuildError
	warnings     []m.BuildWarning
	linkerErrors []m.LinkerError
	failedTests  []m.FailedTest
	passedTests  int

	buildTime        *float64
	target           string
	targetFromBundle bool
}

func newParseState() *parseState {
	return &parseState{
		seenDiagnostics: make(map[string]struct{}),
		pendingFailures: make(map[string][]string),
	}
}

// Parse runs one linear pass over input and returns the aggregated result.
func (p *Parser) Parse(input string) *m.BuildResult {
	st := newParseState()

	for start := 0; start <= len(input); {
		idx := strings.IndexByte(input[start:], '\n')

		var line string
		if idx < 0 {
			line = input[start:]
			start = len(input) + 1
		} else {
			line = input[start : start+idx]
			start += idx + 1
		}

		p.consumeLine(st, strings.TrimSuffix(line, "\r"))
	}

	return p.finalize(st)
}

// consumeLine classifies one line and routes it to the extractors in priority
// order. Lines matching a keyword but no structural pattern are dropped.
func (p *Parser) consumeLine(st *parseState, line string) {
	if st.block != nil {
		if st.block.consume(line) {
			return
		}

		st.linkerErrors = append(st.linkerErrors, st.block.close()...)
		st.block = nil
	}

	if !couldMatchDiagnostic(line) {
		return
	}

	// Assertion lines share the located-diagnostic shape, so they go first.
	if ev, ok := extractTestAssertion(line); ok {
		st.recordIssue(ev)
		return
	}

	if d, ok := extractLocatedDiagnostic(line); ok {
		st.recordDiagnostic(d)
		return
	}

	// Past this point only headerless shapes remain; echoed source and data
	// dumps that happen to contain a keyword are suppressed here.
	if looksStructuredData(line) {
		return
	}

	if block := openLinkerBlock(line); block != nil {
		st.block = block
		return
	}

	if ev, ok := extractTestCase(line); ok {
		p.recordTestEvent(st, ev)
		return
	}

	if ev, ok := extractSwiftTesting(line); ok {
		if ev.kind == testIssue {
			st.recordIssue(ev)
		} else {
			p.recordTestEvent(st, ev)
		}

		return
	}

	if isNote(line) {
		return
	}

	if d, ok := extractBareError(line); ok {
		st.recordDiagnostic(d)
		return
	}

	if seconds, ok := extractBuildTime(line); ok {
		st.buildTime = &seconds
		return
	}

	if name, ok := extractSuiteStart(line); ok {
		st.captureTarget(name)
	}
}

func (st *parseState) recordDiagnostic(d diagnostic) {
	key := d.fingerprint()
	if _, seen := st.seenDiagnostics[key]; seen {
		return
	}

	st.seenDiagnostics[key] = struct{}{}

	switch d.severity {
	case "error":
		st.errors = append(st.errors, m.BuildError{File: d.file, Line: d.line, Message: d.message})
	case "warning":
		st.warnings = append(st.warnings, m.BuildWarning{File: d.file, Line: d.line, Message: d.message})
	}
}

// recordIssue stashes failure detail until the verdict line arrives.
func (st *parseState) recordIssue(ev testEvent) {
	if _, ok := st.pendingFailures[ev.identifier]; !ok {
		st.pendingOrder = append(st.pendingOrder, ev.identifier)
	}

	st.pendingFailures[ev.identifier] = append(st.pendingFailures[ev.identifier], ev.message)
}

func (p *Parser) recordTestEvent(st *parseState, ev testEvent) {
	switch ev.kind {
	case testPassed:
		st.passedTests++
		st.dropPending(ev.identifier)
	case testFailed:
		failed := m.FailedTest{
			Identifier: ev.identifier,
			Message:    st.takePendingMessage(ev.identifier),
		}
		if p.opts.TrackDurations {
			duration := ev.duration
			failed.Duration = &duration
		}

		st.failedTests = append(st.failedTests, failed)
	case testIssue:
	}
}

func (st *parseState) takePendingMessage(identifier string) string {
	messages, ok := st.pendingFailures[identifier]
	st.dropPending(identifier)

	if !ok || len(messages) == 0 {
		return "test failed"
	}

	return strings.Join(messages, "; ")
}

func (st *parseState) dropPending(identifier string) {
	if _, ok := st.pendingFailures[identifier]; !ok {
		return
	}

	delete(st.pendingFailures, identifier)

	for i, id := range st.pendingOrder {
		if id == identifier {
			st.pendingOrder = append(st.pendingOrder[:i], st.pendingOrder[i+1:]...)
			break
		}
	}
}

// captureTarget records the tested-target name. The .xctest bundle suite name
// is the most reliable signal and wins over plain class suite names; suite
// names emitted for the whole run are skipped.
func (st *parseState) captureTarget(name string) {
	if name == "All tests" || name == "Selected tests" {
		return
	}

	fromBundle := strings.HasSuffix(name, ".xctest")
	if fromBundle {
		name = strings.TrimSuffix(name, ".xctest")
	}

	if st.target == "" || (fromBundle && !st.targetFromBundle) {
		st.target = name
		st.targetFromBundle = fromBundle
	}
}

func extractBuildTime(line string) (float64, bool) {
	groups := buildCompletePattern.FindStringSubmatch(line)
	if groups == nil {
		groups = buildFinishedPattern.FindStringSubmatch(line)
	}

	if groups == nil || groups[1] == "" {
		return 0, false
	}

	seconds, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return 0, false
	}

	return seconds, true
}

// finalize closes any open block, flushes assertion-only failures (verdict
// line lost to truncation) and derives status and summary counts from the
// final collections.
func (p *Parser) finalize(st *parseState) *m.BuildResult {
	if st.block != nil {
		st.linkerErrors = append(st.linkerErrors, st.block.close()...)
		st.block = nil
	}

	for _, id := range st.pendingOrder {
		st.failedTests = append(st.failedTests, m.FailedTest{
			Identifier: id,
			Message:    strings.Join(st.pendingFailures[id], "; "),
		})
	}

	result := &m.BuildResult{
		Status:       m.StatusSucceeded,
		Errors:       st.errors,
		Warnings:     st.warnings,
		LinkerErrors: st.linkerErrors,
		FailedTests:  st.failedTests,
		Target:       st.target,
		Summary: m.BuildSummary{
			Errors:       len(st.errors),
			Warnings:     len(st.warnings),
			LinkerErrors: len(st.linkerErrors),
			FailedTests:  len(st.failedTests),
			PassedTests:  st.passedTests,
			BuildTime:    st.buildTime,
		},
	}

	failed := len(st.errors) > 0 || len(st.linkerErrors) > 0 || len(st.failedTests) > 0
	if p.opts.WarningsAsErrors && len(st.warnings) > 0 {
		failed = true
	}

	if failed {
		result.Status = m.StatusFailed
	}

	return result
}

// MergeCoverage attaches a coverage report to the result and mirrors the
// aggregate percentage into the summary. The aggregator is the only writer
// of the result, so coverage produced elsewhere is merged here.
func MergeCoverage(result *m.BuildResult, cov *m.CodeCoverage) {
	if result == nil || cov == nil {
		return
	}

	result.Coverage = cov
	percent := cov.LineCoverage
	result.Summary.CoveragePercent = &percent
}
