package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Two test-report conventions are recognized: the XCTest runner
// (`Test Case '-[Suite test]' passed (0.1 seconds).` plus separate assertion
// lines) and swift-testing (`✔ Test foo() passed after 0.1 seconds.` with
// `✘ Test foo() recorded an issue at ...` detail lines).
var (
	testCasePattern      = regexp.MustCompile(`^Test Case '([^']+)' (passed|failed) \(([0-9.]+) seconds?\)\.?$`)
	testAssertionPattern = regexp.MustCompile(`^([^\s:][^:]*):(\d+):\s*error:\s*(-\[[^\]]+\])\s*:\s*(.+)$`)
	testSuitePattern     = regexp.MustCompile(`^Test Suite '([^']+)' started`)

	swiftTestingPassPattern  = regexp.MustCompile(`^[✔✓]\s+Test (?:"([^"]+)"|(\S+)) passed after ([0-9.]+) seconds\.$`)
	swiftTestingFailPattern  = regexp.MustCompile(`^[✘✗✖]\s+Test (?:"([^"]+)"|(\S+)) failed after ([0-9.]+) seconds? with \d+ issues?\.$`)
	swiftTestingIssuePattern = regexp.MustCompile(`^[✘✗✖]\s+Test (?:"([^"]+)"|(\S+)) recorded an issue at ([^\s:]+):(\d+):(\d+): (.+)$`)
)

// testEvent is one normalized test-runner observation.
type testEvent struct {
	kind       testEventKind
	identifier string
	message    string
	duration   float64
}

type testEventKind int

const (
	testPassed testEventKind = iota
	testFailed
	testIssue
)

// extractTestAssertion matches an XCTest assertion failure line. These carry
// the failure detail; the pass/fail verdict arrives on a later Test Case line.
func extractTestAssertion(line string) (testEvent, bool) {
	groups := testAssertionPattern.FindStringSubmatch(line)
	if groups == nil {
		return testEvent{}, false
	}

	return testEvent{
		kind:       testIssue,
		identifier: normalizeTestIdentifier(groups[3]),
		message:    strings.TrimSpace(groups[4]),
	}, true
}

// extractTestCase matches XCTest pass/fail verdict lines.
func extractTestCase(line string) (testEvent, bool) {
	groups := testCasePattern.FindStringSubmatch(line)
	if groups == nil {
		return testEvent{}, false
	}

	duration, _ := strconv.ParseFloat(groups[3], 64)

	ev := testEvent{
		kind:       testPassed,
		identifier: normalizeTestIdentifier(groups[1]),
		duration:   duration,
	}
	if groups[2] == "failed" {
		ev.kind = testFailed
	}

	return ev, true
}

// extractSwiftTesting matches swift-testing pass/fail/issue lines.
func extractSwiftTesting(line string) (testEvent, bool) {
	if groups := swiftTestingIssuePattern.FindStringSubmatch(line); groups != nil {
		return testEvent{
			kind:       testIssue,
			identifier: swiftTestingName(groups[1], groups[2]),
			message:    strings.TrimSpace(groups[6]),
		}, true
	}

	if groups := swiftTestingFailPattern.FindStringSubmatch(line); groups != nil {
		duration, _ := strconv.ParseFloat(groups[3], 64)

		return testEvent{
			kind:       testFailed,
			identifier: swiftTestingName(groups[1], groups[2]),
			duration:   duration,
		}, true
	}

	if groups := swiftTestingPassPattern.FindStringSubmatch(line); groups != nil {
		duration, _ := strconv.ParseFloat(groups[3], 64)

		return testEvent{
			kind:       testPassed,
			identifier: swiftTestingName(groups[1], groups[2]),
			duration:   duration,
		}, true
	}

	return testEvent{}, false
}

// extractSuiteStart matches `Test Suite 'X' started` lines, the
// target-name-bearing marker used by coverage filtering.
func extractSuiteStart(line string) (string, bool) {
	groups := testSuitePattern.FindStringSubmatch(line)
	if groups == nil {
		return "", false
	}

	return groups[1], true
}

// normalizeTestIdentifier rewrites the XCTest selector form
// `-[Suite.Class testMethod]` as `Suite.Class.testMethod`. Other shapes are
// kept verbatim.
func normalizeTestIdentifier(id string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(id, "-["), "]")
	if trimmed == id {
		return id
	}

	return strings.ReplaceAll(trimmed, " ", ".")
}

func swiftTestingName(quoted, plain string) string {
	if quoted != "" {
		return quoted
	}

	return plain
}
