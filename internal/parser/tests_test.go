package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTestCase(t *testing.T) {
	ev, ok := extractTestCase("Test Case '-[AppTests.CalcTests testAdd]' passed (0.001 seconds).")
	require.True(t, ok)
	assert.Equal(t, testPassed, ev.kind)
	assert.Equal(t, "AppTests.CalcTests.testAdd", ev.identifier)
	assert.InDelta(t, 0.001, ev.duration, 1e-9)

	ev, ok = extractTestCase("Test Case '-[AppTests.CalcTests testSub]' failed (1.250 seconds).")
	require.True(t, ok)
	assert.Equal(t, testFailed, ev.kind)
	assert.InDelta(t, 1.25, ev.duration, 1e-9)

	_, ok = extractTestCase("Test Suite 'CalcTests' passed at 2024-06-01")
	assert.False(t, ok)
}

func TestExtractTestAssertion(t *testing.T) {
	line := `/Users/dev/Tests/CalcTests.swift:42: error: -[AppTests.CalcTests testSub] : XCTAssertEqual failed: ("1") is not equal to ("2")`

	ev, ok := extractTestAssertion(line)
	require.True(t, ok)
	assert.Equal(t, testIssue, ev.kind)
	assert.Equal(t, "AppTests.CalcTests.testSub", ev.identifier)
	assert.Equal(t, `XCTAssertEqual failed: ("1") is not equal to ("2")`, ev.message)

	// A plain compiler error must not be mistaken for an assertion.
	_, ok = extractTestAssertion("main.swift:15:5: error: use of undeclared identifier 'unknown'")
	assert.False(t, ok)
}

func TestExtractSwiftTesting(t *testing.T) {
	ev, ok := extractSwiftTesting(`✔ Test "Addition works" passed after 0.001 seconds.`)
	require.True(t, ok)
	assert.Equal(t, testPassed, ev.kind)
	assert.Equal(t, "Addition works", ev.identifier)

	ev, ok = extractSwiftTesting("✘ Test subtraction() failed after 0.002 seconds with 1 issue.")
	require.True(t, ok)
	assert.Equal(t, testFailed, ev.kind)
	assert.Equal(t, "subtraction()", ev.identifier)
	assert.InDelta(t, 0.002, ev.duration, 1e-9)

	ev, ok = extractSwiftTesting("✘ Test subtraction() recorded an issue at CalcTests.swift:18:9: Expectation failed: 3 == 2")
	require.True(t, ok)
	assert.Equal(t, testIssue, ev.kind)
	assert.Equal(t, "Expectation failed: 3 == 2", ev.message)

	_, ok = extractSwiftTesting("Building for debugging...")
	assert.False(t, ok)
}

func TestExtractSuiteStart(t *testing.T) {
	name, ok := extractSuiteStart("Test Suite 'AppTests.xctest' started at 2024-06-01 12:00:00.001")
	require.True(t, ok)
	assert.Equal(t, "AppTests.xctest", name)

	_, ok = extractSuiteStart("Test Suite 'AppTests.xctest' passed at 2024-06-01 12:00:01.001")
	assert.False(t, ok)
}

func TestNormalizeTestIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"selector form", "-[AppTests.CalcTests testAdd]", "AppTests.CalcTests.testAdd"},
		{"already plain", "subtraction()", "subtraction()"},
		{"display name", "Addition works", "Addition works"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeTestIdentifier(tt.id))
		})
	}
}
