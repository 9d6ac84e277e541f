package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the root command against canned stdin. Every call pins the
// flags it depends on because flag values persist across executions.
func executeRoot(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	logFile := filepath.Join(t.TempDir(), "xcsift.log")

	var stdout, stderr bytes.Buffer

	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--log-file", logFile))

	err := rootCmd.Execute()

	return stdout.String(), stderr.String(), err
}

const failingBuildLog = `CompileSwift normal arm64 main.swift
main.swift:15:5: error: use of undeclared identifier 'unknown'
    let x = unknown
            ^~~~~~~
** BUILD FAILED **
`

func TestRootCommand_ParsesStdinToJSON(t *testing.T) {
	stdout, _, err := executeRoot(t, failingBuildLog, "--format", "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "failed", decoded["status"])

	summary := decoded["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["errors"])
}

func TestRootCommand_CompactFormat(t *testing.T) {
	stdout, _, err := executeRoot(t, failingBuildLog, "--format", "compact")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "status=failed"), stdout)
	assert.Contains(t, stdout, "E main.swift:15 use of undeclared identifier 'unknown'")
}

func TestRootCommand_CleanBuild(t *testing.T) {
	stdout, _, err := executeRoot(t, "Build complete! (1.23s)\n", "--format", "json")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "succeeded", decoded["status"])
}

func TestRootCommand_UnknownFormat(t *testing.T) {
	_, _, err := executeRoot(t, "", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestRootCommand_WarningsAsErrors(t *testing.T) {
	log := "main.swift:3:1: warning: unused variable\n** BUILD SUCCEEDED **\n"

	stdout, _, err := executeRoot(t, log, "--format", "json", "--warnings-as-errors")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status":"failed"`)

	stdout, _, err = executeRoot(t, log, "--format", "json", "--warnings-as-errors=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status":"succeeded"`)
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "version")
}

func TestInitCommand(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	rootCmd.SetArgs([]string{"init"})
	require.NoError(t, rootCmd.Execute())

	assert.FileExists(t, configFileName)

	// A second run must not clobber the existing file.
	require.Error(t, rootCmd.Execute())
}
