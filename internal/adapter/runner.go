// Package adapter contains infrastructure adapters for the xcsift CLI.
package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// CommandRunner abstracts external tool invocation so the coverage pipelines
// can be exercised in tests with canned output instead of real tools.
type CommandRunner interface {
	// Run executes the named command, waits for it to finish and returns the
	// captured stdout and stderr along with any execution error.
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// LocalCommandRunner provides a concrete implementation using os/exec.
type LocalCommandRunner struct {
	timeout time.Duration
}

// NewLocalCommandRunner constructs a LocalCommandRunner with a default 2m
// timeout per invocation.
func NewLocalCommandRunner() *LocalCommandRunner {
	return &LocalCommandRunner{
		timeout: 2 * time.Minute,
	}
}

// Run executes the named command and captures its output.
func (r *LocalCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.Bytes(), stderr.Bytes(), err
}
