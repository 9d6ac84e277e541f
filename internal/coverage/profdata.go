package coverage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ldomaradzki/xcsift-sub001/internal/adapter"
	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// ProfileConverter drives the raw-profile pipeline: llvm-profdata merge
// followed by llvm-cov export, both through xcrun.
type ProfileConverter struct {
	runner adapter.CommandRunner
}

// NewProfileConverter constructs a ProfileConverter using the given runner.
func NewProfileConverter(runner adapter.CommandRunner) *ProfileConverter {
	return &ProfileConverter{runner: runner}
}

// llvmExport mirrors the llvm-cov export JSON schema, reduced to the line
// summaries consumed here.
type llvmExport struct {
	Data []struct {
		Files []struct {
			Filename string `json:"filename"`
			Summary  struct {
				Lines llvmLineSummary `json:"lines"`
			} `json:"summary"`
		} `json:"files"`
		Totals struct {
			Lines llvmLineSummary `json:"lines"`
		} `json:"totals"`
	} `json:"data"`
}

type llvmLineSummary struct {
	Count   int     `json:"count"`
	Covered int     `json:"covered"`
	Percent float64 `json:"percent"`
}

// Convert merges the raw profiles when no indexed profile exists yet, exports
// the line coverage as JSON and decodes it into the internal model.
func (c *ProfileConverter) Convert(ctx context.Context, artifact RawProfileArtifact) (*m.CodeCoverage, error) {
	if artifact.Binary == "" {
		return nil, errors.New("no test binary found next to the coverage profiles")
	}

	indexed := artifact.Indexed
	if indexed == "" {
		if len(artifact.Profiles) == 0 {
			return nil, errors.New("no raw profiles to merge")
		}

		indexed = filepath.Join(os.TempDir(), fmt.Sprintf("xcsift-%d.profdata", time.Now().UnixNano()))
		defer func() {
			_ = os.Remove(indexed)
		}()

		args := append([]string{"llvm-profdata", "merge", "-sparse"}, artifact.Profiles...)
		args = append(args, "-o", indexed)

		if _, stderr, err := c.runner.Run(ctx, "xcrun", args...); err != nil {
			return nil, fmt.Errorf("profile merge: %w (%s)", err, firstLine(stderr))
		}
	}

	stdout, stderr, err := c.runner.Run(ctx, "xcrun",
		"llvm-cov", "export", artifact.Binary,
		"-instr-profile="+indexed,
		"-summary-only",
	)
	if err != nil {
		return nil, fmt.Errorf("profile export: %w (%s)", err, firstLine(stderr))
	}

	return decodeLLVMExport(stdout)
}

func decodeLLVMExport(payload []byte) (*m.CodeCoverage, error) {
	var export llvmExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return nil, fmt.Errorf("decode llvm-cov export: %w", err)
	}

	if len(export.Data) == 0 {
		return nil, errors.New("llvm-cov export contains no data")
	}

	data := export.Data[0]
	cov := &m.CodeCoverage{}

	for _, file := range data.Files {
		cov.Files = append(cov.Files, m.NewFileCoverage(
			m.Path(file.Filename),
			filepath.Base(file.Filename),
			file.Summary.Lines.Covered,
			file.Summary.Lines.Count,
		))
	}

	cov.Recompute()

	return cov, nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}

	return string(output)
}
