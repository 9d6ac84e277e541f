package coverage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xccovPayload = `{
  "lineCoverage": 0.45,
  "targets": [
    {
      "name": "Calc.framework",
      "files": [
        {
          "path": "/pkg/Sources/Calc/add.swift",
          "name": "add.swift",
          "lineCoverage": 0.8,
          "coveredLines": 8,
          "executableLines": 10
        },
        {
          "path": "/pkg/Sources/Other/io.swift",
          "name": "io.swift",
          "lineCoverage": 0.1,
          "coveredLines": 1,
          "executableLines": 10
        }
      ]
    }
  ]
}`

func TestBundleConverter_Convert(t *testing.T) {
	runner := &stubRunner{responses: []stubResponse{
		{stdout: []byte(xccovPayload)},
	}}

	cov, err := NewBundleConverter(runner).Convert(context.Background(), "/tmp/Test.xcresult")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"xcrun", "xccov", "view", "--report", "--json", "/tmp/Test.xcresult",
	}, runner.calls[0])

	require.Len(t, cov.Files, 2)
	assert.InDelta(t, 45.0, cov.LineCoverage, 1e-9)
	assert.InDelta(t, 80.0, cov.Files[0].LineCoverage, 1e-9)
}

func TestBundleConverter_ConvertWrapsToolFailure(t *testing.T) {
	runner := &stubRunner{responses: []stubResponse{
		{stderr: []byte("xccov: error: unreadable bundle"), err: errors.New("exit status 1")},
	}}

	_, err := NewBundleConverter(runner).Convert(context.Background(), "/tmp/Test.xcresult")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable bundle")
}

func TestDecodeXccovReport_FractionFallbacks(t *testing.T) {
	// Per-file counts missing: the file's own fraction is promoted.
	cov, err := decodeXccovReport([]byte(`{
	  "lineCoverage": 0.5,
	  "targets": [
	    {"name": "T", "files": [
	      {"path": "/a.swift", "name": "a.swift", "lineCoverage": 0.75}
	    ]}
	  ]
	}`))
	require.NoError(t, err)
	require.Len(t, cov.Files, 1)
	assert.InDelta(t, 75.0, cov.Files[0].LineCoverage, 1e-9)

	// No countable lines anywhere: the report aggregate is promoted.
	assert.InDelta(t, 50.0, cov.LineCoverage, 1e-9)
}

func TestDecodeXccovReport_MissingFileName(t *testing.T) {
	cov, err := decodeXccovReport([]byte(`{
	  "targets": [
	    {"name": "T", "files": [
	      {"path": "/pkg/Sources/Calc/add.swift", "coveredLines": 1, "executableLines": 2}
	    ]}
	  ]
	}`))
	require.NoError(t, err)
	require.Len(t, cov.Files, 1)
	assert.Equal(t, "add.swift", cov.Files[0].Name)
}

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"fraction", 0.85, 85.0},
		{"exactly one", 1.0, 100.0},
		{"already percent", 85.0, 85.0},
		{"zero", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, normalizePercent(tt.value), 1e-9)
		})
	}
}
