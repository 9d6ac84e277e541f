package coverage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const llvmExportPayload = `{
  "data": [
    {
      "files": [
        {
          "filename": "/pkg/Sources/Calc/add.swift",
          "summary": {"lines": {"count": 10, "covered": 8, "percent": 80.0}}
        },
        {
          "filename": "/pkg/Sources/Calc/sub.swift",
          "summary": {"lines": {"count": 10, "covered": 2, "percent": 20.0}}
        }
      ],
      "totals": {"lines": {"count": 20, "covered": 10, "percent": 50.0}}
    }
  ]
}`

func TestProfileConverter_ConvertIndexedProfile(t *testing.T) {
	runner := &stubRunner{responses: []stubResponse{
		{stdout: []byte(llvmExportPayload)},
	}}

	cov, err := NewProfileConverter(runner).Convert(context.Background(), RawProfileArtifact{
		Indexed: "/build/default.profdata",
		Binary:  "/build/PkgPackageTests.xctest",
	})
	require.NoError(t, err)

	// An indexed profile skips the merge step entirely.
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"xcrun", "llvm-cov", "export", "/build/PkgPackageTests.xctest",
		"-instr-profile=/build/default.profdata", "-summary-only",
	}, runner.calls[0])

	require.Len(t, cov.Files, 2)
	assert.InDelta(t, 50.0, cov.LineCoverage, 1e-9)
	assert.Equal(t, "add.swift", cov.Files[0].Name)
	assert.InDelta(t, 80.0, cov.Files[0].LineCoverage, 1e-9)
}

func TestProfileConverter_ConvertMergesRawProfiles(t *testing.T) {
	runner := &stubRunner{responses: []stubResponse{
		{},
		{stdout: []byte(llvmExportPayload)},
	}}

	_, err := NewProfileConverter(runner).Convert(context.Background(), RawProfileArtifact{
		Profiles: []string{"/build/codecov/a.profraw", "/build/codecov/b.profraw"},
		Binary:   "/build/PkgPackageTests.xctest",
	})
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"xcrun", "llvm-profdata", "merge", "-sparse"}, runner.calls[0][:4])
	assert.Contains(t, runner.calls[0], "/build/codecov/a.profraw")
	assert.Contains(t, runner.calls[0], "/build/codecov/b.profraw")
	assert.Equal(t, "llvm-cov", runner.calls[1][1])
}

func TestProfileConverter_ConvertRequiresBinary(t *testing.T) {
	_, err := NewProfileConverter(&stubRunner{}).Convert(context.Background(), RawProfileArtifact{
		Profiles: []string{"/build/codecov/a.profraw"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no test binary")
}

func TestProfileConverter_ConvertWrapsToolFailure(t *testing.T) {
	runner := &stubRunner{responses: []stubResponse{
		{stderr: []byte("error: corrupt profile\nmore detail"), err: errors.New("exit status 1")},
	}}

	_, err := NewProfileConverter(runner).Convert(context.Background(), RawProfileArtifact{
		Indexed: "/build/default.profdata",
		Binary:  "/build/PkgPackageTests.xctest",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile export")
	assert.Contains(t, err.Error(), "error: corrupt profile")
	assert.NotContains(t, err.Error(), "more detail")
}

func TestDecodeLLVMExport_EmptyData(t *testing.T) {
	_, err := decodeLLVMExport([]byte(`{"data": []}`))
	require.Error(t, err)

	_, err = decodeLLVMExport([]byte("not json"))
	require.Error(t, err)
}
