package coverage

import (
	"errors"
	"strings"

	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// ErrNoTargetMatch reports that a tested-target name was captured but no
// coverage file path belongs to it. The caller surfaces a diagnostic and
// keeps the unfiltered report.
var ErrNoTargetMatch = errors.New("no coverage files match the tested target")

// FilterByTarget narrows cov to the files whose path contains a segment
// matching the tested target and recomputes the aggregate percentage over the
// retained subset. With an empty target the report is returned unchanged.
func FilterByTarget(cov *m.CodeCoverage, target string) (*m.CodeCoverage, error) {
	if cov == nil || target == "" {
		return cov, nil
	}

	candidates := targetCandidates(target)

	filtered := &m.CodeCoverage{}

	for _, file := range cov.Files {
		if pathMatchesTarget(string(file.Path), candidates) {
			filtered.Files = append(filtered.Files, file)
		}
	}

	if len(filtered.Files) == 0 {
		return cov, ErrNoTargetMatch
	}

	filtered.Recompute()

	return filtered, nil
}

// targetCandidates expands the captured target name with its module-name
// forms: the test bundle "FooPackageTests" and suite "FooTests" both cover
// the module "Foo".
func targetCandidates(target string) []string {
	candidates := []string{target}

	for _, suffix := range []string{"PackageTests", "Tests"} {
		trimmed := strings.TrimSuffix(target, suffix)
		if trimmed != target && trimmed != "" {
			candidates = append(candidates, trimmed)
		}
	}

	return candidates
}

func pathMatchesTarget(path string, candidates []string) bool {
	for _, segment := range strings.Split(path, "/") {
		for _, candidate := range candidates {
			if segment == candidate {
				return true
			}
		}
	}

	return false
}
