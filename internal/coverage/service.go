package coverage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ldomaradzki/xcsift-sub001/internal/adapter"
	m "github.com/ldomaradzki/xcsift-sub001/internal/model"
)

// Service ties discovery, conversion and target filtering together. Pipeline
// failures degrade to "no coverage" with a diagnostic on the side channel;
// only an explicitly requested but absent artifact path is an error.
type Service struct {
	locator  *Locator
	profiles *ProfileConverter
	bundles  *BundleConverter
	diag     io.Writer
}

// NewService constructs a Service rooted at workDir. Diagnostics are written
// to diag, which is distinct from the primary output stream.
func NewService(workDir string, runner adapter.CommandRunner, diag io.Writer) *Service {
	return &Service{
		locator:  NewLocator(workDir),
		profiles: NewProfileConverter(runner),
		bundles:  NewBundleConverter(runner),
		diag:     diag,
	}
}

// Collect locates a coverage artifact, converts it and filters it to the
// tested target. A nil report with a nil error means coverage is unavailable;
// the reason has been written to the diagnostic stream.
func (s *Service) Collect(ctx context.Context, target, explicitPath string) (*m.CodeCoverage, error) {
	if explicitPath != "" {
		return s.collectExplicit(ctx, target, explicitPath)
	}

	if artifact, ok := s.locator.FindRawProfiles(); ok {
		slog.Debug("raw coverage profiles located", "indexed", artifact.Indexed, "profiles", len(artifact.Profiles))

		cov, err := s.profiles.Convert(ctx, artifact)
		if err != nil {
			s.diagnose("coverage: %v", err)
			return nil, nil
		}

		return cov, nil
	}

	if bundle, ok := s.locator.FindResultBundle(); ok {
		slog.Debug("result bundle located", "bundle", bundle)
		return s.convertBundle(ctx, target, bundle), nil
	}

	s.diagnose("coverage: no coverage artifacts found")

	return nil, nil
}

func (s *Service) collectExplicit(ctx context.Context, target, path string) (*m.CodeCoverage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("coverage path %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".xcresult") {
		return s.convertBundle(ctx, target, path), nil
	}

	artifact := RawProfileArtifact{}

	switch {
	case info.IsDir():
		found, ok := s.locator.CollectProfilesAt(path)
		if !ok {
			s.diagnose("coverage: no profiles in %s", path)
			return nil, nil
		}

		artifact = found
	case strings.HasSuffix(path, ".profdata"):
		artifact.Indexed = path
	default:
		artifact.Profiles = []string{path}
	}

	if artifact.Binary == "" {
		if located, ok := s.locator.FindRawProfiles(); ok {
			artifact.Binary = located.Binary
		}
	}

	cov, convErr := s.profiles.Convert(ctx, artifact)
	if convErr != nil {
		s.diagnose("coverage: %v", convErr)
		return nil, nil
	}

	return cov, nil
}

// convertBundle runs the result-bundle pipeline. Target filtering applies
// only here: the raw-profile pipeline is already scoped to the test binary.
func (s *Service) convertBundle(ctx context.Context, target, bundle string) *m.CodeCoverage {
	cov, err := s.bundles.Convert(ctx, bundle)
	if err != nil {
		s.diagnose("coverage: %v", err)
		return nil
	}

	filtered, err := FilterByTarget(cov, target)
	if err != nil {
		s.diagnose("coverage: target %q detected but no coverage files matched; keeping unfiltered report", target)
		return cov
	}

	return filtered
}

func (s *Service) diagnose(format string, args ...interface{}) {
	if s.diag == nil {
		return
	}

	fmt.Fprintf(s.diag, format+"\n", args...)
}
