// Package coverage locates build coverage artifacts, drives the external
// conversion tools and narrows the converted report to the tested target.
package coverage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// rawProfileDirs are the per-architecture/configuration SwiftPM output
// directories searched for raw profiles, in priority order.
var rawProfileDirs = []string{
	".build/debug/codecov",
	".build/arm64-apple-macosx/debug/codecov",
	".build/x86_64-apple-macosx/debug/codecov",
	".build/release/codecov",
}

// resultBundleMaxDepth bounds the recursive .xcresult search below each root.
const resultBundleMaxDepth = 6

// RawProfileArtifact describes a located raw-profile coverage artifact.
// Indexed is set when the build already merged the raw profiles into a
// .profdata file, in which case the merge step is skipped.
type RawProfileArtifact struct {
	Profiles []string
	Indexed  string
	Binary   string
}

// Locator performs the read-only artifact discovery. Missing directories are
// tolerated silently.
type Locator struct {
	workDir     string
	derivedData string
}

// NewLocator constructs a Locator rooted at workDir. The Xcode DerivedData
// directory of the current user is included in the result-bundle search.
func NewLocator(workDir string) *Locator {
	derivedData := ""
	if home, err := os.UserHomeDir(); err == nil {
		derivedData = filepath.Join(home, "Library", "Developer", "Xcode", "DerivedData")
	}

	return &Locator{workDir: workDir, derivedData: derivedData}
}

// FindRawProfiles returns the first raw-profile directory, in the fixed
// search order, that contains profile data.
func (l *Locator) FindRawProfiles() (RawProfileArtifact, bool) {
	for _, dir := range rawProfileDirs {
		abs := filepath.Join(l.workDir, dir)

		artifact, ok := l.collectProfiles(abs)
		if ok {
			return artifact, true
		}
	}

	return RawProfileArtifact{}, false
}

// CollectProfilesAt inspects an explicitly requested directory for profile
// data, bypassing the fixed search order.
func (l *Locator) CollectProfilesAt(dir string) (RawProfileArtifact, bool) {
	return l.collectProfiles(dir)
}

func (l *Locator) collectProfiles(dir string) (RawProfileArtifact, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return RawProfileArtifact{}, false
	}

	artifact := RawProfileArtifact{}

	var newestIndexed time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		switch {
		case strings.HasSuffix(entry.Name(), ".profraw"):
			artifact.Profiles = append(artifact.Profiles, path)
		case strings.HasSuffix(entry.Name(), ".profdata"):
			info, infoErr := entry.Info()
			if infoErr != nil {
				continue
			}

			if artifact.Indexed == "" || info.ModTime().After(newestIndexed) {
				artifact.Indexed = path
				newestIndexed = info.ModTime()
			}
		}
	}

	if artifact.Indexed == "" && len(artifact.Profiles) == 0 {
		return RawProfileArtifact{}, false
	}

	artifact.Binary = l.findTestBinary(dir)

	return artifact, true
}

// findTestBinary looks for the test bundle executable next to the codecov
// directory: <cfg>/<Pkg>PackageTests.xctest/Contents/MacOS/<binary> on macOS,
// or the .xctest file itself on Linux where it is a plain executable.
func (l *Locator) findTestBinary(codecovDir string) string {
	buildDir := filepath.Dir(codecovDir)

	bundles, _ := filepath.Glob(filepath.Join(buildDir, "*.xctest"))
	for _, bundle := range bundles {
		info, err := os.Stat(bundle)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			return bundle
		}

		execs, _ := filepath.Glob(filepath.Join(bundle, "Contents", "MacOS", "*"))
		for _, candidate := range execs {
			if stat, statErr := os.Stat(candidate); statErr == nil && !stat.IsDir() {
				return candidate
			}
		}
	}

	return ""
}

// FindResultBundle returns the newest .xcresult bundle under the fixed
// search roots, searched recursively with a bounded depth.
func (l *Locator) FindResultBundle() (string, bool) {
	roots := []string{
		l.workDir,
		filepath.Join(l.workDir, "build"),
	}
	if l.derivedData != "" {
		roots = append(roots, l.derivedData)
	}

	newest := ""

	var newestTime time.Time

	for _, root := range roots {
		bundle, modTime, ok := newestBundleUnder(root)
		if ok && (newest == "" || modTime.After(newestTime)) {
			newest = bundle
			newestTime = modTime
		}
	}

	return newest, newest != ""
}

func newestBundleUnder(root string) (string, time.Time, bool) {
	newest := ""

	var newestTime time.Time

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}

		if !d.IsDir() {
			return nil
		}

		if d.Name() == ".git" || depthBelow(root, path) > resultBundleMaxDepth {
			return fs.SkipDir
		}

		if strings.HasSuffix(d.Name(), ".xcresult") {
			if info, infoErr := d.Info(); infoErr == nil {
				if newest == "" || info.ModTime().After(newestTime) {
					newest = path
					newestTime = info.ModTime()
				}
			}

			return fs.SkipDir
		}

		return nil
	})

	return newest, newestTime, newest != ""
}

func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}
