package backend

import (
	"cmp"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// ErrGitTooOld is returned by OpenCLI when the git executable predates
// "git status --porcelain=v2" and the %aI/%cI log placeholders.
var ErrGitTooOld = errors.New("git is too old")

var minGitVersion = gitVersion{2, 23, 0}

// gitVersion is major, minor and patch.
type gitVersion [3]int

var gitVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

func MinGitVersion() string {
	return minGitVersion.String()
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

func (v gitVersion) compare(other gitVersion) int {
	for i := range v {
		if c := cmp.Compare(v[i], other[i]); c != 0 {
			return c
		}
	}
	return 0
}

// parseGitVersionOutput takes the first dotted number in "git --version"
// output, which also covers vendor suffixes such as "(Apple Git-146)" and
// ".windows.1".
func parseGitVersionOutput(out string) (gitVersion, bool) {
	m := gitVersionPattern.FindStringSubmatch(out)
	if m == nil {
		return gitVersion{}, false
	}
	var v gitVersion
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return gitVersion{}, false
		}
		v[i] = n
	}
	return v, true
}

func validateGitVersionOutput(out string) error {
	got, ok := parseGitVersionOutput(out)
	if !ok {
		return fmt.Errorf("unable to parse git version output: %q", strings.TrimSpace(out))
	}
	if got.compare(minGitVersion) < 0 {
		return fmt.Errorf("%w: found %s, relpick requires git >= %s", ErrGitTooOld, got, minGitVersion)
	}
	return nil
}

var gitVersionOutput = sync.OnceValues(func() (string, error) {
	path, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git executable not found: %w", err)
	}
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}
	return strings.TrimSpace(string(out)), nil
})

// GitVersion returns the raw "git --version" output.
func GitVersion() (string, error) {
	return gitVersionOutput()
}

func ensureMinGitVersion() error {
	out, err := gitVersionOutput()
	if err != nil {
		return err
	}
	return validateGitVersionOutput(out)
}
