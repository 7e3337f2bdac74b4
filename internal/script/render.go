// Package script renders and writes the cherry-pick shell script of a plan.
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/thiagokokada/relpick/internal/release"
)

const (
	Shebang     = "#!/bin/bash"
	DoneMessage = "Cherry-picking completed successfully!"
	timeLayout  = "2006-01-02 15:04:05"
)

type Options struct {
	TargetBranch string
	// StrategyOption is passed to every cherry-pick as -X. Empty disables it.
	StrategyOption string
	// RecordOrigin adds -x so picked commits mention their source hash.
	RecordOrigin bool
	GeneratedAt  time.Time
	Version      string
}

// DefaultOutput is the script path used when none is given.
func DefaultOutput(releaseID string) string {
	return fmt.Sprintf("cherry_pick_release_%s.sh", sanitizeFileName(releaseID))
}

// Render writes the script for plan to w. The script stops at the first
// failing command, so a conflicting pick leaves the repository mid-pick for
// the operator to resolve.
func Render(w io.Writer, plan *release.Plan, opts Options) error {
	if strings.TrimSpace(opts.TargetBranch) == "" {
		return fmt.Errorf("target branch not specified")
	}
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p(Shebang)
	p("")
	p("# Cherry-pick script for release %s", comment(plan.Release.Label()))
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	p("# Generated on %s", generated.Format(timeLayout))
	if opts.Version != "" {
		p("# Generated by %s", comment(opts.Version))
	}
	p("# Issues: %d, commits: %d, unmatched issues: %d", len(plan.Issues), len(plan.Commits), len(plan.Unmatched))
	if len(plan.Unmatched) > 0 {
		p("# Unmatched: %s", comment(strings.Join(plan.Unmatched, ", ")))
	}
	p("")
	p("# Exit on error")
	p("set -e")
	p("")
	p("# Checkout the target branch")
	p("%s", shellquote.Join("git", "checkout", opts.TargetBranch))
	p("")
	if len(plan.Commits) > 0 {
		p("# Cherry-pick each commit")
		p("")
	}
	for _, m := range plan.Commits {
		p("# %s: %s", strings.Join(m.Keys, ", "), comment(m.Commit.Subject()))
		p("%s", shellquote.Join(PickArgs(m, opts)...))
		p("")
	}
	p("echo %s", shellquote.Join(DoneMessage))
	return bw.Flush()
}

// PickArgs returns the git command line replaying m.
func PickArgs(m *release.Match, opts Options) []string {
	args := []string{"git", "cherry-pick"}
	if opts.RecordOrigin {
		args = append(args, "-x")
	}
	if opts.StrategyOption != "" {
		args = append(args, "-X", opts.StrategyOption)
	}
	if len(m.Commit.ParentHashes) > 1 {
		args = append(args, "-m", "1")
	}
	return append(args, m.Commit.Hash)
}

// comment keeps untrusted text on a single comment line.
func comment(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
}
