package script

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/thiagokokada/relpick/internal/git"
	"github.com/thiagokokada/relpick/internal/release"
)

var generatedAt = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func match(hash, msg string, keys ...string) *release.Match {
	return &release.Match{
		Commit: &git.Commit{
			Hash:         hash,
			ParentHashes: []string{"p"},
			Author:       git.Signature{Name: "Alice", When: generatedAt},
			Committer:    git.Signature{Name: "Bob", When: generatedAt},
			Message:      msg,
		},
		Keys: keys,
	}
}

func samplePlan() *release.Plan {
	return &release.Plan{
		Release: release.Release{ID: "42", TrackerID: "10042", Name: "v1.0"},
		Issues:  []release.Issue{{Key: "PROJ-1"}, {Key: "PROJ-2"}, {Key: "PROJ-3"}},
		Commits: []*release.Match{
			match("c2", "first half\n\nbody", "PROJ-2"),
			match("c1", "shared fix", "PROJ-1", "PROJ-2"),
		},
		Unmatched: []string{"PROJ-3"},
	}
}

func render(t *testing.T, plan *release.Plan, opts Options) string {
	t.Helper()
	var b strings.Builder
	if err := Render(&b, plan, opts); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return b.String()
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := render(t, samplePlan(), Options{
		TargetBranch:   "release/v1.0",
		StrategyOption: "theirs",
		GeneratedAt:    generatedAt,
		Version:        "relpick v1.2.3",
	})
	want := `#!/bin/bash

# Cherry-pick script for release v1.0 (42)
# Generated on 2024-03-01 12:30:00
# Generated by relpick v1.2.3
# Issues: 3, commits: 2, unmatched issues: 1
# Unmatched: PROJ-3

# Exit on error
set -e

# Checkout the target branch
git checkout release/v1.0

# Cherry-pick each commit

# PROJ-2: first half
git cherry-pick -X theirs c2

# PROJ-1, PROJ-2: shared fix
git cherry-pick -X theirs c1

echo 'Cherry-picking completed successfully!'
`
	if got != want {
		t.Fatalf("unexpected script:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_CommitLinesFollowPlanOrder(t *testing.T) {
	t.Parallel()

	got := render(t, samplePlan(), Options{TargetBranch: "main", GeneratedAt: generatedAt})
	var picks []string
	for line := range strings.Lines(got) {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "git cherry-pick "); ok {
			picks = append(picks, rest)
		}
	}
	if !slices.Equal(picks, []string{"c2", "c1"}) {
		t.Fatalf("picks = %v", picks)
	}
	setE := strings.Index(got, "\nset -e\n")
	checkout := strings.Index(got, "\ngit checkout main\n")
	if setE < 0 || checkout < 0 || setE > checkout {
		t.Fatalf("set -e must precede the checkout:\n%s", got)
	}
}

func TestRender_HeaderOnlyWithoutCommits(t *testing.T) {
	t.Parallel()

	plan := &release.Plan{Release: release.Release{ID: "7", Name: "empty"}}
	got := render(t, plan, Options{TargetBranch: "main", GeneratedAt: generatedAt})
	if strings.Contains(got, "cherry-pick ") {
		t.Fatalf("unexpected cherry-pick in empty script:\n%s", got)
	}
	for _, want := range []string{Shebang + "\n", "set -e\n", "git checkout main\n", "echo 'Cherry-picking completed successfully!'\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("script missing %q:\n%s", want, got)
		}
	}
}

func TestRender_QuotesArguments(t *testing.T) {
	t.Parallel()

	plan := &release.Plan{
		Release: release.Release{ID: "1", Name: "multi\nline"},
		Commits: []*release.Match{match("abc", "$(rm -rf /)\nsecond line", "A-1")},
	}
	got := render(t, plan, Options{
		TargetBranch:   "my branch",
		StrategyOption: "ignore-space-change",
		RecordOrigin:   true,
		GeneratedAt:    generatedAt,
	})
	for _, want := range []string{
		"# Cherry-pick script for release multi line (1)\n",
		"git checkout 'my branch'\n",
		"# A-1: $(rm -rf /)\n",
		"git cherry-pick -x -X ignore-space-change abc\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("script missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "second line") {
		t.Fatalf("only the subject should be rendered:\n%s", got)
	}
}

func TestRender_RequiresTargetBranch(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	if err := Render(&b, samplePlan(), Options{TargetBranch: " "}); err == nil {
		t.Fatalf("expected an error without a target branch")
	}
}

func TestPickArgs(t *testing.T) {
	t.Parallel()

	merge := match("m1", "A-1: merge", "A-1")
	merge.Commit.ParentHashes = []string{"p1", "p2"}

	tests := []struct {
		name string
		m    *release.Match
		opts Options
		want []string
	}{
		{name: "plain", m: match("c1", "x"), want: []string{"git", "cherry-pick", "c1"}},
		{name: "record_origin", m: match("c1", "x"), opts: Options{RecordOrigin: true}, want: []string{"git", "cherry-pick", "-x", "c1"}},
		{name: "strategy", m: match("c1", "x"), opts: Options{StrategyOption: "theirs"}, want: []string{"git", "cherry-pick", "-X", "theirs", "c1"}},
		{name: "merge", m: merge, want: []string{"git", "cherry-pick", "-m", "1", "m1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PickArgs(tt.m, tt.opts); !slices.Equal(got, tt.want) {
				t.Fatalf("PickArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want string
	}{
		{id: "1234", want: "cherry_pick_release_1234.sh"},
		{id: "v1.0", want: "cherry_pick_release_v1.0.sh"},
		{id: "../etc/x y", want: "cherry_pick_release_.._etc_x_y.sh"},
	}
	for _, tt := range tests {
		if got := DefaultOutput(tt.id); got != tt.want {
			t.Fatalf("DefaultOutput(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
