package script

import (
	"slices"
	"strings"
	"testing"
)

func TestManifest(t *testing.T) {
	t.Parallel()

	plan := samplePlan()
	plan.Commits[1].Commit.ParentHashes = []string{"p1", "p2"}
	m := NewManifest(plan, Options{TargetBranch: "release/v1.0", GeneratedAt: generatedAt})

	data, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"targetBranch: release/v1.0\n",
		"  trackerId: \"10042\"\n",
		"  - sha: c2\n",
		"    subject: first half\n",
		"    merge: true\n",
		"unmatched:\n  - PROJ-3\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("manifest missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "sha: c2") > strings.Index(text, "sha: c1") {
		t.Fatalf("manifest must keep replay order:\n%s", text)
	}

	back, err := ReadManifest(data)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if back.Release.ID != "42" || back.Release.Issues != 3 {
		t.Fatalf("release = %+v", back.Release)
	}
	if len(back.Commits) != 2 || !slices.Equal(back.Commits[1].Keys, []string{"PROJ-1", "PROJ-2"}) {
		t.Fatalf("commits = %+v", back.Commits)
	}
	if !back.GeneratedAt.Equal(generatedAt) {
		t.Fatalf("generatedAt = %v", back.GeneratedAt)
	}
}

func TestManifest_EmptyPlanHasNoUnmatched(t *testing.T) {
	t.Parallel()

	plan := samplePlan()
	plan.Commits = nil
	plan.Unmatched = nil
	data, err := NewManifest(plan, Options{TargetBranch: "main", GeneratedAt: generatedAt}).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), "unmatched") {
		t.Fatalf("unexpected unmatched section:\n%s", data)
	}
	if !strings.Contains(string(data), "commits: []\n") {
		t.Fatalf("expected an empty commit list:\n%s", data)
	}
}
