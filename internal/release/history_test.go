package release

import (
	"context"
	"slices"
	"testing"

	"github.com/thiagokokada/relpick/internal/git"
	"github.com/thiagokokada/relpick/internal/gittest"
)

func TestOrder_SameSecondSeriesReplaysParentsFirst(t *testing.T) {
	t.Parallel()

	// A rebased series: every commit shares one timestamp second.
	repo := gittest.New(t)
	want := repo.Commit(t,
		gittest.Commit{Message: "PROJ-1: parent", When: gittest.Epoch(100)},
		gittest.Commit{Message: "PROJ-1: child", When: gittest.Epoch(100)},
		gittest.Commit{Message: "PROJ-2: grandchild", When: gittest.Epoch(100)},
	)

	svc, err := git.Open(repo.Dir, git.BackendNative)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	keys := []string{"PROJ-2", "PROJ-1"}
	m, err := Locate(context.Background(), svc, keys, LocateOptions{})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	for _, by := range []SortKey{SortByAuthor, SortByCommitter} {
		ordered, _ := Order(m, keys, by)
		if got := hashes(ordered); !slices.Equal(got, want) {
			t.Fatalf("%s order = %v, want parent first %v", by, got, want)
		}
	}
}
