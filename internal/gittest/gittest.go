// Package gittest builds throwaway repositories for tests with go-git, so
// commit timestamps are deterministic and no git executable is needed.
package gittest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit describes one commit to create.
type Commit struct {
	Message string
	// When is used as both author and committer time unless CommitterWhen is set.
	When          time.Time
	CommitterWhen time.Time
}

// Repo is a repository created in a temporary directory.
type Repo struct {
	Dir  string
	repo *gitlib.Repository
	n    int
}

// Epoch returns a UTC time sec seconds after a fixed base instant.
func Epoch(sec int64) time.Time {
	return time.Unix(1_700_000_000+sec, 0).UTC()
}

// New initializes an empty repository on branch main.
func New(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitlib.PlainInitWithOptions(dir, &gitlib.PlainInitOptions{
		InitOptions: gitlib.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("init repository: %v", err)
	}
	return &Repo{Dir: dir, repo: repo}
}

// Commit creates the given commits in order and returns their hashes.
func (r *Repo) Commit(t testing.TB, commits ...Commit) []string {
	t.Helper()
	wt, err := r.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	hashes := make([]string, 0, len(commits))
	for _, c := range commits {
		r.n++
		name := fmt.Sprintf("file%d.txt", r.n)
		if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(c.Message), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := wt.Add(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		committerWhen := c.CommitterWhen
		if committerWhen.IsZero() {
			committerWhen = c.When
		}
		hash, err := wt.Commit(c.Message, &gitlib.CommitOptions{
			Author:    &object.Signature{Name: "Alice", Email: "alice@example.com", When: c.When},
			Committer: &object.Signature{Name: "Bob", Email: "bob@example.com", When: committerWhen},
		})
		if err != nil {
			t.Fatalf("commit %q: %v", c.Message, err)
		}
		hashes = append(hashes, hash.String())
	}
	return hashes
}

// Branch creates a local branch pointing at HEAD.
func (r *Repo) Branch(t testing.TB, name string) {
	t.Helper()
	head, err := r.repo.Head()
	if err != nil {
		t.Fatalf("resolve HEAD: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash())
	if err := r.repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("create branch %s: %v", name, err)
	}
}

// Touch modifies a tracked file without committing it.
func (r *Repo) Touch(t testing.TB) {
	t.Helper()
	if r.n == 0 {
		t.Fatal("Touch needs at least one commit")
	}
	name := filepath.Join(r.Dir, fmt.Sprintf("file%d.txt", r.n))
	if err := os.WriteFile(name, []byte("dirty"), 0o644); err != nil {
		t.Fatalf("touch %s: %v", name, err)
	}
}
