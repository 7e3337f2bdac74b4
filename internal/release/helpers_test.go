package release

import (
	"context"
	"time"

	"github.com/thiagokokada/relpick/internal/git"
)

func at(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func commit(hash string, sec int64, msg string) *git.Commit {
	return &git.Commit{
		Hash:         hash,
		ParentHashes: []string{"parent"},
		Author:       git.Signature{Name: "Alice", When: at(sec)},
		Committer:    git.Signature{Name: "Bob", When: at(sec)},
		Message:      msg,
	}
}

// fakeHistory replays commits newest first, like a real walk.
type fakeHistory struct {
	commits []*git.Commit
	err     error
	walks   int
	lastRev string
}

func (f *fakeHistory) Walk(ctx context.Context, rev string, fn func(*git.Commit) error) error {
	f.walks++
	f.lastRev = rev
	if f.err != nil {
		return f.err
	}
	for _, c := range f.commits {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func hashes(matches []*Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Commit.Hash)
	}
	return out
}
