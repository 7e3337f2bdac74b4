package release

import (
	"context"
	"log/slog"

	"github.com/thiagokokada/relpick/internal/git"
)

// CommitSource walks repository history newest first.
type CommitSource interface {
	Walk(ctx context.Context, rev string, fn func(*git.Commit) error) error
}

// Matches maps issue keys to the commits referencing them.
type Matches struct {
	// ByKey holds the commits of each key in discovery order.
	ByKey map[string][]*Match
	// Found holds every matching commit in discovery order.
	Found []*Match
	// Scanned is the number of commits walked.
	Scanned int
	// SkippedMerges counts merge commits that referenced a key but were left out.
	SkippedMerges int
}

type LocateOptions struct {
	// Rev is the revision to walk from; empty means HEAD.
	Rev string
	// IncludeMerges keeps merge commits. They are skipped by default since
	// their messages usually only name the merged branch.
	IncludeMerges bool
}

// Locate walks src and records every commit whose message references one of
// keys.
func Locate(ctx context.Context, src CommitSource, keys []string, opts LocateOptions) (*Matches, error) {
	matcher := NewMatcher(keys)
	res := &Matches{ByKey: make(map[string][]*Match, matcher.Len())}
	if matcher.Len() == 0 {
		return res, nil
	}
	err := src.Walk(ctx, opts.Rev, func(c *git.Commit) error {
		seq := res.Scanned
		res.Scanned++
		found := matcher.Keys(c.Message)
		if len(found) == 0 {
			return nil
		}
		if len(c.ParentHashes) > 1 && !opts.IncludeMerges {
			res.SkippedMerges++
			slog.Debug("Skipping merge commit", slog.String("commit", c.ShortHash()), slog.Any("keys", found))
			return nil
		}
		m := &Match{Commit: c, Keys: found, Seq: seq}
		res.Found = append(res.Found, m)
		for _, key := range found {
			res.ByKey[key] = append(res.ByKey[key], m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Scanned history",
		slog.Int("commits", res.Scanned),
		slog.Int("matching", len(res.Found)),
		slog.Int("skipped_merges", res.SkippedMerges),
	)
	return res, nil
}
