package release

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/thiagokokada/relpick/internal/git"
)

type SortKey string

const (
	SortByAuthor    SortKey = "author"
	SortByCommitter SortKey = "committer"
)

func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortByAuthor:
		return SortByAuthor, nil
	case SortByCommitter:
		return SortByCommitter, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want %s or %s)", raw, SortByAuthor, SortByCommitter)
	}
}

func (k SortKey) timestamp(c *git.Commit) time.Time {
	if k == SortByCommitter {
		return c.Committer.When
	}
	return c.Author.When
}

// Order flattens m into distinct commits sorted by timestamp ascending. Ties
// are broken by reverse discovery order, so a parent precedes its children.
// keys is the release's issue keys in fetch order; those without any commit
// are returned as unmatched and logged.
func Order(m *Matches, keys []string, by SortKey) (ordered []*Match, unmatched []string) {
	byHash := make(map[string]*Match)
	seenKeys := mapset.NewThreadUnsafeSetWithSize[string](len(keys))
	for _, key := range keys {
		if !seenKeys.Add(key) {
			continue
		}

		matches := m.ByKey[key]
		if len(matches) == 0 {
			unmatched = append(unmatched, key)
			slog.Warn("No commits found for issue; leaving it out", slog.String("key", key))
			continue
		}
		for _, match := range matches {
			hash := match.Commit.Hash
			existing, ok := byHash[hash]
			if !ok {
				merged := &Match{Commit: match.Commit, Keys: slices.Clone(match.Keys), Seq: match.Seq}
				byHash[hash] = merged
				ordered = append(ordered, merged)
				continue
			}
			existing.Seq = min(existing.Seq, match.Seq)
			for _, k := range match.Keys {
				if !slices.Contains(existing.Keys, k) {
					existing.Keys = append(existing.Keys, k)
				}
			}
		}
	}

	slices.SortStableFunc(ordered, func(a, b *Match) int {
		if c := by.timestamp(a.Commit).Compare(by.timestamp(b.Commit)); c != 0 {
			return c
		}
		// History is walked newest first, so a later find is an ancestor
		// and must be replayed first.
		return cmp.Compare(b.Seq, a.Seq)
	})
	return ordered, unmatched
}
