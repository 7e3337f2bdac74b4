package release

import (
	"cmp"
	"log/slog"
	"regexp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// keyToken finds candidate issue keys: a project key, a dash and a number,
// delimited by word boundaries on both sides. "PROJ-12" inside "PROJ-123" or
// "xPROJ-12" is not a token.
var (
	keyToken    = regexp.MustCompile(`\b[A-Za-z][A-Za-z0-9_]*-[0-9]+\b`)
	keyTokenAll = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-[0-9]+$`)
)

// Matcher finds references to a fixed set of issue keys in commit messages.
// Matching is case-sensitive and exact per token.
type Matcher struct {
	keys  mapset.Set[string]
	order map[string]int
}

// NewMatcher builds a matcher for keys. Duplicates are ignored; the first
// occurrence fixes a key's position in results.
func NewMatcher(keys []string) *Matcher {
	m := &Matcher{
		keys:  mapset.NewThreadUnsafeSet[string](),
		order: make(map[string]int, len(keys)),
	}
	for _, key := range keys {
		if !m.keys.Add(key) {
			continue
		}
		m.order[key] = len(m.order)
		if !keyTokenAll.MatchString(key) {
			slog.Warn("Issue key can never match a commit message", slog.String("key", key))
		}
	}
	return m
}

func (m *Matcher) Len() int {
	return m.keys.Cardinality()
}

// Keys returns the known keys referenced by message, each once, ordered as
// they were given to NewMatcher.
func (m *Matcher) Keys(message string) []string {
	if m.keys.Cardinality() == 0 {
		return nil
	}
	found := mapset.NewThreadUnsafeSet[string]()
	for _, token := range keyToken.FindAllString(message, -1) {
		if m.keys.Contains(token) {
			found.Add(token)
		}
	}
	if found.Cardinality() == 0 {
		return nil
	}
	keys := found.ToSlice()
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Compare(m.order[a], m.order[b])
	})
	return keys
}
