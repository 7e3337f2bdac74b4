package backend

import (
	"bytes"
	"fmt"
	"strings"
)

func (g *gitCLI) HeadState() (hash string, headName string, ok bool, err error) {
	hash, found, err := g.lookup("rev-parse", "-q", "--verify", "HEAD^{commit}")
	if err != nil || !found || hash == "" {
		return "", "", false, err
	}
	headName, found, err = g.lookup("symbolic-ref", "-q", "--short", "HEAD")
	if err != nil {
		return "", "", false, err
	}
	if !found || headName == "" {
		headName = "HEAD"
	}
	return hash, headName, true, nil
}

func (g *gitCLI) ResolveRevision(rev string) (string, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return "", fmt.Errorf("revision not specified")
	}
	// Leading dashes would be parsed as options.
	if strings.HasPrefix(rev, "-") {
		return "", fmt.Errorf("invalid revision %q", rev)
	}
	hash, found, err := g.lookup("rev-parse", "-q", "--verify", rev+"^{commit}")
	if err != nil {
		return "", err
	}
	if !found || hash == "" {
		return "", fmt.Errorf("unknown revision %q", rev)
	}
	return hash, nil
}

func (g *gitCLI) StartLogStream(fromHash string) (LogStream, error) {
	if g == nil || g.path == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	return startGitLogStream(g.path, fromHash)
}

func (g *gitCLI) LocalChangesStatus() (LocalChanges, error) {
	out, err := g.output("status", "--porcelain=v2", "--untracked-files=no", "-z")
	if err != nil {
		return LocalChanges{}, err
	}
	return parseStatusRecords([]byte(out))
}

// parseStatusRecords reads "git status --porcelain=v2 -z" output. Rename
// records ("2") are followed by an extra field holding the original path.
func parseStatusRecords(out []byte) (LocalChanges, error) {
	var res LocalChanges
	fields := bytes.Split(out, []byte{0})
	for i := 0; i < len(fields); i++ {
		rec := fields[i]
		if len(rec) == 0 {
			continue
		}
		switch rec[0] {
		case '1', '2', 'u':
			if len(rec) < 4 || rec[1] != ' ' {
				return res, fmt.Errorf("malformed status record %q", rec)
			}
			if rec[2] != '.' {
				res.HasStaged = true
			}
			if rec[3] != '.' {
				res.HasWorktree = true
			}
			if rec[0] == '2' {
				i++
			}
		case '#', '?', '!':
		default:
			return res, fmt.Errorf("unknown status record %q", rec)
		}
	}
	return res, nil
}

// refFormat prints the object, the peeled object (tags only) and the full
// ref name of every ref.
const refFormat = "%(objectname) %(*objectname) %(refname)"

func (g *gitCLI) ListRefs() ([]Ref, error) {
	out, err := g.output("for-each-ref", "--format="+refFormat, "refs/heads", "refs/remotes", "refs/tags")
	if err != nil {
		return nil, err
	}
	return parseForEachRef(out)
}

func parseForEachRef(out string) ([]Ref, error) {
	var refs []Ref
	for line := range strings.Lines(out) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		// The peeled column is empty for non-tags, leaving two spaces.
		object, rest, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unexpected for-each-ref line %q", line)
		}
		peeled, name, ok := strings.Cut(rest, " ")
		if !ok || object == "" || name == "" {
			return nil, fmt.Errorf("unexpected for-each-ref line %q", line)
		}
		kind, short, ok := classifyRefName(name)
		if !ok {
			continue
		}
		hash := object
		if peeled != "" {
			hash = peeled
		}
		refs = append(refs, Ref{Hash: hash, Kind: kind, Name: short})
	}
	return refs, nil
}

// classifyRefName maps a full ref name to its kind and short name. Refs that
// are not branches, remote branches or tags are skipped.
func classifyRefName(refName string) (RefKind, string, bool) {
	prefixes := []struct {
		prefix string
		kind   RefKind
	}{
		{"refs/heads/", RefKindBranch},
		{"refs/remotes/", RefKindRemoteBranch},
		{"refs/tags/", RefKindTag},
	}
	for _, p := range prefixes {
		if short, ok := strings.CutPrefix(refName, p.prefix); ok {
			return p.kind, short, short != ""
		}
	}
	return 0, "", false
}
