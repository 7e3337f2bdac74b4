package backend

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type nativeRepo struct {
	path string
	repo *gitlib.Repository
}

// OpenNative opens the repository containing repoPath with go-git. It does not
// need a git executable.
func OpenNative(repoPath string) (Backend, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	root := abs
	if wt, err := repo.Worktree(); err == nil {
		root = wt.Filesystem.Root()
	}
	return &nativeRepo{path: root, repo: repo}, nil
}

func (n *nativeRepo) RepoPath() string {
	if n == nil {
		return ""
	}
	return n.path
}

func (n *nativeRepo) HeadState() (hash string, headName string, ok bool, err error) {
	ref, err := n.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", "", false, nil
		}
		return "", "", false, fmt.Errorf("resolve HEAD: %w", err)
	}
	headName = "HEAD"
	if ref.Name().IsBranch() {
		headName = ref.Name().Short()
	}
	return ref.Hash().String(), headName, true, nil
}

func (n *nativeRepo) ResolveRevision(rev string) (string, error) {
	rev = strings.TrimSpace(rev)
	if rev == "" {
		return "", fmt.Errorf("revision not specified")
	}
	hash, err := n.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	return hash.String(), nil
}

func (n *nativeRepo) StartLogStream(fromHash string) (LogStream, error) {
	fromHash = strings.TrimSpace(fromHash)
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}
	iter, err := n.repo.Log(&gitlib.LogOptions{
		From:  plumbing.NewHash(fromHash),
		Order: gitlib.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("read commits: %w", err)
	}
	return &nativeLogStream{iter: iter}, nil
}

func (n *nativeRepo) ListRefs() ([]Ref, error) {
	iter, err := n.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer iter.Close()

	var refs []Ref
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		kind, short, ok := classifyRefName(ref.Name().String())
		if !ok {
			return nil
		}
		hash := ref.Hash()
		if kind == RefKindTag {
			// Annotated tags point at a tag object; report the tagged commit.
			if tag, err := n.repo.TagObject(hash); err == nil {
				if commit, err := tag.Commit(); err == nil {
					hash = commit.Hash
				}
			}
		}
		refs = append(refs, Ref{Hash: hash.String(), Kind: kind, Name: short})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	return refs, nil
}

func (n *nativeRepo) LocalChangesStatus() (LocalChanges, error) {
	var res LocalChanges
	wt, err := n.repo.Worktree()
	if err != nil {
		if errors.Is(err, gitlib.ErrIsBareRepository) {
			return res, nil
		}
		return res, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return res, fmt.Errorf("worktree status: %w", err)
	}
	for _, fs := range status {
		if fs.Staging != gitlib.Unmodified && fs.Staging != gitlib.Untracked {
			res.HasStaged = true
		}
		if fs.Worktree != gitlib.Unmodified && fs.Worktree != gitlib.Untracked {
			res.HasWorktree = true
		}
		if res.HasStaged && res.HasWorktree {
			break
		}
	}
	return res, nil
}

type nativeLogStream struct {
	iter object.CommitIter
}

func (s *nativeLogStream) Next() (*Commit, error) {
	c, err := s.iter.Next()
	if err != nil {
		return nil, err
	}
	return convertCommit(c), nil
}

func (s *nativeLogStream) Close() error {
	s.iter.Close()
	return nil
}

func convertCommit(c *object.Commit) *Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return &Commit{
		Hash:         c.Hash.String(),
		ParentHashes: parents,
		Author:       Signature{Name: c.Author.Name, Email: c.Author.Email, When: c.Author.When},
		Committer:    Signature{Name: c.Committer.Name, Email: c.Committer.Email, When: c.Committer.When},
		Message:      c.Message,
	}
}
