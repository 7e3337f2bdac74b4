package git

import (
	"fmt"
	"strings"

	gitbackend "github.com/thiagokokada/relpick/internal/git/backend"
)

// HasLocalBranch reports whether refs/heads/<name> exists.
func (s *Service) HasLocalBranch(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("branch not specified")
	}
	if s.backend == nil || s.backend.RepoPath() == "" {
		return false, fmt.Errorf("repository root not set")
	}
	refs, err := s.backend.ListRefs()
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if ref.Kind == gitbackend.RefKindBranch && ref.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// HasRemoteBranch reports whether any remote tracks a branch called name,
// e.g. origin/<name>.
func (s *Service) HasRemoteBranch(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("branch not specified")
	}
	if s.backend == nil || s.backend.RepoPath() == "" {
		return false, fmt.Errorf("repository root not set")
	}
	refs, err := s.backend.ListRefs()
	if err != nil {
		return false, err
	}
	for _, ref := range refs {
		if ref.Kind != gitbackend.RefKindRemoteBranch {
			continue
		}
		if _, branch, ok := strings.Cut(ref.Name, "/"); ok && branch == name {
			return true, nil
		}
	}
	return false, nil
}
