package git

import "fmt"

// HasLocalChanges reports whether the worktree or the index differ from HEAD.
// Untracked files are ignored.
func (s *Service) HasLocalChanges() (bool, error) {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return false, fmt.Errorf("repository root not set")
	}
	changes, err := s.backend.LocalChangesStatus()
	if err != nil {
		return false, err
	}
	return changes.HasWorktree || changes.HasStaged, nil
}
