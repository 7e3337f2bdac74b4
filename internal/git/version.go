package git

import gitbackend "github.com/thiagokokada/relpick/internal/git/backend"

// GitVersion returns the "git --version" output of the executable used by
// the cli backend.
func GitVersion() (string, error) {
	return gitbackend.GitVersion()
}

func MinGitVersion() string {
	return gitbackend.MinGitVersion()
}
