package backend

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CommandError is a git invocation that exited unsuccessfully.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := "git " + strings.Join(e.Args, " ")
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	return msg + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

type gitCLI struct {
	path string
}

// OpenCLI opens the repository containing repoPath using the git executable.
func OpenCLI(repoPath string) (Backend, error) {
	if err := ensureMinGitVersion(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	boot := &gitCLI{path: abs}
	root, err := boot.output("rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	if root == "" {
		return nil, fmt.Errorf("%s is not inside a work tree", abs)
	}
	return &gitCLI{path: root}, nil
}

func (g *gitCLI) RepoPath() string {
	if g == nil {
		return ""
	}
	return g.path
}

// gitEnv keeps git from taking optional locks on the index while another git
// process may be using the repository, and keeps its messages in English.
func gitEnv() []string {
	return append(os.Environ(), "GIT_OPTIONAL_LOCKS=0", "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
}

// output runs git inside the repository and returns its trimmed stdout.
func (g *gitCLI) output(args ...string) (string, error) {
	out, _, err := g.run(args)
	return out, err
}

// lookup is output for commands that report "nothing found" with exit status
// 1 and an empty stderr, such as rev-parse -q and symbolic-ref -q. found is
// false in that case.
func (g *gitCLI) lookup(args ...string) (out string, found bool, err error) {
	out, code, err := g.run(args)
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && code == 1 && cmdErr.Stderr == "" {
			return "", false, nil
		}
		return "", false, err
	}
	return out, true, nil
}

func (g *gitCLI) run(args []string) (string, int, error) {
	if g == nil || g.path == "" {
		return "", -1, fmt.Errorf("repository root not set")
	}
	cmd := exec.Command("git", append([]string{"--no-pager", "-C", g.path}, args...)...)
	cmd.Env = gitEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return "", code, &CommandError{
			Args:     args,
			ExitCode: code,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return strings.TrimRight(stdout.String(), "\r\n"), 0, nil
}
