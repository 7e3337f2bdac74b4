package backend

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// NUL-delimited records; commit messages cannot contain NUL.
const gitLogFormat = "%H%n%P%n%an%n%ae%n%aI%n%cn%n%ce%n%cI%n%B%x00"

type gitLogStream struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	r      *bufio.Reader

	waitOnce sync.Once
	waitErr  error
}

func startGitLogStream(repoPath string, fromHash string) (*gitLogStream, error) {
	fromHash = strings.TrimSpace(fromHash)
	if fromHash == "" {
		return nil, fmt.Errorf("starting commit not specified")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(
		ctx,
		"git",
		"--no-pager",
		"-C",
		repoPath,
		"log",
		"--no-color",
		"--no-decorate",
		"--date-order",
		"--no-patch",
		// tformat avoids git log adding an extra newline after each record.
		"--pretty=tformat:"+gitLogFormat,
		fromHash,
		"--",
	)
	cmd.Env = gitEnv()
	stream := &gitLogStream{cancel: cancel, cmd: cmd}
	cmd.Stderr = &stream.stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("git log stdout: %w", err)
	}
	stream.stdout = stdout
	stream.r = bufio.NewReader(stdout)
	if err := cmd.Start(); err != nil {
		cancel()
		_ = stdout.Close()
		return nil, fmt.Errorf("git log start: %w", err)
	}
	return stream, nil
}

func (s *gitLogStream) Next() (*Commit, error) {
	rec, err := s.r.ReadBytes(0)
	if err != nil {
		if err == io.EOF {
			if waitErr := s.wait(); waitErr != nil {
				return nil, waitErr
			}
			return nil, io.EOF
		}
		return nil, err
	}
	rec = rec[:len(rec)-1]
	// git log prints a newline between records even when the format ends
	// with NUL, so records after the first start with '\n'.
	rec = bytes.TrimLeft(rec, "\r\n")
	if len(rec) == 0 {
		return nil, fmt.Errorf("unexpected empty git log record")
	}
	return parseGitLogRecord(rec)
}

func (s *gitLogStream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.stdout != nil {
		_ = s.stdout.Close()
	}
	return s.wait()
}

func (s *gitLogStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	if s.waitErr == nil {
		return nil
	}
	if s.stderr.Len() > 0 {
		return fmt.Errorf("git log: %v: %s", s.waitErr, strings.TrimSpace(s.stderr.String()))
	}
	return fmt.Errorf("git log: %w", s.waitErr)
}

func parseGitLogRecord(rec []byte) (*Commit, error) {
	parts := strings.SplitN(string(rec), "\n", 9)
	if len(parts) < 8 {
		return nil, fmt.Errorf("unexpected git log record: got %d lines", len(parts))
	}
	hash := strings.TrimSpace(parts[0])
	if hash == "" {
		return nil, fmt.Errorf("missing commit hash")
	}
	authorWhen, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[4]))
	if err != nil {
		return nil, fmt.Errorf("commit %s: author date: %w", hash, err)
	}
	committerWhen, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[7]))
	if err != nil {
		return nil, fmt.Errorf("commit %s: committer date: %w", hash, err)
	}
	message := ""
	if len(parts) > 8 {
		message = parts[8]
	}
	return &Commit{
		Hash:         hash,
		ParentHashes: strings.Fields(parts[1]),
		Author:       Signature{Name: parts[2], Email: parts[3], When: authorWhen},
		Committer:    Signature{Name: parts[5], Email: parts[6], When: committerWhen},
		Message:      message,
	}, nil
}
