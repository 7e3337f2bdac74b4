package git

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thiagokokada/relpick/internal/failure"
	gitbackend "github.com/thiagokokada/relpick/internal/git/backend"
)

type BackendKind string

const (
	BackendNative BackendKind = "native"
	BackendCLI    BackendKind = "cli"
)

func ParseBackendKind(raw string) (BackendKind, error) {
	switch BackendKind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BackendNative:
		return BackendNative, nil
	case BackendCLI:
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("unknown git backend %q (want %s or %s)", raw, BackendNative, BackendCLI)
	}
}

type Service struct {
	backend gitbackend.Backend
}

// Open opens the repository containing repoPath. Failures are repository
// errors: not a checkout, or git missing or too old for the cli backend.
func Open(repoPath string, kind BackendKind) (*Service, error) {
	var (
		b   gitbackend.Backend
		err error
	)
	switch kind {
	case BackendCLI:
		b, err = gitbackend.OpenCLI(repoPath)
	default:
		b, err = gitbackend.OpenNative(repoPath)
	}
	if err != nil {
		return nil, failure.Repository("open repository", err)
	}
	slog.Debug("Repository opened", slog.String("path", b.RepoPath()), slog.String("backend", string(kind)))
	return NewWithBackend(b), nil
}

func NewWithBackend(b gitbackend.Backend) *Service {
	return &Service{backend: b}
}

func (s *Service) RepoPath() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.RepoPath()
}

// Walk calls fn for every commit reachable from rev, newest first. An empty
// rev means HEAD; an unborn HEAD has no commits. Walk stops at the first error
// returned by fn and returns it unchanged.
func (s *Service) Walk(ctx context.Context, rev string, fn func(*Commit) error) error {
	if s.backend == nil || s.backend.RepoPath() == "" {
		return failure.Repository("walk history", fmt.Errorf("repository root not set"))
	}
	from, label, err := s.startingPoint(rev)
	if err != nil {
		return failure.Repository("resolve revision", err)
	}
	if from == "" {
		slog.Debug("HEAD has no commits yet")
		return nil
	}
	stream, err := s.backend.StartLogStream(from)
	if err != nil {
		return failure.Repository("read commits", err)
	}
	defer func() {
		if err := stream.Close(); err != nil {
			slog.Debug("log stream close", slog.Any("error", err))
		}
	}()

	slog.Debug("Walking history", slog.String("from", label), slog.String("hash", from))
	walked := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit, err := stream.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return failure.Repository("iterate commits", err)
		}
		walked++
		if err := fn(commit); err != nil {
			return err
		}
	}
	slog.Debug("History walk done", slog.Int("commits", walked))
	return nil
}

func (s *Service) startingPoint(rev string) (hash string, label string, err error) {
	rev = strings.TrimSpace(rev)
	if rev != "" && rev != "HEAD" {
		hash, err := s.backend.ResolveRevision(rev)
		if err != nil {
			return "", "", err
		}
		return hash, rev, nil
	}
	hash, headName, ok, err := s.backend.HeadState()
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", nil
	}
	return hash, headName, nil
}
