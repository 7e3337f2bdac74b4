package git

import (
	"errors"
	"io"

	gitbackend "github.com/thiagokokada/relpick/internal/git/backend"
)

type fakeBackend struct {
	repoPath string

	headStateFunc          func() (hash string, headName string, ok bool, err error)
	resolveRevisionFunc    func(rev string) (string, error)
	listRefsFunc           func() ([]gitbackend.Ref, error)
	localChangesStatusFunc func() (gitbackend.LocalChanges, error)
	startLogStreamFunc     func(fromHash string) (gitbackend.LogStream, error)

	lastFromHash string
}

func (f *fakeBackend) RepoPath() string { return f.repoPath }

func (f *fakeBackend) StartLogStream(fromHash string) (gitbackend.LogStream, error) {
	f.lastFromHash = fromHash
	if f.startLogStreamFunc != nil {
		return f.startLogStreamFunc(fromHash)
	}
	return nil, errors.New("unexpected StartLogStream call")
}

func (f *fakeBackend) HeadState() (hash string, headName string, ok bool, err error) {
	if f.headStateFunc != nil {
		return f.headStateFunc()
	}
	return "", "", false, errors.New("unexpected HeadState call")
}

func (f *fakeBackend) ResolveRevision(rev string) (string, error) {
	if f.resolveRevisionFunc != nil {
		return f.resolveRevisionFunc(rev)
	}
	return "", errors.New("unexpected ResolveRevision call")
}

func (f *fakeBackend) ListRefs() ([]gitbackend.Ref, error) {
	if f.listRefsFunc != nil {
		return f.listRefsFunc()
	}
	return nil, errors.New("unexpected ListRefs call")
}

func (f *fakeBackend) LocalChangesStatus() (gitbackend.LocalChanges, error) {
	if f.localChangesStatusFunc != nil {
		return f.localChangesStatusFunc()
	}
	return gitbackend.LocalChanges{}, errors.New("unexpected LocalChangesStatus call")
}

// sliceStream replays a fixed list of commits, then err (io.EOF by default).
type sliceStream struct {
	commits []*Commit
	err     error
	closed  bool
}

func (s *sliceStream) Next() (*Commit, error) {
	if len(s.commits) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	c := s.commits[0]
	s.commits = s.commits[1:]
	return c, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}
