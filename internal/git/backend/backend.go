package backend

// Backend abstracts read access to repository history.
//
// Two implementations exist: a pure-Go one built on go-git and one that shells
// out to the git executable.
type Backend interface {
	RepoPath() string

	// HeadState reports the commit HEAD points to. ok is false for an unborn HEAD.
	HeadState() (hash string, headName string, ok bool, err error)
	// ResolveRevision resolves rev to a full commit hash.
	ResolveRevision(rev string) (string, error)
	// StartLogStream walks history from fromHash, newest commits first.
	StartLogStream(fromHash string) (LogStream, error)

	ListRefs() ([]Ref, error)
	LocalChangesStatus() (LocalChanges, error)
}

// LogStream yields commits until it returns io.EOF.
type LogStream interface {
	Next() (*Commit, error)
	Close() error
}
