package git

import gitbackend "github.com/thiagokokada/relpick/internal/git/backend"

type (
	Signature    = gitbackend.Signature
	Commit       = gitbackend.Commit
	LocalChanges = gitbackend.LocalChanges
	Ref          = gitbackend.Ref
)
