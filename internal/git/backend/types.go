package backend

import (
	"strings"
	"time"
)

type Signature struct {
	Name  string
	Email string
	When  time.Time
}

type Commit struct {
	Hash         string
	ParentHashes []string
	Author       Signature
	Committer    Signature
	Message      string
}

// Subject returns the first line of the commit message.
func (c *Commit) Subject() string {
	if c == nil {
		return ""
	}
	msg := strings.TrimLeft(c.Message, "\r\n")
	if idx := strings.IndexAny(msg, "\r\n"); idx >= 0 {
		msg = msg[:idx]
	}
	return strings.TrimSpace(msg)
}

// ShortHash returns the abbreviated hash used in log lines.
func (c *Commit) ShortHash() string {
	if c == nil {
		return ""
	}
	if len(c.Hash) > 10 {
		return c.Hash[:10]
	}
	return c.Hash
}

type LocalChanges struct {
	HasWorktree bool
	HasStaged   bool
}

type RefKind uint8

const (
	RefKindBranch RefKind = iota
	RefKindRemoteBranch
	RefKindTag
)

type Ref struct {
	Hash string
	Kind RefKind
	Name string // short name: main, origin/main, v1
}
