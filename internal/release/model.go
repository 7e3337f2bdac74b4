// Package release turns the issues of a tracker release into an ordered list
// of commits to replay onto a release branch.
package release

import (
	"github.com/thiagokokada/relpick/internal/git"
)

// Release is a tracker version ("fix version" in Jira).
type Release struct {
	// ID is the identifier given on the command line.
	ID string
	// TrackerID is the tracker's own version id, used to query issues.
	TrackerID string
	Name      string
	Released  bool
}

// Label is the human readable name used in logs and the script header.
func (r Release) Label() string {
	if r.Name == "" || r.Name == r.ID {
		return r.ID
	}
	return r.Name + " (" + r.ID + ")"
}

type Issue struct {
	Key     string
	Summary string
	Status  string
}

// Match is a commit together with every release issue key its message
// references, in the order the keys were requested.
type Match struct {
	Commit *git.Commit
	Keys   []string
	// Seq is the position at which the commit was found while walking
	// history newest first. A higher Seq replays first on timestamp ties.
	Seq int
}

// Plan is the result of a pipeline run.
type Plan struct {
	Release Release
	Issues  []Issue
	// Commits are distinct and sorted by timestamp ascending.
	Commits []*Match
	// Unmatched lists the issue keys no commit referenced.
	Unmatched []string
}

// IssueKeys returns the keys of p.Issues in fetch order.
func (p *Plan) IssueKeys() []string {
	keys := make([]string, 0, len(p.Issues))
	for _, issue := range p.Issues {
		keys = append(keys, issue.Key)
	}
	return keys
}
