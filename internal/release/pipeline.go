package release

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thiagokokada/relpick/internal/failure"
)

// IssueSource is the tracker side of the pipeline.
type IssueSource interface {
	Release(ctx context.Context, id string) (Release, error)
	Issues(ctx context.Context, rel Release) ([]Issue, error)
}

type Options struct {
	ReleaseID     string
	SourceRef     string
	SortBy        SortKey
	IncludeMerges bool
}

// Pipeline runs fetch, locate and order once, strictly in that order.
type Pipeline struct {
	Issues  IssueSource
	Commits CommitSource
}

func (p *Pipeline) Run(ctx context.Context, opts Options) (*Plan, error) {
	id := strings.TrimSpace(opts.ReleaseID)
	if id == "" {
		return nil, failure.Usage("run pipeline", fmt.Errorf("release id not specified"))
	}
	slog.Info("Collecting commits for release", slog.String("release", id))

	rel, err := p.Issues.Release(ctx, id)
	if err != nil {
		return nil, err
	}
	issues, err := p.Issues.Issues(ctx, rel)
	if err != nil {
		return nil, err
	}
	plan := &Plan{Release: rel, Issues: issues}
	if len(issues) == 0 {
		slog.Warn("Release has no issues; the script will only contain its header", slog.String("release", rel.Label()))
		return plan, nil
	}

	keys := plan.IssueKeys()
	matches, err := Locate(ctx, p.Commits, keys, LocateOptions{Rev: opts.SourceRef, IncludeMerges: opts.IncludeMerges})
	if err != nil {
		return nil, err
	}
	plan.Commits, plan.Unmatched = Order(matches, keys, opts.SortBy)
	slog.Info("Ordered commits",
		slog.Int("commits", len(plan.Commits)),
		slog.Int("issues", len(issues)),
		slog.Int("unmatched", len(plan.Unmatched)),
	)
	return plan, nil
}
