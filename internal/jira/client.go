// Package jira fetches releases and their issues from the Jira REST API.
package jira

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	jira "github.com/andygrunwald/go-jira"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/thiagokokada/relpick/internal/buildinfo"
	"github.com/thiagokokada/relpick/internal/config"
	"github.com/thiagokokada/relpick/internal/failure"
	"github.com/thiagokokada/relpick/internal/release"
)

var searchFields = []string{"key", "summary", "status"}

// Fetcher is the issue fetcher. It is built from an explicit configuration
// and never reads the environment itself.
type Fetcher struct {
	client   *jira.Client
	baseURL  string
	pageSize int
}

// NewFetcher returns a Fetcher authenticating with basic auth (username and
// API token). httpClient may be nil; its Transport is wrapped, not replaced.
func NewFetcher(cfg config.Jira, httpClient *http.Client) (*Fetcher, error) {
	base := http.DefaultTransport
	if httpClient != nil && httpClient.Transport != nil {
		base = httpClient.Transport
	}
	tp := jira.BasicAuthTransport{
		Username:  cfg.Username,
		Password:  cfg.APIToken,
		Transport: &userAgentTransport{base: base, agent: buildinfo.UserAgent()},
	}
	hc := tp.Client()
	if httpClient != nil {
		hc.Timeout = httpClient.Timeout
	}
	client, err := jira.NewClient(hc, cfg.BaseURL)
	if err != nil {
		return nil, failure.Usage("create jira client", err)
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	return &Fetcher{client: client, baseURL: cfg.BaseURL, pageSize: pageSize}, nil
}

// CheckAuth verifies the credentials and returns the authenticated user's
// display name.
func (f *Fetcher) CheckAuth(ctx context.Context) (string, error) {
	req, err := f.client.NewRequestWithContext(ctx, http.MethodGet, "rest/api/2/myself", nil)
	if err != nil {
		return "", failure.Tracker("check authentication", err)
	}
	user := new(jira.User)
	resp, err := f.client.Do(req, user)
	if err != nil {
		return "", classify("check authentication", resp, err)
	}
	name := user.DisplayName
	if name == "" {
		name = user.EmailAddress
	}
	return name, nil
}

// Release resolves a release id to the tracker version.
func (f *Fetcher) Release(ctx context.Context, id string) (release.Release, error) {
	id = strings.TrimSpace(id)
	op := fmt.Sprintf("resolve release %s", id)
	if id == "" {
		return release.Release{}, failure.Usage(op, fmt.Errorf("release id not specified"))
	}
	req, err := f.client.NewRequestWithContext(ctx, http.MethodGet, "rest/api/2/version/"+url.PathEscape(id), nil)
	if err != nil {
		return release.Release{}, failure.Tracker(op, err)
	}
	version := new(jira.Version)
	resp, err := f.client.Do(req, version)
	if err != nil {
		return release.Release{}, classify(op, resp, err)
	}
	if version.ID == "" || version.Name == "" {
		return release.Release{}, failure.NotFound(op, fmt.Errorf("release %s has no name", id))
	}
	rel := release.Release{
		ID:        id,
		TrackerID: version.ID,
		Name:      version.Name,
		Released:  version.Released != nil && *version.Released,
	}
	slog.Info("Found release", slog.String("name", rel.Name), slog.String("id", rel.TrackerID), slog.Bool("released", rel.Released))
	return rel, nil
}

// Issues returns every issue whose fix version is rel, oldest first, paging
// through the search API until the reported total is reached.
func (f *Fetcher) Issues(ctx context.Context, rel release.Release) ([]release.Issue, error) {
	op := fmt.Sprintf("search issues of release %s", rel.Label())
	jql := searchJQL(rel)
	slog.Debug("Searching issues", slog.String("jql", jql), slog.Int("page_size", f.pageSize))

	var (
		issues  []release.Issue
		startAt int
		seen    = mapset.NewThreadUnsafeSet[string]()
	)
	for {
		page, resp, err := f.client.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: f.pageSize,
			Fields:     searchFields,
		})
		if err != nil {
			return nil, classify(op, resp, err)
		}
		if len(page) == 0 {
			break
		}
		added := 0
		for _, issue := range page {
			if !seen.Add(issue.Key) {
				continue
			}
			issues = append(issues, convertIssue(issue))
			added++
		}
		// A server that ignores startAt keeps returning the same page.
		if added == 0 {
			slog.Warn("Search returned no new issues; stopping", slog.Int("start_at", startAt))
			break
		}
		startAt += len(page)
		total := 0
		if resp != nil {
			total = resp.Total
		}
		slog.Info("Retrieved issues", slog.Int("page", len(page)), slog.Int("so_far", len(issues)), slog.Int("total", total))
		if total > 0 && startAt >= total {
			break
		}
		// Jira may cap maxResults below the requested size, so a short page
		// only ends the search when no total was reported.
		if total == 0 && len(page) < f.pageSize {
			break
		}
	}
	slog.Info("Found issues in release", slog.Int("count", len(issues)), slog.String("release", rel.Label()))
	return issues, nil
}

// searchJQL selects issues by version id rather than by name: names are only
// unique within a project.
func searchJQL(rel release.Release) string {
	if rel.TrackerID != "" {
		return fmt.Sprintf("fixVersion = %s ORDER BY created ASC", rel.TrackerID)
	}
	return fmt.Sprintf("fixVersion = %s ORDER BY created ASC", quoteJQL(rel.Name))
}

func quoteJQL(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func convertIssue(issue jira.Issue) release.Issue {
	out := release.Issue{Key: issue.Key}
	if issue.Fields != nil {
		out.Summary = issue.Fields.Summary
		if issue.Fields.Status != nil {
			out.Status = issue.Fields.Status.Name
		}
	}
	return out
}

// classify maps a failed tracker call to the error taxonomy using the HTTP
// status when one was received.
func classify(op string, resp *jira.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return failure.Tracker(op, err)
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}
	switch code := resp.StatusCode; code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return failure.Authentication(op, fmt.Errorf("tracker rejected credentials (HTTP %d)", code))
	case http.StatusNotFound:
		return failure.NotFound(op, fmt.Errorf("not found (HTTP %d)", code))
	default:
		return failure.Tracker(op, fmt.Errorf("HTTP %d: %w", code, err))
	}
}

type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}
