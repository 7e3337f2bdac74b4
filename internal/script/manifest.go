package script

import (
	"bytes"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/relpick/internal/release"
)

// Manifest is the YAML companion of a generated script.
type Manifest struct {
	Release      ManifestRelease  `yaml:"release"`
	TargetBranch string           `yaml:"targetBranch"`
	GeneratedAt  time.Time        `yaml:"generatedAt"`
	Commits      []ManifestCommit `yaml:"commits"`
	Unmatched    []string         `yaml:"unmatched,omitempty"`
}

type ManifestRelease struct {
	ID        string `yaml:"id"`
	TrackerID string `yaml:"trackerId,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Released  bool   `yaml:"released"`
	Issues    int    `yaml:"issues"`
}

// ManifestCommit is one cherry-pick, in replay order.
type ManifestCommit struct {
	SHA        string    `yaml:"sha"`
	AuthorDate time.Time `yaml:"authorDate"`
	CommitDate time.Time `yaml:"commitDate"`
	Author     string    `yaml:"author"`
	Subject    string    `yaml:"subject"`
	Keys       []string  `yaml:"keys"`
	Merge      bool      `yaml:"merge,omitempty"`
}

func NewManifest(plan *release.Plan, opts Options) Manifest {
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	m := Manifest{
		Release: ManifestRelease{
			ID:        plan.Release.ID,
			TrackerID: plan.Release.TrackerID,
			Name:      plan.Release.Name,
			Released:  plan.Release.Released,
			Issues:    len(plan.Issues),
		},
		TargetBranch: opts.TargetBranch,
		GeneratedAt:  generated.UTC(),
		Commits:      make([]ManifestCommit, 0, len(plan.Commits)),
		Unmatched:    plan.Unmatched,
	}
	for _, match := range plan.Commits {
		c := match.Commit
		m.Commits = append(m.Commits, ManifestCommit{
			SHA:        c.Hash,
			AuthorDate: c.Author.When,
			CommitDate: c.Committer.When,
			Author:     c.Author.Name,
			Subject:    c.Subject(),
			Keys:       match.Keys,
			Merge:      len(c.ParentHashes) > 1,
		})
	}
	return m
}

// Marshal encodes m with two-space indentation.
func (m Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadManifest decodes a manifest written by Marshal.
func ReadManifest(data []byte) (Manifest, error) {
	var m Manifest
	err := yaml.Unmarshal(data, &m)
	return m, err
}
