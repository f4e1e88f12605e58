package source

import (
	"context"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/deps"
	"github.com/matzehuels/trustscore/pkg/integrations"
	"github.com/matzehuels/trustscore/pkg/integrations/github"
	"github.com/matzehuels/trustscore/pkg/integrations/huggingface"
)

// DefaultMaxManifests bounds how many manifest files are fetched per repository.
const DefaultMaxManifests = 8

// GitHubHandler fetches code repositories from GitHub.
type GitHubHandler struct {
	client       *github.Client
	logger       *log.Logger
	maxManifests int
}

// NewGitHubHandler creates a handler backed by client.
func NewGitHubHandler(client *github.Client, logger *log.Logger) *GitHubHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GitHubHandler{client: client, logger: logger, maxManifests: DefaultMaxManifests}
}

func (h *GitHubHandler) Name() string { return "github" }

func (h *GitHubHandler) Supports(ref artifact.Ref) bool {
	return ref.Category == artifact.CategoryCode && ref.Host == artifact.HostGitHub
}

// Fetch reads repository statistics, contributors, README, license, file
// tree, dependency manifests and review counts.
func (h *GitHubHandler) Fetch(ctx context.Context, ref artifact.Ref) *Metadata {
	m := New(ref)
	owner, repo := ref.Owner(), ref.Repo()
	if err := github.ValidateRepoRef(owner, repo); err != nil {
		h.logger.Debug("invalid repository reference", "url", ref.URL, "err", err)
		m.Mark(FieldRepo, StatusInvalid)
		return m
	}

	r, stale, err := h.client.FetchRepo(ctx, owner, repo)
	if !h.record(m, FieldRepo, stale, err) {
		return m
	}
	m.Description = r.Description
	m.Stars = r.Stars
	m.Forks = r.Forks
	m.Archived = r.Archived
	m.LastModified = r.PushedAt
	m.LicenseID = r.License

	if readme, stale, err := h.client.FetchReadme(ctx, owner, repo); h.record(m, FieldReadme, stale, err) {
		m.Readme = NormalizeText(readme)
	}
	if lic, stale, err := h.client.FetchLicense(ctx, owner, repo); h.record(m, FieldLicense, stale, err) {
		if lic.SPDXID != "" {
			m.LicenseID = lic.SPDXID
		}
		m.LicenseText = NormalizeText(lic.Text)
	} else if m.LicenseID != "" {
		delete(m.Status, FieldLicense)
	}

	h.fetchCollaboration(ctx, m, owner, repo, FieldContributors)

	tree, stale, err := h.client.FetchTree(ctx, owner, repo, r.DefaultBranch)
	if h.record(m, FieldFiles, stale, err) {
		for _, e := range tree {
			if e.Type != "blob" {
				continue
			}
			m.Files = append(m.Files, File{Path: e.Path, Size: e.Size})
			m.SizeBytes += e.Size
		}
		m.HasConfig = m.HasFile("config.json")
		m.HasTokenizerConfig = m.HasFile("tokenizer_config.json") || m.HasFile("tokenizer.json")
		m.Manifests = h.fetchManifests(ctx, m, owner, repo, tree)
	} else {
		m.SizeBytes = int64(r.SizeKB) * 1024
		m.Mark(FieldManifests, StatusMissing)
	}

	links := DiscoverLinks(m.Readme, huggingface.DefaultBaseURL)
	m.DatasetLinks = links.Datasets
	m.CodeLinks = slices.DeleteFunc(links.Code, func(u string) bool {
		return strings.EqualFold(strings.TrimSuffix(u, "/"), "https://github.com/"+owner+"/"+repo)
	})
	return m
}

// fetchCollaboration reads contributors and pull request review counts.
// A failed contributor page keeps the pages that were read; the failure is
// recorded under contribField.
func (h *GitHubHandler) fetchCollaboration(ctx context.Context, m *Metadata, owner, repo string, contribField Field) {
	contribs, stale, err := h.client.FetchContributors(ctx, owner, repo)
	h.record(m, contribField, stale, err)
	m.Contributors = mergeContributors(m.Contributors, contribs)

	if stats, stale, err := h.client.FetchPullStats(ctx, owner, repo); h.record(m, FieldReviews, stale, err) {
		m.MergedPRs += stats.Merged
		m.ReviewedPRs += stats.Reviewed
	}
}

// fetchManifests parses up to maxManifests dependency files, shallowest first.
func (h *GitHubHandler) fetchManifests(ctx context.Context, m *Metadata, owner, repo string, tree []github.TreeEntry) []*deps.Manifest {
	var paths []string
	for _, e := range tree {
		if e.Type == "blob" && deps.Supported(e.Path) {
			paths = append(paths, e.Path)
		}
	}
	slices.SortStableFunc(paths, func(a, b string) int {
		return strings.Count(a, "/") - strings.Count(b, "/")
	})
	if len(paths) == 0 {
		m.Mark(FieldManifests, StatusMissing)
		return nil
	}

	var out []*deps.Manifest
	for _, p := range paths[:min(len(paths), h.maxManifests)] {
		content, stale, err := h.client.FetchFile(ctx, owner, repo, p)
		if !h.record(m, FieldManifests, stale, err) {
			continue
		}
		man, err := deps.Parse(p, []byte(content))
		if err != nil {
			h.logger.Debug("manifest unparseable", "repo", owner+"/"+repo, "path", path.Base(p), "err", err)
			m.Mark(FieldManifests, StatusError)
			continue
		}
		out = append(out, man)
	}
	return out
}

func (h *GitHubHandler) record(m *Metadata, f Field, stale bool, err error) bool {
	return record(h.logger, m, f, stale, err)
}

// mergeContributors sums contribution counts per login, keeping the order
// in which logins first appear.
func mergeContributors(a, b []integrations.Contributor) []integrations.Contributor {
	out := slices.Clone(a)
	for _, c := range b {
		if i := slices.IndexFunc(out, func(x integrations.Contributor) bool {
			return strings.EqualFold(x.Login, c.Login)
		}); i >= 0 {
			out[i].Contributions += c.Contributions
			continue
		}
		out = append(out, c)
	}
	return out
}
