package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

const (
	contributorsPerPage = 100
	maxContributorPages = 5
)

// Client provides access to the GitHub REST API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL       string
	authenticated bool
}

// NewClient creates a GitHub API client. An empty token makes unauthenticated
// requests (lower rate limits); an empty baseURL selects [DefaultBaseURL].
func NewClient(c cache.Cache, token, baseURL string, opts ...integrations.Option) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:        integrations.NewClient(c, headers, opts...),
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		authenticated: token != "",
	}
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool { return c.authenticated }

// FetchRepo retrieves repository statistics.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string) (*Repo, bool, error) {
	var data apiRepoResponse
	stale, err := c.Get(ctx, c.repoURL(owner, repo, ""), &data)
	if err != nil {
		return nil, false, fmt.Errorf("github repo %s/%s: %w", owner, repo, err)
	}

	r := &Repo{
		FullName:      data.FullName,
		Description:   data.Description,
		DefaultBranch: data.DefaultBranch,
		Language:      data.Language,
		Stars:         data.Stars,
		Forks:         data.Forks,
		OpenIssues:    data.OpenIssues,
		SizeKB:        data.Size,
		PushedAt:      data.PushedAt,
		Topics:        data.Topics,
		Archived:      data.Archived,
	}
	if data.License != nil && data.License.SPDXID != "NOASSERTION" {
		r.License = data.License.SPDXID
	}
	return r, stale, nil
}

// FetchContributors pages through the contributor list, dropping bots.
// When a later page fails, the pages already read are returned with the error.
func (c *Client) FetchContributors(ctx context.Context, owner, repo string) ([]integrations.Contributor, bool, error) {
	var (
		result   []integrations.Contributor
		anyStale bool
	)
	for page := 1; page <= maxContributorPages; page++ {
		endpoint := c.repoURL(owner, repo, fmt.Sprintf("/contributors?per_page=%d&page=%d", contributorsPerPage, page))

		var data []apiContributor
		stale, err := c.Get(ctx, endpoint, &data)
		if err != nil {
			return result, anyStale, fmt.Errorf("github contributors %s/%s page %d: %w", owner, repo, page, err)
		}
		anyStale = anyStale || stale

		for _, cr := range data {
			if cr.Type != "Bot" && !strings.HasSuffix(cr.Login, "[bot]") {
				result = append(result, integrations.Contributor{
					Login:         cr.Login,
					Contributions: cr.Contributions,
				})
			}
		}
		if len(data) < contributorsPerPage {
			break
		}
	}
	return result, anyStale, nil
}

// FetchReadme returns the decoded README of the default branch.
func (c *Client) FetchReadme(ctx context.Context, owner, repo string) (string, bool, error) {
	var data apiContentResponse
	stale, err := c.Get(ctx, c.repoURL(owner, repo, "/readme"), &data)
	if err != nil {
		return "", false, fmt.Errorf("github readme %s/%s: %w", owner, repo, err)
	}
	text, err := decodeContent(data.Content, data.Encoding)
	if err != nil {
		return "", false, fmt.Errorf("github readme %s/%s: %w", owner, repo, err)
	}
	return text, stale, nil
}

// FetchLicense returns the detected license and its decoded text.
func (c *Client) FetchLicense(ctx context.Context, owner, repo string) (*License, bool, error) {
	var data apiLicenseResponse
	stale, err := c.Get(ctx, c.repoURL(owner, repo, "/license"), &data)
	if err != nil {
		return nil, false, fmt.Errorf("github license %s/%s: %w", owner, repo, err)
	}
	text, err := decodeContent(data.Content, data.Encoding)
	if err != nil {
		return nil, false, fmt.Errorf("github license %s/%s: %w", owner, repo, err)
	}
	lic := &License{Name: data.License.Name, Text: text}
	if data.License.SPDXID != "NOASSERTION" {
		lic.SPDXID = data.License.SPDXID
	}
	return lic, stale, nil
}

// FetchFile returns the decoded content of one file. path comes from the
// remote tree, so it is validated and escaped segment by segment.
func (c *Client) FetchFile(ctx context.Context, owner, repo, path string) (string, bool, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", false, fmt.Errorf("github file %s/%s: %w", owner, repo, err)
	}
	segs := strings.Split(path, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	var data apiContentResponse
	stale, err := c.Get(ctx, c.repoURL(owner, repo, "/contents/"+strings.Join(segs, "/")), &data)
	if err != nil {
		return "", false, fmt.Errorf("github file %s/%s:%s: %w", owner, repo, path, err)
	}
	if data.Type != "" && data.Type != "file" {
		return "", false, fmt.Errorf("github file %s/%s:%s: %w", owner, repo, path, integrations.ErrNotFound)
	}
	text, err := decodeContent(data.Content, data.Encoding)
	if err != nil {
		return "", false, fmt.Errorf("github file %s/%s:%s: %w", owner, repo, path, err)
	}
	return text, stale, nil
}

// FetchTree returns every entry of the repository tree at ref.
// An empty ref selects HEAD.
func (c *Client) FetchTree(ctx context.Context, owner, repo, ref string) ([]TreeEntry, bool, error) {
	if ref == "" {
		ref = "HEAD"
	}
	var data apiTreeResponse
	stale, err := c.Get(ctx, c.repoURL(owner, repo, "/git/trees/"+ref+"?recursive=1"), &data)
	if err != nil {
		return nil, false, fmt.Errorf("github tree %s/%s: %w", owner, repo, err)
	}

	entries := make([]TreeEntry, 0, len(data.Tree))
	for _, item := range data.Tree {
		entries = append(entries, TreeEntry{Path: item.Path, Type: item.Type, Size: item.Size})
	}
	return entries, stale, nil
}

// FetchPullStats counts merged pull requests and the subset with an
// approving review, using the issue search API.
func (c *Client) FetchPullStats(ctx context.Context, owner, repo string) (PullStats, bool, error) {
	count := func(qualifiers string) (int, bool, error) {
		q := fmt.Sprintf("repo:%s/%s is:pr is:merged %s", owner, repo, qualifiers)
		endpoint := fmt.Sprintf("%s/search/issues?q=%s&per_page=1", c.baseURL, integrations.URLEncode(strings.TrimSpace(q)))
		var data apiSearchResponse
		stale, err := c.Get(ctx, endpoint, &data)
		return data.TotalCount, stale, err
	}

	merged, s1, err := count("")
	if err != nil {
		return PullStats{}, false, fmt.Errorf("github pulls %s/%s: %w", owner, repo, err)
	}
	reviewed, s2, err := count("review:approved")
	if err != nil {
		return PullStats{}, false, fmt.Errorf("github reviews %s/%s: %w", owner, repo, err)
	}
	return PullStats{Merged: merged, Reviewed: min(reviewed, merged)}, s1 || s2, nil
}

func (c *Client) repoURL(owner, repo, suffix string) string {
	return fmt.Sprintf("%s/repos/%s/%s%s", c.baseURL, owner, repo, suffix)
}

func decodeContent(content, encoding string) (string, error) {
	switch encoding {
	case "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return "", fmt.Errorf("decode content: %w", err)
		}
		return string(data), nil
	case "", "utf-8", "none":
		return content, nil
	default:
		return "", fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
