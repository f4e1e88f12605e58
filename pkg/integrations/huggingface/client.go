package huggingface

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/integrations"
)

// DefaultBaseURL is the public hub.
const DefaultBaseURL = "https://huggingface.co"

const defaultRevision = "main"

// Client provides access to the hub API and raw files.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a hub client. An empty token makes anonymous requests;
// an empty baseURL selects [DefaultBaseURL].
func NewClient(c cache.Cache, token, baseURL string, opts ...integrations.Option) *Client {
	headers := map[string]string{"Accept": "application/json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(c, headers, opts...),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// FetchInfo retrieves the metadata document including per-file sizes.
func (c *Client) FetchInfo(ctx context.Context, kind Kind, id string) (*Info, bool, error) {
	var info Info
	url := fmt.Sprintf("%s/api/%s/%s?blobs=true", c.baseURL, kind, id)
	stale, err := c.Get(ctx, url, &info)
	if err != nil {
		return nil, false, fmt.Errorf("hub %s %s: %w", kind, id, err)
	}
	return &info, stale, nil
}

// FetchReadme returns the raw model or dataset card.
func (c *Client) FetchReadme(ctx context.Context, kind Kind, id string) (string, bool, error) {
	return c.FetchFile(ctx, kind, id, "README.md")
}

// FetchFile returns a raw file from the main revision.
func (c *Client) FetchFile(ctx context.Context, kind Kind, id, path string) (string, bool, error) {
	text, stale, err := c.GetText(ctx, c.rawURL(kind, id, path))
	if err != nil {
		return "", false, fmt.Errorf("hub %s %s:%s: %w", kind, id, path, err)
	}
	return text, stale, nil
}

// FetchCommits returns the commit history of the main revision.
func (c *Client) FetchCommits(ctx context.Context, kind Kind, id string) ([]Commit, bool, error) {
	var commits []Commit
	url := fmt.Sprintf("%s/api/%s/%s/commits/%s", c.baseURL, kind, id, defaultRevision)
	stale, err := c.Get(ctx, url, &commits)
	if err != nil {
		return nil, false, fmt.Errorf("hub commits %s: %w", id, err)
	}
	return commits, stale, nil
}

// RepoURL returns the browsable URL of a hub repository.
func (c *Client) RepoURL(kind Kind, id string) string {
	if kind == KindDataset {
		return c.baseURL + "/datasets/" + id
	}
	return c.baseURL + "/" + id
}

func (c *Client) rawURL(kind Kind, id, path string) string {
	return fmt.Sprintf("%s/raw/%s/%s", c.RepoURL(kind, id), defaultRevision, strings.TrimPrefix(path, "/"))
}
