package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultHTTPTimeout bounds a single request including reading the body.
const DefaultHTTPTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the resource doesn't exist on the source.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned for 403 and 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrTooLarge is returned when a response body exceeds the client's limit.
	ErrTooLarge = errors.New("response too large")
)

// Contributor represents a repository contributor with their contribution count.
type Contributor struct {
	Login         string `json:"login"`         // GitHub username or hub author
	Contributions int    `json:"contributions"` // Number of commits
}

// NewHTTPClient creates an HTTP client with the given timeout.
// Zero selects [DefaultHTTPTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"http://github.com/", "https://github.com/",
	"https://www.github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes and
// trailing punctuation picked up from prose.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	s = strings.TrimRight(s, ".,;:)]}>'\"")
	s = strings.TrimSuffix(s, "/")
	return strings.TrimSuffix(s, ".git")
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
