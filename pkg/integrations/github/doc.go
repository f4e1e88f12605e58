// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// The client reads the public facts trustscore scores a code repository on:
// repository statistics, the contributor list, the README and license text,
// the git tree (for file sizes and manifests) and pull request review counts.
//
// # Usage
//
//	client := github.NewClient(cache.NewMemoryCache(), token, "")
//	repo, _, err := client.FetchRepo(ctx, "openai", "whisper")
//
// Every Fetch method also returns a stale flag, set when the body came from
// the cache because GitHub rate-limited or failed the refresh.
//
// # Authentication
//
// A personal access token is optional. Without one the client is limited to
// 60 requests/hour; with one the limit is 5000 requests/hour.
//
// # Contents
//
// README, license and file bodies arrive base64-encoded inside a JSON
// envelope and are decoded before being returned.
package github
