// Package integrations provides HTTP clients for artifact hosting APIs.
//
// # Overview
//
// Each source has its own subpackage:
//
//   - [github]: GitHub REST API for code repositories
//   - [huggingface]: the model and dataset hub
//
// # Shared Infrastructure
//
// The [Client] type provides the HTTP behavior every source client shares:
//
//   - Response bodies are stored in a [cache.Cache] with their ETag.
//   - Entries older than the revalidation window are refreshed with a
//     conditional GET; a 304 reuses the cached body.
//   - 404 maps to [ErrNotFound], 403/429 to [ErrRateLimited], 5xx and
//     transport errors to [ErrNetwork] wrapped as retryable.
//   - Bodies above the size limit fail with [ErrTooLarge].
//   - When a refresh fails with a rate limit or network error, a cached body
//     is returned and marked stale rather than failing.
//
// Source clients translate those errors into per-field status flags; they
// never decide whether an artifact as a whole has failed.
//
// [github]: github.com/matzehuels/trustscore/pkg/integrations/github
// [huggingface]: github.com/matzehuels/trustscore/pkg/integrations/huggingface
// [cache.Cache]: github.com/matzehuels/trustscore/pkg/cache.Cache
package integrations
