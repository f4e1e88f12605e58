// Package huggingface provides an HTTP client for the model and dataset hub.
//
// # Overview
//
// The hub exposes JSON metadata under /api/{models,datasets}/{id} and raw
// repository files under /{id}/raw/{revision}/{path} (datasets are prefixed
// with /datasets). The client reads:
//
//   - [Client.FetchInfo]: tags, likes, downloads, card data and the file
//     list with byte sizes (requested with blobs=true)
//   - [Client.FetchReadme] and [Client.FetchFile]: raw card and config files
//   - [Client.FetchCommits]: commit history, used to derive contributors
//
// # Usage
//
//	client := huggingface.NewClient(cache.NewMemoryCache(), os.Getenv("HF_TOKEN"), "")
//	info, _, err := client.FetchInfo(ctx, huggingface.KindModel, "openai/whisper-tiny")
//
// A token is optional; gated repositories return 401/403 without one and are
// reported as rate limited by the shared client.
package huggingface
