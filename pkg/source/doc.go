// Package source turns an artifact reference into a [Metadata] bag.
//
// # Overview
//
// A [Handler] knows one hosting service. [Handler.Fetch] never returns an
// error: every field it cannot read is recorded in [Metadata.Status] as
// missing (the source has no such resource), error (the request failed) or
// stale (a cached copy was reused because the source refused a refresh).
// Metrics read those flags and degrade to low scores.
//
// Handlers:
//
//   - [GitHubHandler]: code repositories on github.com
//   - [HubHandler]: models and datasets on the hub, with optional
//     enrichment from a GitHub repository linked in the card
//
// [Router] picks the handler for a reference. [WithAux] decorates a handler
// with the auxiliary README summary score.
//
// # Immutability
//
// A Metadata value is complete when Fetch returns and is never modified
// afterwards. Metrics share one *Metadata and only read it.
package source
