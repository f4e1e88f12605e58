// Package pkg holds the trustscore libraries.
//
// # Overview
//
// Trustscore rates ML models, datasets and code repositories by URL. For
// each artifact it fetches public metadata once, runs every registered
// metric over it concurrently, combines the results into a weighted net
// score and emits one NDJSON row.
//
// # Data flow
//
//	URL ─► artifact.Classify ─► source.Router ─► Handler.Fetch ─► source.Metadata
//	                                                             │
//	        report.Row ◄─ scorer.Score ◄─ engine.Run(metrics.Registry)
//
// # Packages
//
//   - [artifact]: URL classification into MODEL, DATASET or CODE
//   - [source]: metadata handlers for GitHub and the model hub, snapshots
//   - [integrations]: cached HTTP clients with ETag revalidation
//   - [cache]: in-memory, file and Redis caches
//   - [deps], [dag]: dependency manifests and graphs for tree_score
//   - [metrics]: the metric registry and every metric
//   - [engine]: bounded concurrent metric execution with timeouts
//   - [scorer]: weights and the inapplicable-metric policy
//   - [report]: rows, the NDJSON writer and markdown summaries
//   - [pipeline]: the batch runner tying it together
//   - [config], [observability], [errors], [httputil], [buildinfo]: support
//
// [artifact]: github.com/matzehuels/trustscore/pkg/artifact
// [source]: github.com/matzehuels/trustscore/pkg/source
// [integrations]: github.com/matzehuels/trustscore/pkg/integrations
// [cache]: github.com/matzehuels/trustscore/pkg/cache
// [deps]: github.com/matzehuels/trustscore/pkg/deps
// [dag]: github.com/matzehuels/trustscore/pkg/dag
// [metrics]: github.com/matzehuels/trustscore/pkg/metrics
// [engine]: github.com/matzehuels/trustscore/pkg/engine
// [scorer]: github.com/matzehuels/trustscore/pkg/scorer
// [report]: github.com/matzehuels/trustscore/pkg/report
// [pipeline]: github.com/matzehuels/trustscore/pkg/pipeline
// [config]: github.com/matzehuels/trustscore/pkg/config
// [observability]: github.com/matzehuels/trustscore/pkg/observability
// [errors]: github.com/matzehuels/trustscore/pkg/errors
// [httputil]: github.com/matzehuels/trustscore/pkg/httputil
// [buildinfo]: github.com/matzehuels/trustscore/pkg/buildinfo
package pkg
