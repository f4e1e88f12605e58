// Package artifact identifies the supply-chain artifacts trustscore rates.
//
// An input line is a URL. [Classify] turns it into a [Ref] whose [Category]
// is derived from the URL shape alone:
//
//   - code hosting domains (github.com, gitlab.com, bitbucket.org) -> CODE
//   - huggingface.co/datasets/<id> -> DATASET
//   - any other http(s) URL -> MODEL
//
// URLs that cannot be parsed are rejected with an INVALID_URL error; callers
// still emit a row for them with category UNKNOWN.
package artifact
