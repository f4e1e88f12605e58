// Package buildinfo holds version information injected at build time:
//
//	go build -ldflags "-X github.com/matzehuels/trustscore/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/trustscore/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/trustscore/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies trustscore in outgoing HTTP requests.
func UserAgent() string {
	return "trustscore/" + Version
}

// Template returns the --version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
