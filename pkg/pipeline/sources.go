package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/cache"
	"github.com/matzehuels/trustscore/pkg/integrations"
	"github.com/matzehuels/trustscore/pkg/integrations/github"
	"github.com/matzehuels/trustscore/pkg/integrations/huggingface"
	"github.com/matzehuels/trustscore/pkg/source"
)

// Sources configures the handlers of a run.
type Sources struct {
	// Cache backs every HTTP client. A nil Cache disables caching.
	Cache cache.Cache
	// Keyer derives HTTP cache keys; nil uses the default keys.
	Keyer cache.Keyer

	GitHubToken string
	HubToken    string
	// GitHubAPI and HubURL override the public endpoints.
	GitHubAPI string
	HubURL    string

	HTTPTimeout time.Duration
	Retries     int

	// Aux rates READMEs during the fetch phase; nil disables it.
	Aux source.AuxScorer
	// Snapshots records fetched Metadata when set. With Offline, it is the
	// only source of Metadata.
	Snapshots *source.SnapshotStore
	Offline   bool

	Logger *log.Logger
}

// NewRouter builds the handlers described by s.
func NewRouter(s Sources) *source.Router {
	if s.Offline && s.Snapshots != nil {
		return source.NewRouter(source.NewOfflineHandler(s.Snapshots, s.Logger))
	}

	opts := []integrations.Option{integrations.WithHTTPClient(integrations.NewHTTPClient(s.HTTPTimeout))}
	if s.Keyer != nil {
		opts = append(opts, integrations.WithKeyer(s.Keyer))
	}
	if s.Retries > 0 {
		opts = append(opts, integrations.WithRetry(s.Retries, integrations.DefaultRetryDelay))
	}

	ghClient := github.NewClient(s.Cache, s.GitHubToken, s.GitHubAPI, opts...)
	if !ghClient.Authenticated() && s.Logger != nil {
		s.Logger.Debug("no GitHub token, requests use unauthenticated rate limits")
	}
	gh := source.NewGitHubHandler(ghClient, s.Logger)
	hub := source.NewHubHandler(huggingface.NewClient(s.Cache, s.HubToken, s.HubURL, opts...), gh, s.Logger)

	handlers := []source.Handler{gh, hub}
	for i, h := range handlers {
		h = source.WithAux(h, s.Aux, s.Logger)
		if s.Snapshots != nil {
			h = source.Recording(h, s.Snapshots, s.Logger)
		}
		handlers[i] = h
	}
	return source.NewRouter(handlers...)
}
