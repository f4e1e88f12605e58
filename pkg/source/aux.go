package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
)

// AuxScorer produces the auxiliary README summary score in [0,1].
type AuxScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// HTTPAux asks a remote summarizer to rate a README. The service receives
// {"text": ...} and answers {"score": x}.
type HTTPAux struct {
	URL    string
	Client *http.Client
}

// NewHTTPAux creates an HTTPAux with a bounded timeout.
func NewHTTPAux(url string, timeout time.Duration) *HTTPAux {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPAux{URL: url, Client: &http.Client{Timeout: timeout}}
}

// Score posts text and returns the reported score clamped to [0,1].
func (a *HTTPAux) Score(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("aux request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("aux request: status %d", resp.StatusCode)
	}

	var out struct {
		Score *float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("aux response: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("aux response: no score")
	}
	return min(max(*out.Score, 0), 1), nil
}

type auxHandler struct {
	Handler
	aux    AuxScorer
	logger *log.Logger
}

// WithAux wraps h so that each fetched README is also rated by aux. Any aux
// failure leaves AuxScore nil and marks FieldAux; it never affects other fields.
func WithAux(h Handler, aux AuxScorer, logger *log.Logger) Handler {
	if aux == nil {
		return h
	}
	return &auxHandler{Handler: h, aux: aux, logger: logger}
}

func (h *auxHandler) Fetch(ctx context.Context, ref artifact.Ref) *Metadata {
	m := h.Handler.Fetch(ctx, ref)
	if !m.Reachable() || m.Readme == "" {
		return m
	}
	score, err := h.aux.Score(ctx, m.Readme)
	if err != nil {
		m.Mark(FieldAux, StatusError)
		if h.logger != nil {
			h.logger.Debug("aux score unavailable", "url", ref.URL, "err", err)
		}
		return m
	}
	m.AuxScore = &score
	return m
}
