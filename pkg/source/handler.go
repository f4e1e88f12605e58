package source

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
	tserrors "github.com/matzehuels/trustscore/pkg/errors"
	"github.com/matzehuels/trustscore/pkg/integrations"
)

// Handler fetches Metadata for the references it supports.
type Handler interface {
	// Name identifies the handler in logs and metrics.
	Name() string
	// Supports reports whether the handler can fetch ref.
	Supports(ref artifact.Ref) bool
	// Fetch reads everything the handler knows about ref. It never fails:
	// unreadable fields are flagged in the returned Metadata.
	Fetch(ctx context.Context, ref artifact.Ref) *Metadata
}

// Router selects a handler per reference.
type Router struct {
	handlers []Handler
}

// NewRouter creates a Router trying handlers in order.
func NewRouter(handlers ...Handler) *Router {
	return &Router{handlers: handlers}
}

// For returns the first handler supporting ref, or an UNSUPPORTED_SOURCE error.
func (r *Router) For(ref artifact.Ref) (Handler, error) {
	for _, h := range r.handlers {
		if h.Supports(ref) {
			return h, nil
		}
	}
	return nil, tserrors.New(tserrors.ErrCodeUnsupportedSource, "no handler for %s artifact on %q", ref.Category, ref.Host)
}

// statusFor maps a client error to a field status and the code logged
// for the degraded field.
func statusFor(err error) (FieldStatus, tserrors.Code) {
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return StatusMissing, tserrors.ErrCodeNotFound
	case errors.Is(err, integrations.ErrRateLimited):
		return StatusRateLimited, tserrors.ErrCodeRateLimited
	case errors.Is(err, integrations.ErrNetwork):
		return StatusError, tserrors.ErrCodeNetwork
	}
	return StatusError, tserrors.ErrCodeFetch
}

// record marks f according to err and stale. It returns true when the
// fetched value is usable.
func record(logger *log.Logger, m *Metadata, f Field, stale bool, err error) bool {
	switch {
	case err != nil:
		status, code := statusFor(err)
		m.Mark(f, status)
		logger.Debug("field degraded", "url", m.Ref.URL, "field", f, "code", code, "err", err)
		return false
	case stale:
		m.Mark(f, StatusStale)
		logger.Debug("using stale field", "url", m.Ref.URL, "field", f)
	}
	return true
}
