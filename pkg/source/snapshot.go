package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/cache"
)

// SnapshotStore persists Metadata as JSON so a run can be replayed offline.
type SnapshotStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewSnapshotStore stores snapshots in c. A nil keyer uses the default keys.
func NewSnapshotStore(c cache.Cache, keyer cache.Keyer) *SnapshotStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &SnapshotStore{cache: c, keyer: keyer}
}

// Load returns the snapshot for an artifact URL.
func (s *SnapshotStore) Load(ctx context.Context, url string) (*Metadata, bool, error) {
	e, ok, err := s.cache.Get(ctx, s.keyer.SnapshotKey(url))
	if err != nil || !ok {
		return nil, false, err
	}
	var m Metadata
	if err := json.Unmarshal(e.Data, &m); err != nil {
		return nil, false, fmt.Errorf("snapshot %s: %w", url, err)
	}
	if m.Status == nil {
		m.Status = make(map[Field]FieldStatus)
	}
	return &m, true, nil
}

// Save writes m under its artifact URL.
func (s *SnapshotStore) Save(ctx context.Context, m *Metadata) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.keyer.SnapshotKey(m.Ref.URL), data, "")
}

type recordingHandler struct {
	Handler
	store  *SnapshotStore
	logger *log.Logger
}

// Recording wraps h so that every reachable artifact's Metadata is saved to store.
func Recording(h Handler, store *SnapshotStore, logger *log.Logger) Handler {
	return &recordingHandler{Handler: h, store: store, logger: logger}
}

func (h *recordingHandler) Fetch(ctx context.Context, ref artifact.Ref) *Metadata {
	m := h.Handler.Fetch(ctx, ref)
	if !m.Reachable() {
		return m
	}
	if err := h.store.Save(ctx, m); err != nil && h.logger != nil {
		h.logger.Warn("snapshot not saved", "url", ref.URL, "err", err)
	}
	return m
}

// OfflineHandler serves Metadata from snapshots without any network access.
type OfflineHandler struct {
	store  *SnapshotStore
	logger *log.Logger
}

// NewOfflineHandler creates a handler reading from store.
func NewOfflineHandler(store *SnapshotStore, logger *log.Logger) *OfflineHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &OfflineHandler{store: store, logger: logger}
}

func (h *OfflineHandler) Name() string { return "snapshot" }

// Supports accepts every classified reference.
func (h *OfflineHandler) Supports(ref artifact.Ref) bool { return ref.Category.Valid() }

// Fetch loads the snapshot. A missing or unreadable snapshot yields an
// unreachable Metadata.
func (h *OfflineHandler) Fetch(ctx context.Context, ref artifact.Ref) *Metadata {
	m, ok, err := h.store.Load(ctx, ref.URL)
	switch {
	case err != nil:
		h.logger.Debug("snapshot unreadable", "url", ref.URL, "err", err)
		m = New(ref)
		m.Mark(FieldRepo, StatusError)
	case !ok:
		h.logger.Debug("no snapshot", "url", ref.URL)
		m = New(ref)
		m.Mark(FieldRepo, StatusMissing)
	default:
		m.Ref = ref
	}
	return m
}
