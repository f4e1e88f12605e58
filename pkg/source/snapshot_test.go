package source

import (
	"context"
	"testing"

	"github.com/matzehuels/trustscore/pkg/artifact"
	"github.com/matzehuels/trustscore/pkg/cache"
)

func TestSnapshot_RecordAndReplay(t *testing.T) {
	ctx := context.Background()
	store := NewSnapshotStore(cache.NewMemoryCache(), nil)
	ref := mustClassify(t, "https://github.com/openai/whisper")

	live := Recording(newGitHubHandler(t, &fakeGitHub{}), store, nil)
	recorded := live.Fetch(ctx, ref)

	offline := NewOfflineHandler(store, nil)
	if !offline.Supports(ref) {
		t.Fatal("offline handler should support classified refs")
	}
	replayed := offline.Fetch(ctx, ref)

	if !replayed.Reachable() {
		t.Fatalf("replayed snapshot unreachable: %v", replayed.Status)
	}
	if replayed.Stars != recorded.Stars || replayed.LicenseID != recorded.LicenseID {
		t.Errorf("replayed = %d %q, recorded = %d %q",
			replayed.Stars, replayed.LicenseID, recorded.Stars, recorded.LicenseID)
	}
	if len(replayed.Contributors) != len(recorded.Contributors) || len(replayed.Manifests) != len(recorded.Manifests) {
		t.Error("replayed snapshot lost contributors or manifests")
	}
	if replayed.Readme != recorded.Readme {
		t.Error("replayed README differs")
	}
}

func TestSnapshot_UnreachableNotRecorded(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache()
	store := NewSnapshotStore(c, nil)
	f := &fakeGitHub{}
	f.repoMissing.Store(true)

	Recording(newGitHubHandler(t, f), store, nil).Fetch(ctx, mustClassify(t, "https://github.com/openai/whisper"))
	if _, ok, _ := store.Load(ctx, "https://github.com/openai/whisper"); ok {
		t.Error("unreachable artifacts should not be snapshotted")
	}
}

func TestOfflineHandler_MissingSnapshot(t *testing.T) {
	h := NewOfflineHandler(NewSnapshotStore(cache.NewMemoryCache(), nil), nil)
	ref := mustClassify(t, "https://huggingface.co/google/bert-base-uncased")

	m := h.Fetch(context.Background(), ref)
	if m.Reachable() {
		t.Error("missing snapshot should be unreachable")
	}
	if s, _ := m.StatusOf(FieldRepo); s != StatusMissing {
		t.Errorf("repo status = %q, want missing", s)
	}
	if h.Supports(artifact.Unknown("not a url")) {
		t.Error("offline handler should reject UNKNOWN refs")
	}
}
