package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), "etag"); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Fatal("empty cache reported a hit")
	}

	data := []byte("readme")
	if err := c.Set(ctx, "k", data, `W/"abc"`); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	e, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v; want hit", hit, err)
	}
	if string(e.Data) != "readme" {
		t.Errorf("Data = %q, cache must copy on Set", e.Data)
	}
	if e.ETag != `W/"abc"` {
		t.Errorf("ETag = %q", e.ETag)
	}
	if e.StoredAt.IsZero() {
		t.Error("StoredAt not set")
	}

	e.Data[0] = 'Y'
	again, _, _ := c.Get(ctx, "k")
	if string(again.Data) != "readme" {
		t.Error("cache must copy on Get")
	}

	_ = c.Delete(ctx, "k")
	if c.Len() != 0 {
		t.Errorf("Len() = %d after delete", c.Len())
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = c.Set(ctx, key, []byte{byte(i)}, "")
			_, _, _ = c.Get(ctx, key)
		}()
	}
	wg.Wait()
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestEntry_Age(t *testing.T) {
	now := time.Now()
	if (Entry{}).Age(now) != 0 {
		t.Error("zero StoredAt should have zero age")
	}
	e := Entry{StoredAt: now.Add(-time.Minute)}
	if e.Age(now) != time.Minute {
		t.Errorf("Age = %v", e.Age(now))
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "meta:https://github.com/a/b", []byte(`{"x":1}`), "v1"); err != nil {
		t.Fatal(err)
	}
	e, hit, err := c.Get(ctx, "meta:https://github.com/a/b")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v", hit, err)
	}
	if !bytes.Equal(e.Data, []byte(`{"x":1}`)) || e.ETag != "v1" {
		t.Errorf("entry = %+v", e)
	}

	// A second instance over the same directory sees the entry.
	c2, _ := NewFileCache(dir)
	if _, hit, _ := c2.Get(ctx, "meta:https://github.com/a/b"); !hit {
		t.Error("entry not visible to a second FileCache")
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Clear() removed %d, want 1", n)
	}
	if _, hit, _ := c.Get(ctx, "meta:https://github.com/a/b"); hit {
		t.Error("entry survived Clear")
	}
}

func TestFileCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() = %v, %v; want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCache_Path(t *testing.T) {
	c := &FileCache{dir: "/snap"}
	p := c.path("meta:https://huggingface.co/openai/whisper-tiny?x=1")
	if p != c.path("meta:https://huggingface.co/openai/whisper-tiny?x=1") {
		t.Error("path should be deterministic")
	}
	if p == c.path("meta:https://huggingface.co/openai/whisper-base") {
		t.Error("different keys should map to different files")
	}
	rel, err := filepath.Rel("/snap", p)
	if err != nil || len(filepath.Base(rel)) != 62+len(".json") || len(filepath.Dir(rel)) != 2 {
		t.Errorf("path = %s, want /snap/<2 hex>/<62 hex>.json", p)
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	if got := k.HTTPKey("https://api.github.com/repos/a/b"); got != "http:https://api.github.com/repos/a/b" {
		t.Errorf("HTTPKey = %s", got)
	}
	if got := k.SnapshotKey("https://github.com/a/b"); got != "meta:https://github.com/a/b" {
		t.Errorf("SnapshotKey = %s", got)
	}

	scoped := NewScopedKeyer(nil, "run:123:")
	if got := scoped.HTTPKey("u"); got != "run:123:http:u" {
		t.Errorf("scoped HTTPKey = %s", got)
	}
	if got := scoped.SnapshotKey("u"); got != "run:123:meta:u" {
		t.Errorf("scoped SnapshotKey = %s", got)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://not-redis", "run:", time.Minute); err == nil {
		t.Error("expected error for non-redis URL")
	}
}
