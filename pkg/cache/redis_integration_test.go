//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("TRUSTSCORE_REDIS_URL")
	if url == "" {
		t.Skip("TRUSTSCORE_REDIS_URL not set, skipping integration test")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url, "test:"+uuid.NewString()+":", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), "etag-1"); err != nil {
		t.Fatal(err)
	}
	e, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get() = %v, %v", hit, err)
	}
	if string(e.Data) != "v" || e.ETag != "etag-1" || e.StoredAt.IsZero() {
		t.Errorf("entry = %+v", e)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
}
