package statuscache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/phyten/todovet/internal/model"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }

func openMemory(t *testing.T, ttl time.Duration, clock *fakeClock) *Cache {
	t.Helper()
	c, err := Open(context.Background(), MemoryPath, ttl, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestStoreAndLookup(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := openMemory(t, time.Minute, clock)
	key := Key{Tracker: "GITHUB", Origin: "github.com/o/r", ID: "#1"}

	if _, ok, err := c.Lookup(ctx, key); err != nil || ok {
		t.Fatalf("empty cache should miss: ok=%v err=%v", ok, err)
	}
	if err := c.Store(ctx, key, model.StatusClosed); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	status, ok, err := c.Lookup(ctx, key)
	if err != nil || !ok || status != model.StatusClosed {
		t.Fatalf("Lookup = %s %v %v", status, ok, err)
	}
	if err := c.Store(ctx, key, model.StatusOpen); err != nil {
		t.Fatalf("Store overwrite failed: %v", err)
	}
	if status, _, _ := c.Lookup(ctx, key); status != model.StatusOpen {
		t.Fatalf("overwrite not applied: %s", status)
	}
	other := Key{Tracker: "GITLAB", Origin: "github.com/o/r", ID: "#1"}
	if _, ok, _ := c.Lookup(ctx, other); ok {
		t.Fatal("keys must include the tracker")
	}
}

func TestLookupExpires(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	c := openMemory(t, time.Minute, clock)
	key := Key{Tracker: "JIRA", Origin: "jira.example.com", ID: "PROJ-1"}
	if err := c.Store(ctx, key, model.StatusNonExistent); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	clock.t = clock.t.Add(59 * time.Second)
	if _, ok, _ := c.Lookup(ctx, key); !ok {
		t.Fatal("entry should still be fresh")
	}
	clock.t = clock.t.Add(time.Second)
	if _, ok, _ := c.Lookup(ctx, key); ok {
		t.Fatal("entry should have expired")
	}
	n, err := c.Prune(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.db")
	c, err := Open(ctx, path, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if c.TTL() != DefaultTTL {
		t.Fatalf("TTL = %s, want default", c.TTL())
	}
	key := Key{Tracker: "REDMINE", Origin: "redmine.example.com", ID: "3"}
	if err := c.Store(ctx, key, model.StatusOpen); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(ctx, path, time.Hour)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if status, ok, err := reopened.Lookup(ctx, key); err != nil || !ok || status != model.StatusOpen {
		t.Fatalf("persisted Lookup = %s %v %v", status, ok, err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(context.Background(), "", 0); err == nil {
		t.Fatal("empty path must fail")
	}
}
