package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{
		CanvasWidth:  1920,
		CanvasHeight: 1080,
		Density:      "medium",
		GridStep:     50,
		Spacing:      20,
		MaxScale:     0.3,
		Seed:         42,
	}

	key := k.LayoutKey("hash123", base)
	if !strings.HasPrefix(key, "layout:") {
		t.Errorf("LayoutKey should carry the layout prefix: %s", key)
	}

	// Same inputs produce the same key
	if again := k.LayoutKey("hash123", base); again != key {
		t.Error("LayoutKey should be deterministic")
	}

	// Every knob that changes enumeration output changes the key
	variants := map[string]LayoutKeyOpts{}
	for name, mutate := range map[string]func(*LayoutKeyOpts){
		"canvas width":  func(o *LayoutKeyOpts) { o.CanvasWidth = 800 },
		"canvas height": func(o *LayoutKeyOpts) { o.CanvasHeight = 600 },
		"density":       func(o *LayoutKeyOpts) { o.Density = "high" },
		"grid step":     func(o *LayoutKeyOpts) { o.GridStep = 25 },
		"spacing":       func(o *LayoutKeyOpts) { o.Spacing = 10 },
		"max scale":     func(o *LayoutKeyOpts) { o.MaxScale = 0.5 },
		"seed":          func(o *LayoutKeyOpts) { o.Seed = 7 },
	} {
		opts := base
		mutate(&opts)
		variants[name] = opts
	}
	for name, opts := range variants {
		if k.LayoutKey("hash123", opts) == key {
			t.Errorf("Changing %s should produce a different key", name)
		}
	}

	// Different element sets produce different keys
	if k.LayoutKey("hash456", base) == key {
		t.Error("Different element hashes should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "acme:")

	key := scoped.LayoutKey("hash123", LayoutKeyOpts{CanvasWidth: 800})
	if !strings.HasPrefix(key, "acme:layout:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", key)
	}

	// Prefix aside, the scoped key matches the inner key
	want := "acme:" + inner.LayoutKey("hash123", LayoutKeyOpts{CanvasWidth: 800})
	if key != want {
		t.Errorf("ScopedKeyer LayoutKey = %s, want %s", key, want)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.LayoutKey("hash123", LayoutKeyOpts{})
	if !strings.HasPrefix(key, "prefix:layout:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Missing key is a miss, not an error
	_, hit, err := c.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Missing key should be a miss")
	}

	// Round trip
	if err := c.Set(ctx, "key", []byte("layout data"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Expected a hit after Set")
	}
	if string(data) != "layout data" {
		t.Errorf("Get returned %q, want %q", data, "layout data")
	}

	// Delete removes the entry; deleting again is fine
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Key should be gone after Delete")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Deleting a missing key should not error: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	// Write an already-expired entry directly
	path := c.entryPath("stale")
	entry := cacheEntry{Data: []byte("old"), ExpiresAt: time.Now().Add(-time.Minute)}
	raw, _ := json.Marshal(entry)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "stale"); err != nil || hit {
		t.Errorf("Expired entry should be a miss: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expired entry should be removed on read")
	}

	// Zero TTL means no expiration
	if err := c.Set(ctx, "forever", []byte("data"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("Zero-TTL entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	path := c.entryPath("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Errorf("Corrupt entry should be a miss: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Corrupt entry should be removed on read")
	}
}

func TestFileCacheClearAndStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	if c.Path() != dir {
		t.Errorf("Path() = %s, want %s", c.Path(), dir)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte("data-"+key), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	entries, bytes, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if entries != 3 {
		t.Errorf("Stats entries = %d, want 3", entries)
	}
	if bytes <= 0 {
		t.Errorf("Stats bytes = %d, want > 0", bytes)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	entries, _, err = c.Stats()
	if err != nil {
		t.Fatalf("Stats after Clear error: %v", err)
	}
	if entries != 0 {
		t.Errorf("Stats entries after Clear = %d, want 0", entries)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Entries should be gone after Clear")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
