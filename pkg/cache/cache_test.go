package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	key := NewDefaultKeyer().ShortenKey("(0,1,2),(~0,~1,~2)|[6,1,5]")
	if err := c.Set(ctx, key, []byte("short"), TTLShorten); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if data, hit, err := c.Get(ctx, key); err != nil || hit || data != nil {
		t.Errorf("Get() after Set = %q, %v, %v, want miss", data, hit, err)
	}
	if n, err := Clear(ctx, c); err != nil || n != 0 {
		t.Errorf("Clear() = %d, %v, want 0, nil", n, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

// testBackend runs the contract every Cache implementation must satisfy.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v, want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v1"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v1" {
		t.Errorf("Get(k) = %q, %v, %v, want \"v1\", true, nil", data, hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v2"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, _, _ := c.Get(ctx, "k"); string(data) != "v2" {
		t.Errorf("Get(k) after overwrite = %q, want \"v2\"", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get(k) after Delete hit, want miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%s) error: %v", k, err)
		}
	}
	if _, err := Clear(ctx, c); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("Get(%s) after Clear hit, want miss", k)
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get() of expired entry hit, want miss")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() of corrupt entry = %v, %v, want miss", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCache_ClearCounts(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after Clear, want 0", len(entries))
	}
}

func TestBadgerCache_InMemory(t *testing.T) {
	c, err := NewBadgerCache("")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LAMINA_REDIS_ADDR")
	if addr == "" {
		t.Skip("LAMINA_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	testBackend(t, c)
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/xdg/lamina" {
		t.Errorf("DefaultDir() = %q, want %q", dir, "/tmp/xdg/lamina")
	}
}

func TestTypedValues(t *testing.T) {
	ctx := context.Background()
	c, err := NewBadgerCache("")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	type result struct {
		Weights []int  `msgpack:"weights"`
		Kind    string `msgpack:"kind"`
	}
	in := result{Weights: []int{1, 0, 1}, Kind: "curve"}
	if err := SetValue(ctx, c, "r", in, 0); err != nil {
		t.Fatal(err)
	}
	var out result
	if err := GetValue(ctx, c, "r", &out); err != nil {
		t.Fatal(err)
	}
	if out.Kind != in.Kind || len(out.Weights) != 3 || out.Weights[0] != 1 {
		t.Errorf("GetValue() = %+v, want %+v", out, in)
	}

	if err := GetValue(ctx, c, "missing", &out); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("GetValue(missing) error = %v, want ErrCacheMiss", err)
	}
}

func TestClear_Unsupported(t *testing.T) {
	var c struct{ Cache }
	if _, err := Clear(context.Background(), c); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Clear() error = %v, want ErrUnsupported", err)
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		a, b string
		same bool
	}{
		{"flip 0", "flip 0", true},
		{"flip 0", "flip 1", false},
		{"", "", true},
	}
	for _, tt := range tests {
		ha, hb := Hash([]byte(tt.a)), Hash([]byte(tt.b))
		if len(ha) != 64 {
			t.Errorf("len(Hash(%q)) = %d, want 64", tt.a, len(ha))
		}
		if (ha == hb) != tt.same {
			t.Errorf("Hash(%q) == Hash(%q) = %v, want %v", tt.a, tt.b, ha == hb, tt.same)
		}
	}
}

func TestHashKey(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []any
		differ bool
	}{
		{"same parts", []any{"(0,1,2)", "[1,0,1]"}, []any{"(0,1,2)", "[1,0,1]"}, false},
		{"part boundary", []any{"(0,1,2)", "[1,0,1]"}, []any{"(0,1,2)[1", ",0,1]"}, true},
		{"order", []any{"a", "b"}, []any{"b", "a"}, true},
		{"options", []any{"sig", ClassifyKeyOpts{MaxOrder: 6}}, []any{"sig", ClassifyKeyOpts{MaxOrder: 7}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := hashKey(PrefixShorten, tt.a...), hashKey(PrefixShorten, tt.b...)
			if !strings.HasPrefix(ka, PrefixShorten+":") {
				t.Errorf("hashKey() = %q, want prefix %q", ka, PrefixShorten+":")
			}
			if (ka != kb) != tt.differ {
				t.Errorf("hashKey(%v) != hashKey(%v) = %v, want %v", tt.a, tt.b, ka != kb, tt.differ)
			}
		})
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	lam := "(0,1,2),(~0,~1,~2)|[1,0,1]"

	sk := k.ShortenKey(lam)
	if !strings.HasPrefix(sk, PrefixShorten+":") {
		t.Errorf("ShortenKey() = %q, want prefix %q", sk, PrefixShorten+":")
	}
	if sk == k.ComponentsKey(lam) {
		t.Error("ShortenKey and ComponentsKey should differ for the same input")
	}

	ck1 := k.ClassifyKey("sig", "flip 0", ClassifyKeyOpts{MaxOrder: 6})
	ck2 := k.ClassifyKey("sig", "flip 0", ClassifyKeyOpts{MaxOrder: 12})
	if ck1 == ck2 {
		t.Error("Different ClassifyKeyOpts should produce different keys")
	}

	if k.IntersectKey("a", "b") == k.IntersectKey("b", "a") {
		t.Error("IntersectKey should depend on argument order")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "user:123:")

	got := scoped.ShortenKey("x")
	if want := "user:123:" + inner.ShortenKey("x"); got != want {
		t.Errorf("ScopedKeyer ShortenKey = %q, want %q", got, want)
	}

	ik := scoped.IntersectKey("a", "b")
	if !strings.HasPrefix(ik, "user:123:"+PrefixIntersect) {
		t.Errorf("ScopedKeyer IntersectKey should be prefixed: %s", ik)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.ComponentsKey("x")
	if want := "prefix:" + NewDefaultKeyer().ComponentsKey("x"); key != want {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"marked", Retryable(ErrNetwork), true},
		{"wrapped mark", fmt.Errorf("get shorten key: %w", Retryable(ErrNetwork)), true},
		{"miss", ErrCacheMiss, false},
	}
	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if err := Retryable(ErrNetwork); !errors.Is(err, ErrNetwork) || err.Error() != ErrNetwork.Error() {
		t.Errorf("Retryable(ErrNetwork) = %v, want it to wrap ErrNetwork", err)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	flaky := func(failures int) func() error {
		calls := 0
		return func() error {
			calls++
			if calls <= failures {
				return Retryable(ErrNetwork)
			}
			return nil
		}
	}

	tests := []struct {
		name      string
		fn        func() error
		wantErr   error
		wantCalls int
	}{
		{"up", flaky(0), nil, 1},
		{"one blip", flaky(1), nil, 2},
		{"down", flaky(10), ErrNetwork, retryAttempts},
		{"miss", func() error { return ErrCacheMiss }, ErrCacheMiss, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), func() error {
				calls++
				return tt.fn()
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RetryWithBackoff() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() error = %v, want context.Canceled", err)
	}
}
