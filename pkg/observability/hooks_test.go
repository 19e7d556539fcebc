package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	k := NoopKernelHooks{}
	k.OnOperationStart(ctx, "shorten")
	k.OnOperationComplete(ctx, "shorten", time.Second, nil)
	k.OnShorten(ctx, 12, 2, 7)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "shorten")
	c.OnCacheMiss(ctx, "classify")
	c.OnCacheSet(ctx, "components", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Kernel().(NoopKernelHooks); !ok {
		t.Error("Kernel() should return NoopKernelHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customKernel := &testKernelHooks{}
	SetKernelHooks(customKernel)
	if Kernel() != customKernel {
		t.Error("SetKernelHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Kernel().(NoopKernelHooks); !ok {
		t.Error("Reset() should restore NoopKernelHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testKernelHooks{}
	SetKernelHooks(custom)

	SetKernelHooks(nil)
	if Kernel() != custom {
		t.Error("SetKernelHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testKernelHooks struct{ NoopKernelHooks }
type testCacheHooks struct{ NoopCacheHooks }
