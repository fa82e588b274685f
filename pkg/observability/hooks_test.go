package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "file")
	p.OnLoadComplete(ctx, "file", 10, time.Second, nil)
	p.OnLayoutStart(ctx, 10)
	p.OnLayoutComplete(ctx, 10, 500, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "scene")
	c.OnCacheMiss(ctx, "scene")
	c.OnCacheSet(ctx, "artifact", 1024)

	NoopHTTPHooks{}.OnResponse(ctx, "GET", "/cloud.svg", 200, time.Millisecond)

	s := NoopSelectionHooks{}
	s.OnSelect(ctx, 3, "Berlin")
	s.OnSuperseded(ctx, 7)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Selection() should return NoopSelectionHooks by default")
	}

	custom := &testSelectionHooks{}
	SetSelectionHooks(custom)
	if Selection() != custom {
		t.Error("SetSelectionHooks should set custom hooks")
	}

	SetSelectionHooks(nil)
	if Selection() != custom {
		t.Error("SetSelectionHooks(nil) should be ignored")
	}

	Selection().OnSelect(context.Background(), 2, "DJ")
	if custom.selected != 2 {
		t.Errorf("custom hook not called, selected = %d", custom.selected)
	}

	Reset()
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Reset should restore NoopSelectionHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLayoutComplete(ctx, 12, 3400, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("rsvg missing"))
	h.OnSuperseded(ctx, 4)

	out := buf.String()
	for _, want := range []string{"layout complete", "steps=3400", "render failed", "rsvg missing", "superseded"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testSelectionHooks struct {
	NoopSelectionHooks
	selected int
}

func (h *testSelectionHooks) OnSelect(_ context.Context, index int, _ string) {
	h.selected = index
}
