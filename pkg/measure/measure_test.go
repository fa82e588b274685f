package measure

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

func TestFallback(t *testing.T) {
	b, err := Fallback{}.Measure("anything", 40)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if b != (geom.Box{X: 0, Y: 0, W: 50, H: 5}) {
		t.Errorf("Measure() = %+v, want 50x5 fallback", b)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		label string
		size  float64
		wantW float64
	}{
		{"abcd", 10, 22},
		{"", 10, 0},
		{"Düsseldorf", 20, 110},
	}
	for _, tt := range tests {
		b, err := Estimate{}.Measure(tt.label, tt.size)
		if err != nil {
			t.Fatalf("Measure(%q) error = %v", tt.label, err)
		}
		if diff := b.W - tt.wantW; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Measure(%q).W = %v, want %v", tt.label, b.W, tt.wantW)
		}
		if b.H != tt.size {
			t.Errorf("Measure(%q).H = %v, want %v", tt.label, b.H, tt.size)
		}
	}

	if _, err := (Estimate{}).Measure("x", 0); !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("Measure(size=0) error = %v, want INVALID_BOX", err)
	}
}

func TestFont(t *testing.T) {
	f, err := NewFont()
	if err != nil {
		t.Fatalf("NewFont() error = %v", err)
	}
	defer f.Close()

	short, err := f.Measure("Go", 20)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	long, err := f.Measure("Gophers everywhere", 20)
	if err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if short.W <= 0 || short.H <= 0 {
		t.Errorf("Measure(Go) = %+v, want positive size", short)
	}
	if long.W <= short.W {
		t.Errorf("longer label should be wider: %v <= %v", long.W, short.W)
	}
	if long.H != short.H {
		t.Errorf("height should depend on size only: %v != %v", long.H, short.H)
	}

	big, _ := f.Measure("Go", 40)
	if big.W <= short.W || big.H <= short.H {
		t.Errorf("larger size should give larger box: %+v vs %+v", big, short)
	}
}

func TestFontConcurrent(t *testing.T) {
	f, err := NewFont()
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := f.Measure("concurrent", float64(10+i%3*10)); err != nil {
				t.Errorf("Measure() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}

func TestMeasureAllFallsBack(t *testing.T) {
	failing := Func(func(label string, size float64) (geom.Box, error) {
		switch label {
		case "bad":
			return geom.Box{}, errors.New(errors.ErrCodeInternal, "no metrics")
		case "negative":
			return geom.Box{W: -1, H: 3}, nil
		}
		return geom.Box{X: 7, Y: 7, W: 10, H: size}, nil
	})

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	got := MeasureAll(failing, []Request{{"ok", 12}, {"bad", 12}, {"negative", 12}}, logger)

	want := []geom.Box{{W: 10, H: 12}, FallbackBox, FallbackBox}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MeasureAll()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if !strings.Contains(buf.String(), "using fallback box") {
		t.Errorf("expected fallback warning in log, got %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	for _, kind := range []string{KindFallback, KindEstimate, KindFont, ""} {
		m, err := New(kind)
		if err != nil {
			t.Errorf("New(%q) error = %v", kind, err)
			continue
		}
		want := kind
		if want == "" {
			want = KindEstimate
		}
		if got := Describe(m); got != want {
			t.Errorf("Describe(New(%q)) = %q, want %q", kind, got, want)
		}
	}
	if _, err := New("ruler"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(ruler) error = %v, want INVALID_CONFIG", err)
	}
}
