package layout

import (
	"testing"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

func TestPassLifecycle(t *testing.T) {
	e := New()
	p := NewPass(3, fallback)

	if p.State() != Unmeasured {
		t.Fatalf("State() = %v, want unmeasured", p.State())
	}
	for i, b := range p.Boxes() {
		if b != fallback {
			t.Errorf("box %d = %+v, want fallback", i, b)
		}
	}

	provisional, err := p.Provisional(e)
	if err != nil {
		t.Fatalf("Provisional() error = %v", err)
	}
	assertNoOverlap(t, provisional)
	if p.Placements() != nil {
		t.Error("Placements() should be nil before Placed")
	}

	measured := []geom.Box{{W: 80, H: 30}, {W: 20, H: 10}, {W: 40, H: 20}}
	if err := p.Measure(measured); err != nil {
		t.Fatalf("Measure() error = %v", err)
	}
	if p.State() != Measured {
		t.Fatalf("State() = %v, want measured", p.State())
	}

	final, err := p.Place(e)
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	if p.State() != Placed {
		t.Fatalf("State() = %v, want placed", p.State())
	}
	assertNoOverlap(t, final)
	if final[0].Box.W != 80 {
		t.Errorf("final placement should use measured boxes, got %+v", final[0].Box)
	}
	if len(p.Placements()) != 3 {
		t.Errorf("Placements() len = %d, want 3", len(p.Placements()))
	}
}

func TestPassRejectsOutOfOrder(t *testing.T) {
	e := New()

	p := NewPass(1, fallback)
	if _, err := p.Place(e); err == nil {
		t.Error("Place() on unmeasured pass should fail")
	}

	if err := p.Measure([]geom.Box{{W: 1, H: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := p.Measure([]geom.Box{{W: 1, H: 1}}); err == nil {
		t.Error("second Measure() should fail")
	}
	if _, err := p.Provisional(e); err == nil {
		t.Error("Provisional() on measured pass should fail")
	}

	if _, err := p.Place(e); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Place(e); err == nil {
		t.Error("second Place() should fail")
	}
}

func TestPassMeasureErrors(t *testing.T) {
	p := NewPass(2, fallback)
	if err := p.Measure([]geom.Box{{W: 1, H: 1}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Measure(short) error = %v, want INVALID_INPUT", err)
	}
	if err := p.Measure([]geom.Box{{W: 1, H: 1}, {W: 1, H: -1}}); !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("Measure(negative) error = %v, want INVALID_BOX", err)
	}
	if p.State() != Unmeasured {
		t.Errorf("failed Measure() changed state to %v", p.State())
	}
}
