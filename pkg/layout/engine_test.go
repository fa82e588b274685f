package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

var fallback = geom.Box{W: 50, H: 5}

func assertNoOverlap(t *testing.T, ps []Placement) {
	t.Helper()
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			if geom.Intersects(ps[i].Box, ps[j].Box) {
				t.Fatalf("placements %d and %d intersect: %+v %+v", i, j, ps[i].Box, ps[j].Box)
			}
		}
	}
}

func TestPlaceAllFirstAtOrigin(t *testing.T) {
	ps, err := New().PlaceAll([]geom.Box{fallback})
	if err != nil {
		t.Fatalf("PlaceAll() error = %v", err)
	}
	want := Placement{
		Box:      geom.Box{X: -25, Y: -2.5, W: 50, H: 5},
		Position: Position{X: -25, Y: 0},
	}
	if ps[0] != want {
		t.Errorf("PlaceAll()[0] = %+v, want %+v", ps[0], want)
	}
}

func TestPlaceAllSecondDiffers(t *testing.T) {
	ps, err := New().PlaceAll([]geom.Box{fallback, fallback})
	if err != nil {
		t.Fatalf("PlaceAll() error = %v", err)
	}
	if ps[0].Position == ps[1].Position {
		t.Errorf("second placement coincides with first at %+v", ps[0].Position)
	}
	if ps[1].Steps == 0 {
		t.Error("second placement should not be accepted at t=0")
	}
	assertNoOverlap(t, ps)
}

func TestPlaceAllNoOverlap(t *testing.T) {
	tests := []struct {
		name  string
		boxes []geom.Box
	}{
		{"single", []geom.Box{fallback}},
		{"same size", repeat(fallback, 25)},
		{"mixed", []geom.Box{
			{W: 120, H: 60}, {W: 30, H: 10}, {W: 80, H: 40}, {W: 15, H: 10},
			{W: 200, H: 50}, {W: 45, H: 20}, {W: 60, H: 30}, {W: 10, H: 10},
		}},
		{"degenerate", []geom.Box{{}, {}, {W: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := New().PlaceAll(tt.boxes)
			if err != nil {
				t.Fatalf("PlaceAll() error = %v", err)
			}
			if len(ps) != len(tt.boxes) {
				t.Fatalf("len = %d, want %d", len(ps), len(tt.boxes))
			}
			assertNoOverlap(t, ps)
			for i, p := range ps {
				if p.Box.W != tt.boxes[i].W || p.Box.H != tt.boxes[i].H {
					t.Errorf("placement %d changed size: %+v", i, p.Box)
				}
				if p.Position.X != p.Box.X || p.Position.Y != p.Box.Y+p.Box.H/2 {
					t.Errorf("placement %d anchor = %+v, want left/middle of %+v", i, p.Position, p.Box)
				}
			}
		})
	}
}

func TestPlaceAllDeterministic(t *testing.T) {
	boxes := []geom.Box{{W: 40, H: 20}, {W: 10, H: 30}, {W: 55, H: 8}, fallback, fallback}
	e := New(WithStep(0.1))

	first, err := e.PlaceAll(boxes)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.PlaceAll(boxes)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("rerun differs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestPlaceAllDoesNotMutateInput(t *testing.T) {
	boxes := []geom.Box{{X: 99, Y: 99, W: 10, H: 10}, {X: 1, Y: 2, W: 10, H: 10}}
	orig := append([]geom.Box(nil), boxes...)
	if _, err := New().PlaceAll(boxes); err != nil {
		t.Fatal(err)
	}
	for i := range boxes {
		if boxes[i] != orig[i] {
			t.Errorf("input %d mutated: %+v", i, boxes[i])
		}
	}
}

func TestPlaceAllEmpty(t *testing.T) {
	ps, err := New().PlaceAll(nil)
	if err != nil {
		t.Fatalf("PlaceAll(nil) error = %v", err)
	}
	if len(ps) != 0 {
		t.Errorf("PlaceAll(nil) = %v, want empty", ps)
	}
	if v := Fit(ps); !v.IsZero() {
		t.Errorf("Fit(empty) = %+v, want zero box", v)
	}
}

func TestPlaceAllInvalidBox(t *testing.T) {
	_, err := New().PlaceAll([]geom.Box{fallback, {W: -1, H: 5}})
	if !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("PlaceAll() error = %v, want INVALID_BOX", err)
	}
	_, err = New().PlaceAll([]geom.Box{{W: math.NaN(), H: 5}})
	if !errors.Is(err, errors.ErrCodeInvalidBox) {
		t.Errorf("PlaceAll(NaN) error = %v, want INVALID_BOX", err)
	}
}

func TestPlaceAllBudget(t *testing.T) {
	_, err := New(WithMaxSteps(1)).PlaceAll([]geom.Box{fallback, fallback})
	if !errors.Is(err, errors.ErrCodeLayoutBudget) {
		t.Errorf("PlaceAll() error = %v, want LAYOUT_BUDGET", err)
	}

	ps, err := New(WithMaxSteps(100000)).PlaceAll([]geom.Box{fallback, fallback})
	if err != nil {
		t.Fatalf("PlaceAll() with ample budget error = %v", err)
	}
	assertNoOverlap(t, ps)
}

func TestOptions(t *testing.T) {
	e := New(WithStep(-1), WithMaxSteps(-5))
	if e.Step() != DefaultStep {
		t.Errorf("Step() = %v, want default %v", e.Step(), DefaultStep)
	}
	if e.MaxSteps() != 0 {
		t.Errorf("MaxSteps() = %v, want 0", e.MaxSteps())
	}
	if got := New(WithStep(0.2)).Step(); got != 0.2 {
		t.Errorf("Step() = %v, want 0.2", got)
	}
}

func TestFitEnclosesAll(t *testing.T) {
	ps, err := New().PlaceAll([]geom.Box{{W: 30, H: 10}, {W: 30, H: 10}, {W: 70, H: 20}})
	if err != nil {
		t.Fatal(err)
	}
	v := Fit(ps)
	for i, p := range ps {
		b := p.Box
		if b.Left() < v.Left() || b.Right() > v.Right() || b.Top() < v.Top() || b.Bottom() > v.Bottom() {
			t.Errorf("box %d %+v outside viewport %+v", i, b, v)
		}
	}
}

func TestSpiral(t *testing.T) {
	x, y := Spiral(0)
	if x != 0 || y != 0 {
		t.Errorf("Spiral(0) = (%v, %v), want origin", x, y)
	}
	x, y = Spiral(math.Pi)
	if math.Abs(x+math.Pi) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("Spiral(pi) = (%v, %v), want (-pi, 0)", x, y)
	}
}

func repeat(b geom.Box, n int) []geom.Box {
	out := make([]geom.Box, n)
	for i := range out {
		out[i] = b
	}
	return out
}
