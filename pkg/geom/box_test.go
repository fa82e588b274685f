package geom

import (
	"math"
	"testing"

	"github.com/matzehuels/topiccloud/pkg/errors"
)

func TestBoxEdges(t *testing.T) {
	b := Box{X: 10, Y: 20, W: 30, H: 40}

	if b.Left() != 10 || b.Right() != 40 {
		t.Errorf("Left/Right = %v/%v, want 10/40", b.Left(), b.Right())
	}
	if b.Top() != 20 || b.Bottom() != 60 {
		t.Errorf("Top/Bottom = %v/%v, want 20/60", b.Top(), b.Bottom())
	}
	cx, cy := b.Center()
	if cx != 25 || cy != 40 {
		t.Errorf("Center() = (%v, %v), want (25, 40)", cx, cy)
	}
}

func TestCenteredAt(t *testing.T) {
	b := Box{W: 50, H: 5}.CenteredAt(0, 0)
	want := Box{X: -25, Y: -2.5, W: 50, H: 5}
	if b != want {
		t.Errorf("CenteredAt(0, 0) = %+v, want %+v", b, want)
	}
}

func TestIntersects(t *testing.T) {
	box1 := Box{X: 10, Y: 20, W: 10, H: 10}
	box2 := Box{X: 50, Y: 50, W: 10, H: 10}
	box3 := Box{X: 20, Y: 20, W: 10, H: 10}

	tests := []struct {
		name string
		a, b Box
		want bool
	}{
		{"self", box1, box1, true},
		{"disjoint", box1, box2, false},
		{"touching edge", box1, box3, true},
		{"contained", Box{X: 0, Y: 0, W: 100, H: 100}, Box{X: 10, Y: 10, W: 5, H: 5}, true},
		{"overlap corner", Box{X: 0, Y: 0, W: 10, H: 10}, Box{X: 5, Y: 5, W: 10, H: 10}, true},
		{"separated horizontally", Box{X: 0, Y: 0, W: 10, H: 10}, Box{X: 10.01, Y: 0, W: 10, H: 10}, false},
		{"separated vertically", Box{X: 0, Y: 0, W: 10, H: 10}, Box{X: 0, Y: -10.5, W: 10, H: 10}, false},
		{"zero size at same point", Box{X: 3, Y: 3}, Box{X: 3, Y: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.a, tt.b); got != tt.want {
				t.Errorf("Intersects(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIntersectsSymmetric(t *testing.T) {
	boxes := []Box{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 5, Y: 5, W: 10, H: 10},
		{X: 10, Y: 0, W: 3, H: 3},
		{X: -20, Y: -20, W: 5, H: 40},
		{X: 100, Y: 100, W: 0, H: 0},
		{X: -1, Y: 9, W: 2, H: 2},
	}
	for i, a := range boxes {
		for j, b := range boxes {
			if Intersects(a, b) != Intersects(b, a) {
				t.Errorf("Intersects not symmetric for boxes %d and %d", i, j)
			}
		}
		if !Intersects(a, a) {
			t.Errorf("box %d does not intersect itself", i)
		}
	}
}

func TestUnion(t *testing.T) {
	tests := []struct {
		name  string
		boxes []Box
		want  Box
	}{
		{"empty", nil, Box{}},
		{"single", []Box{{X: 1, Y: 2, W: 3, H: 4}}, Box{X: 1, Y: 2, W: 3, H: 4}},
		{
			name:  "two disjoint",
			boxes: []Box{{X: -10, Y: -5, W: 5, H: 5}, {X: 10, Y: 10, W: 10, H: 2}},
			want:  Box{X: -10, Y: -5, W: 30, H: 17},
		},
		{
			name:  "nested",
			boxes: []Box{{X: 0, Y: 0, W: 100, H: 100}, {X: 10, Y: 10, W: 5, H: 5}},
			want:  Box{X: 0, Y: 0, W: 100, H: 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Union(tt.boxes...); got != tt.want {
				t.Errorf("Union() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		box     Box
		wantErr bool
	}{
		{"valid", Box{W: 50, H: 5}, false},
		{"degenerate", Box{}, false},
		{"negative width", Box{W: -1, H: 5}, true},
		{"negative height", Box{W: 1, H: -5}, true},
		{"NaN origin", Box{X: math.NaN(), W: 1, H: 1}, true},
		{"infinite width", Box{W: math.Inf(1), H: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidBox) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBox)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	got := Box{X: 0, Y: 0, W: 10, H: 10}.Expand(2)
	want := Box{X: -2, Y: -2, W: 14, H: 14}
	if got != want {
		t.Errorf("Expand(2) = %+v, want %+v", got, want)
	}
}
