// Package geom provides axis-aligned rectangle primitives for word layout.
//
// Coordinates follow the SVG convention: X grows to the right and Y grows
// downward, so a box's Top is its Y and its Bottom is Y+H.
package geom

import (
	"math"

	"github.com/matzehuels/topiccloud/pkg/errors"
)

// Box is an axis-aligned rectangle. For an intrinsic text measurement only
// W and H are meaningful; for a placed element X and Y hold the top-left corner.
type Box struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"width" bson:"width"`
	H float64 `json:"height" bson:"height"`
}

// Left returns the left edge.
func (b Box) Left() float64 { return b.X }

// Right returns the right edge (X+W).
func (b Box) Right() float64 { return b.X + b.W }

// Top returns the top edge.
func (b Box) Top() float64 { return b.Y }

// Bottom returns the bottom edge (Y+H).
func (b Box) Bottom() float64 { return b.Y + b.H }

// Center returns the midpoint of the box.
func (b Box) Center() (cx, cy float64) { return b.X + b.W/2, b.Y + b.H/2 }

// CenteredAt returns a box of the same size whose center is (cx, cy).
func (b Box) CenteredAt(cx, cy float64) Box {
	return Box{X: cx - b.W/2, Y: cy - b.H/2, W: b.W, H: b.H}
}

// IsZero reports whether the box has no area and sits at the origin.
func (b Box) IsZero() bool { return b == Box{} }

// Validate rejects boxes with negative or non-finite dimensions.
// Such boxes are a caller contract violation.
func (b Box) Validate() error {
	if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) {
		return errors.New(errors.ErrCodeInvalidBox, "origin must be finite, got (%v, %v)", b.X, b.Y)
	}
	return errors.ValidateDimensions(b.W, b.H)
}

// Intersects reports whether a and b overlap. Touching edges count as
// intersecting, so two placed boxes that satisfy !Intersects are strictly
// separated. The test is symmetric and every box intersects itself.
func Intersects(a, b Box) bool {
	return !(b.Left() > a.Right() ||
		b.Right() < a.Left() ||
		b.Top() > a.Bottom() ||
		b.Bottom() < a.Top())
}

// Union returns the smallest box enclosing every box in bs.
// The union of no boxes is the zero box.
func Union(bs ...Box) Box {
	if len(bs) == 0 {
		return Box{}
	}
	minX, minY := bs[0].Left(), bs[0].Top()
	maxX, maxY := bs[0].Right(), bs[0].Bottom()
	for _, b := range bs[1:] {
		minX = min(minX, b.Left())
		minY = min(minY, b.Top())
		maxX = max(maxX, b.Right())
		maxY = max(maxY, b.Bottom())
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Expand grows the box by m on every side.
func (b Box) Expand(m float64) Box {
	return Box{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}

// At returns a box of the same size with its top-left corner at (x, y).
func (b Box) At(x, y float64) Box {
	return Box{X: x, Y: y, W: b.W, H: b.H}
}
