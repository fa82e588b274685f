package layout

import (
	"math"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

// DefaultStep is the spiral parameter increment between candidates. Smaller
// steps pack more densely at a higher computation cost.
const DefaultStep = 0.05

// Position is the rendering anchor of a placed box: X is the left edge and
// Y is the vertical center.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is the resolved position of one element.
type Placement struct {
	Box      geom.Box `json:"box"`
	Position Position `json:"position"`
	Steps    int      `json:"steps"` // spiral candidates rejected before acceptance
}

// Engine places boxes on a spiral. An Engine holds configuration only and is
// safe to share; every PlaceAll call owns its own working set.
type Engine struct {
	step     float64
	maxSteps int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStep sets the spiral step. Non-positive or non-finite values are ignored.
func WithStep(step float64) Option {
	return func(e *Engine) {
		if step > 0 && !math.IsInf(step, 0) && !math.IsNaN(step) {
			e.step = step
		}
	}
}

// WithMaxSteps bounds the number of candidates tried per element.
// Zero means unbounded.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxSteps = n
		}
	}
}

// New returns an Engine with the given options applied.
func New(opts ...Option) *Engine {
	e := &Engine{step: DefaultStep}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step returns the configured spiral step.
func (e *Engine) Step() float64 { return e.step }

// MaxSteps returns the per-element candidate budget (0 = unbounded).
func (e *Engine) MaxSteps() int { return e.maxSteps }

// Spiral returns the point of the Archimedean spiral at parameter t.
func Spiral(t float64) (x, y float64) {
	return t * math.Cos(t), t * math.Sin(t)
}

// PlaceAll places every box in input order and returns one placement per box.
//
// Only W and H of the input boxes are read; the slice is not modified.
// An invalid box fails the call with INVALID_BOX before any placement.
// When a budget is set and an element exhausts it, the call fails with
// LAYOUT_BUDGET.
func (e *Engine) PlaceAll(boxes []geom.Box) ([]Placement, error) {
	for i, b := range boxes {
		if err := errors.ValidateDimensions(b.W, b.H); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBox, err, "box %d", i)
		}
	}

	placed := make([]geom.Box, 0, len(boxes))
	out := make([]Placement, len(boxes))
	for i, b := range boxes {
		p, err := e.place(b, placed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutBudget, err, "element %d", i)
		}
		placed = append(placed, p.Box)
		out[i] = p
	}
	return out, nil
}

func (e *Engine) place(b geom.Box, placed []geom.Box) (Placement, error) {
	for k := 0; ; k++ {
		if e.maxSteps > 0 && k >= e.maxSteps {
			return Placement{}, errors.New(errors.ErrCodeLayoutBudget,
				"no free position within %d spiral steps", e.maxSteps)
		}
		cx, cy := Spiral(float64(k) * e.step)
		cand := geom.Box{W: b.W, H: b.H}.CenteredAt(cx, cy)
		if !collides(cand, placed) {
			return Placement{
				Box:      cand,
				Position: Position{X: cand.X, Y: cand.Y + cand.H/2},
				Steps:    k,
			}, nil
		}
	}
}

func collides(b geom.Box, placed []geom.Box) bool {
	for _, p := range placed {
		if geom.Intersects(p, b) {
			return true
		}
	}
	return false
}

// Boxes returns the resolved boxes of ps.
func Boxes(ps []Placement) []geom.Box {
	out := make([]geom.Box, len(ps))
	for i, p := range ps {
		out[i] = p.Box
	}
	return out
}

// Fit returns the union of the placed boxes: the tightest viewport
// enclosing every element. Anchor positions do not contribute.
func Fit(ps []Placement) geom.Box {
	return geom.Union(Boxes(ps)...)
}
