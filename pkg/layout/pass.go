package layout

import (
	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

// State is the lifecycle stage of a Pass.
type State int

const (
	Unmeasured State = iota
	Measured
	Placed
)

func (s State) String() string {
	switch s {
	case Unmeasured:
		return "unmeasured"
	case Measured:
		return "measured"
	case Placed:
		return "placed"
	}
	return "unknown"
}

// Pass is one layout of a fixed word sequence moving through
// Unmeasured → Measured → Placed. A Pass is not safe for concurrent use.
type Pass struct {
	state      State
	boxes      []geom.Box
	placements []Placement
}

// NewPass starts an Unmeasured pass of n elements, each holding fallback.
func NewPass(n int, fallback geom.Box) *Pass {
	boxes := make([]geom.Box, n)
	for i := range boxes {
		boxes[i] = geom.Box{W: fallback.W, H: fallback.H}
	}
	return &Pass{state: Unmeasured, boxes: boxes}
}

// State returns the current stage.
func (p *Pass) State() State { return p.state }

// Len returns the number of elements.
func (p *Pass) Len() int { return len(p.boxes) }

// Boxes returns a copy of the current intrinsic boxes.
func (p *Pass) Boxes() []geom.Box {
	return append([]geom.Box(nil), p.boxes...)
}

// Provisional places the fallback boxes without advancing the state. It is
// only valid while Unmeasured and gives the stage-one layout.
func (p *Pass) Provisional(e *Engine) ([]Placement, error) {
	if p.state != Unmeasured {
		return nil, p.transitionError("provisional placement")
	}
	return e.PlaceAll(p.boxes)
}

// Measure installs the measured boxes and moves to Measured.
func (p *Pass) Measure(boxes []geom.Box) error {
	if p.state != Unmeasured {
		return p.transitionError("measure")
	}
	if len(boxes) != len(p.boxes) {
		return errors.New(errors.ErrCodeInvalidInput,
			"measured %d boxes for %d elements", len(boxes), len(p.boxes))
	}
	for i, b := range boxes {
		if err := errors.ValidateDimensions(b.W, b.H); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidBox, err, "box %d", i)
		}
	}
	for i, b := range boxes {
		p.boxes[i] = geom.Box{W: b.W, H: b.H}
	}
	p.state = Measured
	return nil
}

// Place runs the final placement on the measured boxes and moves to Placed.
func (p *Pass) Place(e *Engine) ([]Placement, error) {
	if p.state != Measured {
		return nil, p.transitionError("place")
	}
	ps, err := e.PlaceAll(p.boxes)
	if err != nil {
		return nil, err
	}
	p.placements = ps
	p.state = Placed
	return ps, nil
}

// Placements returns the final placements, or nil before Placed.
func (p *Pass) Placements() []Placement {
	if p.state != Placed {
		return nil
	}
	return p.placements
}

func (p *Pass) transitionError(op string) error {
	return errors.New(errors.ErrCodeInvalidInput, "cannot %s a %s pass", op, p.state)
}
