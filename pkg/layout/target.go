package layout

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

// Ticket identifies one pass started on a Target.
type Ticket struct {
	ID         uuid.UUID
	Generation uint64
}

// Target holds the committed layout of one render target together with an
// arbitrary payload (typically the rendered scene). Target is safe for
// concurrent use.
type Target[T any] struct {
	mu         sync.Mutex
	generation uint64
	valid      bool
	value      T
	placements []Placement
	viewport   geom.Box
}

// Begin starts a pass. Any pass begun earlier and not yet committed is
// superseded.
func (t *Target[T]) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	return Ticket{ID: uuid.New(), Generation: t.generation}
}

// Commit stores the result of the pass identified by tk and computes its
// viewport. It fails with SUPERSEDED when a newer pass began or the target
// was invalidated after tk was issued; the stored result is left untouched.
func (t *Target[T]) Commit(tk Ticket, placements []Placement, value T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tk.Generation != t.generation {
		return errors.New(errors.ErrCodeSuperseded,
			"pass %s (generation %d) superseded by generation %d", tk.ID, tk.Generation, t.generation)
	}
	t.placements = placements
	t.viewport = Fit(placements)
	t.value = value
	t.valid = true
	return nil
}

// Invalidate marks the committed result stale and supersedes in-flight passes.
// It must be called whenever the input topic set changes.
func (t *Target[T]) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.valid = false
	t.viewport = geom.Box{}
	t.placements = nil
	var zero T
	t.value = zero
}

// Viewport returns the committed viewport. ok is false while stale.
func (t *Target[T]) Viewport() (v geom.Box, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewport, t.valid
}

// Current returns the committed payload and placements. ok is false while stale.
func (t *Target[T]) Current() (value T, placements []Placement, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.placements, t.valid
}

// Generation returns the number of the most recent pass.
func (t *Target[T]) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.generation
}
