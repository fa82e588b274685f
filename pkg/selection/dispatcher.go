// Package selection dispatches clicks on rendered words and keeps the
// details panel for the selected topic.
//
// A click is reported by index into the original topic sequence, never by
// label. [Dispatcher] validates the index and calls its callback exactly
// once; consumers such as [Panel], [Publisher] and the server's WebSocket
// hub are combined with [Fanout]:
//
//	panel := selection.NewPanel(topics)
//	d := selection.NewDispatcher(topic.Labels(topics), selection.Fanout(panel.Select, onSelect))
//	if err := d.Click(ctx, 3); err != nil {
//	    // INVALID_INDEX
//	}
package selection

import (
	"context"
	"time"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/observability"
)

// Event describes one selection.
type Event struct {
	Index int       `json:"index"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
}

// Dispatcher forwards clicks on the words of one scene to OnSelect.
// It is immutable and safe for concurrent use; OnSelect must be too.
type Dispatcher struct {
	// OnSelect receives the 0-based index of the clicked word. Nil disables dispatch.
	OnSelect func(index int)

	labels []string
}

// NewDispatcher returns a dispatcher for words with the given labels.
func NewDispatcher(labels []string, onSelect func(int)) *Dispatcher {
	return &Dispatcher{OnSelect: onSelect, labels: append([]string(nil), labels...)}
}

// Len returns the number of words that can be clicked.
func (d *Dispatcher) Len() int { return len(d.labels) }

// Click reports a click on the word at index. An index outside the scene
// fails with INVALID_INDEX and the callback is not called.
func (d *Dispatcher) Click(ctx context.Context, index int) error {
	if err := errors.ValidateIndex(index, len(d.labels)); err != nil {
		return err
	}
	observability.Selection().OnSelect(ctx, index, d.labels[index])
	if d.OnSelect != nil {
		d.OnSelect(index)
	}
	return nil
}

// Event returns the event for a click on index.
func (d *Dispatcher) Event(index int) (Event, error) {
	if err := errors.ValidateIndex(index, len(d.labels)); err != nil {
		return Event{}, err
	}
	return Event{Index: index, Label: d.labels[index], At: time.Now().UTC()}, nil
}

// Fanout returns a callback invoking every non-nil fn in order.
func Fanout(fns ...func(int)) func(int) {
	var live []func(int)
	for _, fn := range fns {
		if fn != nil {
			live = append(live, fn)
		}
	}
	return func(i int) {
		for _, fn := range live {
			fn(i)
		}
	}
}
