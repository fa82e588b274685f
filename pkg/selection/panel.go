package selection

import (
	"fmt"
	"strings"
	"sync"

	"github.com/matzehuels/topiccloud/pkg/topic"
)

// NoSelection is shown when no topic is selected.
const NoSelection = "No topic selected."

// Details is the content of the details panel.
type Details struct {
	Selected bool           `json:"selected"`
	Index    int            `json:"index"`
	Topic    topic.Topic    `json:"topic"`
	Category topic.Category `json:"-"`
	Class    string         `json:"class,omitempty"`
}

// Lines returns the panel as text lines.
func (d Details) Lines() []string {
	if !d.Selected {
		return []string{NoSelection}
	}
	return []string{
		"Information on topic: " + d.Topic.Label,
		fmt.Sprintf("Total Mentions: %g", d.Topic.Volume),
		fmt.Sprintf("Positive Mentions: %d", d.Topic.Sentiment.Positive),
		fmt.Sprintf("Neutral Mentions: %d", d.Topic.Sentiment.Neutral),
		fmt.Sprintf("Negative Mentions: %d", d.Topic.Sentiment.Negative),
	}
}

// String implements fmt.Stringer.
func (d Details) String() string { return strings.Join(d.Lines(), "\n") }

// Panel holds the selected topic. It is safe for concurrent use; Select
// is meant to be passed as a Dispatcher callback.
type Panel struct {
	mu         sync.RWMutex
	topics     []topic.Topic
	classifier topic.Classifier
	selected   int
}

// NewPanel returns a panel over ts with nothing selected.
func NewPanel(ts []topic.Topic) *Panel {
	return &Panel{topics: ts, classifier: topic.DefaultClassifier(), selected: -1}
}

// SetClassifier sets the classifier used for the sentiment class shown
// next to the counts.
func (p *Panel) SetClassifier(c topic.Classifier) {
	p.mu.Lock()
	p.classifier = c
	p.mu.Unlock()
}

// SetTopics replaces the topics and clears the selection.
func (p *Panel) SetTopics(ts []topic.Topic) {
	p.mu.Lock()
	p.topics = ts
	p.selected = -1
	p.mu.Unlock()
}

// Select marks the topic at index i as selected. Out of range indices
// clear the selection.
func (p *Panel) Select(i int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.topics) {
		p.selected = -1
		return
	}
	p.selected = i
}

// Clear drops the selection.
func (p *Panel) Clear() { p.Select(-1) }

// Selected returns the selected index, or -1.
func (p *Panel) Selected() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// Details returns the current panel content.
func (p *Panel) Details() Details {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selected < 0 {
		return Details{Index: -1}
	}
	t := p.topics[p.selected]
	cat := p.classifier.Category(t)
	return Details{
		Selected: true,
		Index:    p.selected,
		Topic:    t,
		Category: cat,
		Class:    cat.ClassName(),
	}
}
