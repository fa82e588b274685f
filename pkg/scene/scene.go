// Package scene defines the serialization format of a computed word cloud.
//
// A Scene is what the layout stage produces and every sink consumes: the
// words with their class, font size, anchor and placed box, plus the
// viewport enclosing them. Scenes are JSON documents so they can be cached,
// written with `topiccloud layout` and rendered later with
// `topiccloud render`.
package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// =============================================================================
// Scene - Word Cloud Serialization Format
// =============================================================================

// Scene is a fully placed word cloud.
type Scene struct {
	ID       string   `json:"id" bson:"id"`
	Words    []Word   `json:"words" bson:"words"`
	Viewport geom.Box `json:"viewport" bson:"viewport"`

	// Echo of the configuration that produced the scene
	Step        float64          `json:"step" bson:"step"`
	Metrics     string           `json:"metrics,omitempty" bson:"metrics,omitempty"`
	Provisional bool             `json:"provisional,omitempty" bson:"provisional,omitempty"`
	Classifier  topic.Classifier `json:"classifier" bson:"classifier"`
}

// Word is one placed topic.
type Word struct {
	Index    int      `json:"index" bson:"index"`
	Label    string   `json:"label" bson:"label"`
	Class    string   `json:"class" bson:"class"` // positive, neutral or negative
	FontSize float64  `json:"font_size" bson:"font_size"`
	X        float64  `json:"x" bson:"x"` // anchor: left edge
	Y        float64  `json:"y" bson:"y"` // anchor: vertical center
	Box      geom.Box `json:"box" bson:"box"`
	Steps    int      `json:"steps,omitempty" bson:"steps,omitempty"`

	// Topic fields echoed for the details panel
	TopicID        string          `json:"topic_id,omitempty" bson:"topic_id,omitempty"`
	Volume         float64         `json:"volume" bson:"volume"`
	SentimentScore float64         `json:"sentiment_score" bson:"sentiment_score"`
	Sentiment      topic.Sentiment `json:"sentiment" bson:"sentiment"`
}

// Topic reconstructs the topic a word was built from.
func (w Word) Topic() topic.Topic {
	return topic.Topic{
		ID:             w.TopicID,
		Label:          w.Label,
		Volume:         w.Volume,
		SentimentScore: w.SentimentScore,
		Sentiment:      w.Sentiment,
	}
}

// Topics returns the topics of every word in order.
func (s Scene) Topics() []topic.Topic {
	out := make([]topic.Topic, len(s.Words))
	for i, w := range s.Words {
		out[i] = w.Topic()
	}
	return out
}

// Placements returns the placement of every word in order.
func (s Scene) Placements() []layout.Placement {
	out := make([]layout.Placement, len(s.Words))
	for i, w := range s.Words {
		out[i] = layout.Placement{
			Box:      w.Box,
			Position: layout.Position{X: w.X, Y: w.Y},
			Steps:    w.Steps,
		}
	}
	return out
}

// Len returns the number of words.
func (s Scene) Len() int { return len(s.Words) }

// Word returns the word at index i.
func (s Scene) Word(i int) (Word, error) {
	if err := errors.ValidateIndex(i, len(s.Words)); err != nil {
		return Word{}, err
	}
	return s.Words[i], nil
}

// Build assembles a scene from topics, their classes and placements, which
// must all have the same length and order. The viewport is fitted from the
// placements.
func Build(ts []topic.Topic, classes []topic.Class, ps []layout.Placement) (Scene, error) {
	if len(ts) != len(classes) || len(ts) != len(ps) {
		return Scene{}, errors.New(errors.ErrCodeInternal,
			"scene input length mismatch: %d topics, %d classes, %d placements", len(ts), len(classes), len(ps))
	}
	words := make([]Word, len(ts))
	for i, t := range ts {
		words[i] = Word{
			Index:          i,
			Label:          t.Label,
			Class:          classes[i].Category.ClassName(),
			FontSize:       classes[i].Size,
			X:              ps[i].Position.X,
			Y:              ps[i].Position.Y,
			Box:            ps[i].Box,
			Steps:          ps[i].Steps,
			TopicID:        t.ID,
			Volume:         t.Volume,
			SentimentScore: t.SentimentScore,
			Sentiment:      t.Sentiment,
		}
	}
	return Scene{
		ID:       uuid.NewString(),
		Words:    words,
		Viewport: layout.Fit(ps),
	}, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalScene serializes a Scene to pretty-printed JSON bytes.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalScene deserializes JSON bytes into a Scene.
// Validates that the scene has words and that every box is well formed.
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal scene")
	}
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Validate checks the structural invariants of a decoded scene.
func (s Scene) Validate() error {
	if len(s.Words) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "scene must contain words")
	}
	for i, w := range s.Words {
		if w.Index != i {
			return errors.New(errors.ErrCodeInvalidFormat, "word %d has index %d", i, w.Index)
		}
		if err := w.Box.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "word %d", i)
		}
	}
	return s.Viewport.Validate()
}

// ReadScene decodes a scene from r.
func ReadScene(r io.Reader) (Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Scene{}, err
	}
	return UnmarshalScene(data)
}

// WriteFile writes a Scene to a JSON file.
func WriteFile(s Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Scene from a JSON file.
func ReadFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalScene(data)
}
