// Package topic defines the topic record rendered as a word and the
// classifier that maps its volume and sentiment score onto a display size
// and a sentiment category.
//
// Topics are immutable input. Their order is significant: it is the
// placement order of the layout engine and the index reported on selection.
package topic

import (
	"github.com/matzehuels/topiccloud/pkg/errors"
)

// Sentiment is the per-category mention breakdown of a topic.
type Sentiment struct {
	Positive int `json:"positive" bson:"positive"`
	Neutral  int `json:"neutral" bson:"neutral"`
	Negative int `json:"negative" bson:"negative"`
	Mixed    int `json:"mixed,omitempty" bson:"mixed,omitempty"`
}

// Topic is one labeled, weighted, sentiment-scored term.
type Topic struct {
	ID             string    `json:"id,omitempty" bson:"id,omitempty"`
	Label          string    `json:"label" bson:"label"`
	Volume         float64   `json:"volume" bson:"volume"`
	Type           string    `json:"type,omitempty" bson:"type,omitempty"`
	SentimentScore float64   `json:"sentimentScore" bson:"sentimentScore"`
	Sentiment      Sentiment `json:"sentiment" bson:"sentiment"`
}

// Validate checks that the topic can be rendered.
func (t Topic) Validate() error {
	return errors.ValidateLabel(t.Label)
}

// ValidateAll validates every topic and reports the index of the first bad one.
func ValidateAll(ts []Topic) error {
	for i, t := range ts {
		if err := t.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "topic %d", i)
		}
	}
	return nil
}

// Labels returns the labels of ts in order.
func Labels(ts []Topic) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Label
	}
	return out
}
