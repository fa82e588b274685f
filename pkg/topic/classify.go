package topic

import (
	"github.com/matzehuels/topiccloud/pkg/errors"
)

// Category is the discrete sentiment category of a topic.
type Category int

const (
	Neutral Category = iota
	Positive
	Negative
)

// ClassName returns the style class used by the rendering surface.
func (c Category) ClassName() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// String implements fmt.Stringer.
func (c Category) String() string { return c.ClassName() }

// ParseCategory is the inverse of ClassName.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "positive":
		return Positive, nil
	case "neutral":
		return Neutral, nil
	case "negative":
		return Negative, nil
	}
	return Neutral, errors.New(errors.ErrCodeInvalidInput, "unknown category %q", s)
}

// Classifier defaults.
const (
	DefaultPositiveSentimentBound = 60.0
	DefaultNegativeSentimentBound = 40.0
)

// DefaultTextSizeCategories are the ascending, exclusive volume upper bounds.
func DefaultTextSizeCategories() []float64 { return []float64{5, 20, 40, 100, 150, 200} }

// DefaultTextSizes are the font sizes parallel to DefaultTextSizeCategories.
func DefaultTextSizes() []float64 { return []float64{10, 20, 30, 40, 50, 60} }

// SizeBucket returns sizes[k] for the smallest k with t.Volume < thresholds[k].
// A volume at or above every threshold is clamped to the last size.
// It returns 0 only when sizes is empty.
func SizeBucket(t Topic, thresholds, sizes []float64) float64 {
	if len(sizes) == 0 {
		return 0
	}
	n := min(len(thresholds), len(sizes))
	for k := 0; k < n; k++ {
		if t.Volume < thresholds[k] {
			return sizes[k]
		}
	}
	return sizes[len(sizes)-1]
}

// SentimentCategory classifies t.SentimentScore against the two bounds.
// Bounds are not checked for order.
func SentimentCategory(t Topic, positiveBound, negativeBound float64) Category {
	switch {
	case t.SentimentScore > positiveBound:
		return Positive
	case t.SentimentScore < negativeBound:
		return Negative
	default:
		return Neutral
	}
}

// Classifier bundles the size and sentiment configuration.
type Classifier struct {
	TextSizeCategories     []float64 `toml:"text_size_categories" json:"text_size_categories"`
	TextSizes              []float64 `toml:"text_sizes" json:"text_sizes"`
	PositiveSentimentBound float64   `toml:"positive_sentiment_bound" json:"positive_sentiment_bound"`
	NegativeSentimentBound float64   `toml:"negative_sentiment_bound" json:"negative_sentiment_bound"`
}

// DefaultClassifier returns the classifier with the default buckets and bounds.
func DefaultClassifier() Classifier {
	return Classifier{
		TextSizeCategories:     DefaultTextSizeCategories(),
		TextSizes:              DefaultTextSizes(),
		PositiveSentimentBound: DefaultPositiveSentimentBound,
		NegativeSentimentBound: DefaultNegativeSentimentBound,
	}
}

// SetDefaults fills unset fields. Both bounds zero is treated as unset.
func (c *Classifier) SetDefaults() {
	if len(c.TextSizeCategories) == 0 && len(c.TextSizes) == 0 {
		c.TextSizeCategories = DefaultTextSizeCategories()
		c.TextSizes = DefaultTextSizes()
	}
	if c.PositiveSentimentBound == 0 && c.NegativeSentimentBound == 0 {
		c.PositiveSentimentBound = DefaultPositiveSentimentBound
		c.NegativeSentimentBound = DefaultNegativeSentimentBound
	}
}

// Validate checks the bucket configuration.
func (c Classifier) Validate() error {
	if len(c.TextSizeCategories) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "text_size_categories cannot be empty")
	}
	if len(c.TextSizeCategories) != len(c.TextSizes) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"text_size_categories and text_sizes must have equal length (%d != %d)",
			len(c.TextSizeCategories), len(c.TextSizes))
	}
	for i := 1; i < len(c.TextSizeCategories); i++ {
		if c.TextSizeCategories[i] <= c.TextSizeCategories[i-1] {
			return errors.New(errors.ErrCodeInvalidConfig,
				"text_size_categories must be strictly ascending (index %d)", i)
		}
	}
	for i, s := range c.TextSizes {
		if s <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "text_sizes[%d] must be positive, got %v", i, s)
		}
	}
	return nil
}

// Size returns the font size for t.
func (c Classifier) Size(t Topic) float64 {
	return SizeBucket(t, c.TextSizeCategories, c.TextSizes)
}

// Category returns the sentiment category for t.
func (c Classifier) Category(t Topic) Category {
	return SentimentCategory(t, c.PositiveSentimentBound, c.NegativeSentimentBound)
}

// Class is the classification of one topic.
type Class struct {
	Size     float64
	Category Category
}

// ClassifyAll classifies ts in order.
func (c Classifier) ClassifyAll(ts []Topic) []Class {
	out := make([]Class, len(ts))
	for i, t := range ts {
		out[i] = Class{Size: c.Size(t), Category: c.Category(t)}
	}
	return out
}
