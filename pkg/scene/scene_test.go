package scene

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/geom"
	"github.com/matzehuels/topiccloud/pkg/layout"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

func buildSample(t *testing.T) Scene {
	t.Helper()
	ts := []topic.Topic{
		{ID: "b", Label: "Berlin", Volume: 165, SentimentScore: 65, Sentiment: topic.Sentiment{Positive: 29, Neutral: 133, Negative: 3}},
		{ID: "d", Label: "DJ", Volume: 48, SentimentScore: 30},
	}
	c := topic.DefaultClassifier()
	ps, err := layout.New().PlaceAll([]geom.Box{{W: 50, H: 5}, {W: 50, H: 5}})
	if err != nil {
		t.Fatal(err)
	}
	s, err := Build(ts, c.ClassifyAll(ts), ps)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func TestBuild(t *testing.T) {
	s := buildSample(t)

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", s.ID, err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	w := s.Words[0]
	if w.Class != "positive" || w.FontSize != 60 {
		t.Errorf("word 0 class/size = %s/%v, want positive/60", w.Class, w.FontSize)
	}
	if w.X != w.Box.X || w.Y != w.Box.Y+w.Box.H/2 {
		t.Errorf("word 0 anchor = (%v, %v), box %+v", w.X, w.Y, w.Box)
	}
	if s.Words[1].Class != "negative" || s.Words[1].Index != 1 {
		t.Errorf("word 1 = %+v", s.Words[1])
	}
	if got := s.Words[0].Topic(); got.Sentiment.Neutral != 133 || got.ID != "b" {
		t.Errorf("Topic() = %+v", got)
	}
}

func TestPlacements(t *testing.T) {
	s := buildSample(t)
	ps := s.Placements()
	if len(ps) != s.Len() {
		t.Fatalf("len = %d, want %d", len(ps), s.Len())
	}
	if ps[1].Steps == 0 || ps[1].Steps != s.Words[1].Steps {
		t.Errorf("second placement steps = %d, word steps = %d", ps[1].Steps, s.Words[1].Steps)
	}
	if layout.Fit(ps) != s.Viewport {
		t.Errorf("Fit(Placements()) = %+v, want viewport %+v", layout.Fit(ps), s.Viewport)
	}
}

func TestBuildMismatch(t *testing.T) {
	_, err := Build([]topic.Topic{{Label: "a"}}, nil, nil)
	if err == nil {
		t.Error("Build() with mismatched lengths should fail")
	}
}

func TestWord(t *testing.T) {
	s := buildSample(t)
	if _, err := s.Word(1); err != nil {
		t.Errorf("Word(1) error = %v", err)
	}
	if _, err := s.Word(2); !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("Word(2) error = %v, want INVALID_INDEX", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	s := buildSample(t)
	s.Step = 0.05
	s.Metrics = "estimate"

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := WriteFile(s, path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got.ID != s.ID || got.Viewport != s.Viewport || len(got.Words) != 2 || got.Metrics != "estimate" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Words[1] != s.Words[1] {
		t.Errorf("word 1 = %+v, want %+v", got.Words[1], s.Words[1])
	}
}

func TestUnmarshalSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", "{"},
		{"no words", `{"id":"x","words":[]}`},
		{"negative box", `{"words":[{"index":0,"label":"a","box":{"x":0,"y":0,"width":-1,"height":1}}]}`},
		{"bad index", `{"words":[{"index":3,"label":"a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadScene(strings.NewReader(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) && !errors.Is(err, errors.ErrCodeInvalidBox) {
				t.Errorf("ReadScene() error = %v, want format error", err)
			}
		})
	}
}
