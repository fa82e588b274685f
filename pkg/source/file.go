package source

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/topiccloud/pkg/topic"
)

// File reads topics from a JSON document on disk.
// The document is re-read on every Load, so edits are picked up by reloads.
type File struct {
	path  string
	limit int
}

// NewFile returns a source for the JSON document at path.
// A positive limit keeps only the first limit topics.
func NewFile(path string, limit int) *File {
	return &File{path: path, limit: limit}
}

// Load implements Source.
func (f *File) Load(ctx context.Context) ([]topic.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ts, err := topic.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	return truncate(ts, f.limit), nil
}

// Name implements Source.
func (f *File) Name() string { return KindFile + ":" + f.path }

// Close implements Source.
func (f *File) Close() error { return nil }

// Reader loads topics once from an io.Reader, such as stdin.
// Later calls to Load return the same topics.
type Reader struct {
	name   string
	r      io.Reader
	topics []topic.Topic
	read   bool
}

// NewReader returns a source reading from r. Name is used in logs.
func NewReader(name string, r io.Reader) *Reader {
	return &Reader{name: name, r: r}
}

// Load implements Source.
func (s *Reader) Load(ctx context.Context) ([]topic.Topic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.read {
		ts, err := topic.Read(s.r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.name, err)
		}
		s.topics, s.read = ts, true
	}
	return s.topics, nil
}

// Name implements Source.
func (s *Reader) Name() string { return s.name }

// Close implements Source.
func (s *Reader) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Static serves a fixed topic list. Useful in tests and for embedding.
type Static []topic.Topic

// Load implements Source.
func (s Static) Load(ctx context.Context) ([]topic.Topic, error) {
	if err := topic.ValidateAll(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Name implements Source.
func (Static) Name() string { return "static" }

// Close implements Source.
func (Static) Close() error { return nil }

var (
	_ Source = (*File)(nil)
	_ Source = (*Reader)(nil)
	_ Source = Static(nil)
)
