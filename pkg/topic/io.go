package topic

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/topiccloud/pkg/errors"
)

// document is the on-disk envelope: {"topics": [...]}.
type document struct {
	Topics []Topic `json:"topics"`
}

// Read decodes topics from r. Both the {"topics": [...]} envelope and a
// bare JSON array are accepted.
func Read(r io.Reader) ([]Topic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes topics from data. See Read.
func Parse(data []byte) ([]Topic, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty topic document")
	}

	var ts []Topic
	if data[0] == '[' {
		if err := json.Unmarshal(data, &ts); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode topic array")
		}
	} else {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode topic document")
		}
		ts = doc.Topics
	}
	if err := ValidateAll(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// ReadFile decodes topics from the file at path.
func ReadFile(path string) ([]Topic, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Write encodes topics to w in the envelope form.
func Write(w io.Writer, ts []Topic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(document{Topics: ts})
}
