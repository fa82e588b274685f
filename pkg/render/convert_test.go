package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/topiccloud/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNG(t *testing.T) {
	png, err := ToPNG(context.Background(), []byte(tinySVG), 1)
	if !Available() {
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPNG() without rsvg-convert error = %v, want UNSUPPORTED", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output is not a PNG")
	}
}

func TestToPDF(t *testing.T) {
	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if !Available() {
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("ToPDF() without rsvg-convert error = %v, want UNSUPPORTED", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output is not a PDF")
	}
}
