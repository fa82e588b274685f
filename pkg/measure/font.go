package measure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/fonts"
	"github.com/matzehuels/topiccloud/pkg/geom"
)

// Font measures labels with real glyph metrics at 72 DPI, so one font
// unit equals one SVG user unit.
//
// Faces are created lazily per font size and reused. Font is safe for
// concurrent use.
type Font struct {
	fnt *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFont returns a Font measurer backed by the embedded Go Regular font.
func NewFont() (*Font, error) {
	f, err := fonts.Regular()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse embedded font")
	}
	return &Font{fnt: f, faces: make(map[float64]font.Face)}, nil
}

// Measure implements Measurer.
func (f *Font) Measure(label string, size float64) (geom.Box, error) {
	if size <= 0 {
		return geom.Box{}, errors.New(errors.ErrCodeInvalidBox, "font size must be positive, got %v", size)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(size)
	if err != nil {
		return geom.Box{}, err
	}
	adv := font.MeasureString(face, label)
	m := face.Metrics()
	return geom.Box{
		W: float64(adv) / 64,
		H: float64(m.Ascent+m.Descent) / 64,
	}, nil
}

// face must be called with mu held.
func (f *Font) face(size float64) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create face at size %v", size)
	}
	f.faces[size] = face
	return face, nil
}

// Close releases all cached faces.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for size, face := range f.faces {
		face.Close()
		delete(f.faces, size)
	}
	return nil
}
