package fonts

import (
	"encoding/base64"
	"testing"
)

func TestRegular(t *testing.T) {
	f, err := Regular()
	if err != nil {
		t.Fatalf("Regular() error = %v", err)
	}
	if f.NumGlyphs() == 0 {
		t.Error("Regular() has no glyphs")
	}
	again, _ := Regular()
	if again != f {
		t.Error("Regular() should return the cached font")
	}
}

func TestRegularTTFBase64(t *testing.T) {
	raw, err := base64.StdEncoding.DecodeString(RegularTTFBase64())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != len(RegularTTF()) {
		t.Errorf("decoded length = %d, want %d", len(raw), len(RegularTTF()))
	}
}
