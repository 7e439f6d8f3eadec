package intake

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

func encode(t *testing.T, w, h int, f imaging.Format) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{0, 90, 200, 255}), f); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeAccepted(t *testing.T) {
	in := New(0)
	for _, tc := range []struct {
		format imaging.Format
		mime   string
	}{{imaging.PNG, "image/png"}, {imaging.JPEG, "image/jpeg"}, {imaging.GIF, "image/gif"}} {
		img, mt, err := in.Decode(encode(t, 40, 30, tc.format))
		if err != nil {
			t.Fatalf("%s: %v", tc.mime, err)
		}
		if mt != tc.mime {
			t.Fatalf("expected %s got %s", tc.mime, mt)
		}
		if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
			t.Fatalf("%s: unexpected bounds %v", tc.mime, img.Bounds())
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	in := New(0)
	if _, _, err := in.Decode(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty got %v", err)
	}
	if _, _, err := in.Decode([]byte("SOME CONTENT")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType got %v", err)
	}
	small := New(64)
	if _, _, err := small.Decode(encode(t, 200, 200, imaging.PNG)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge got %v", err)
	}
	png := encode(t, 20, 20, imaging.PNG)
	if _, _, err := in.Decode(png[:len(png)/2]); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode for truncated png got %v", err)
	}
}

func TestReadLimit(t *testing.T) {
	in := New(16)
	if _, _, err := in.Read(strings.NewReader(strings.Repeat("x", 100))); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge got %v", err)
	}
}

func TestIsSupportedExt(t *testing.T) {
	for name, want := range map[string]bool{
		"bus.JPG":         true,
		"tram.webp":       true,
		"notes.txt":       false,
		"bus.ocr.png":     false,
		"trolleybus.jpeg": true,
	} {
		if got := IsSupportedExt(name); got != want {
			t.Fatalf("%s: got %v want %v", name, got, want)
		}
	}
}
