package ocr

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

func TestPreprocessDimensions(t *testing.T) {
	cases := [][2]int{{1600, 1200}, {800, 600}, {333, 1000}, {1000, 333}, {3, 7}, {4000, 1}, {1, 1}}
	for _, c := range cases {
		src := imaging.New(c[0], c[1], color.NRGBA{120, 60, 30, 255})
		out, err := Preprocess(src, DefaultPreprocessOptions())
		if err != nil {
			t.Fatalf("%dx%d: unexpected error %v", c[0], c[1], err)
		}
		wantH := int(math.Round(800 * float64(c[1]) / float64(c[0])))
		if wantH < 1 {
			wantH = 1
		}
		if out.Bounds().Dx() != 800 || out.Bounds().Dy() != wantH {
			t.Fatalf("%dx%d: got %dx%d want 800x%d", c[0], c[1], out.Bounds().Dx(), out.Bounds().Dy(), wantH)
		}
	}
}

func TestPreprocessTwiceSameDimensions(t *testing.T) {
	src := imaging.New(1234, 567, color.NRGBA{10, 200, 90, 255})
	a, err := Preprocess(src, DefaultPreprocessOptions())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Preprocess(src, DefaultPreprocessOptions())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if a.Bounds() != b.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", a.Bounds(), b.Bounds())
	}
	c, err := Preprocess(a, DefaultPreprocessOptions())
	if err != nil {
		t.Fatalf("re-run on canonical raster: %v", err)
	}
	if c.Bounds() != a.Bounds() {
		t.Fatalf("re-preprocessing changed bounds: %v vs %v", c.Bounds(), a.Bounds())
	}
}

func TestPreprocessRejectsEmpty(t *testing.T) {
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 10))
	if _, err := Preprocess(empty, DefaultPreprocessOptions()); !errors.Is(err, ErrPreprocess) {
		t.Fatalf("expected ErrPreprocess got %v", err)
	}
	if _, err := Preprocess(nil, DefaultPreprocessOptions()); !errors.Is(err, ErrPreprocess) {
		t.Fatalf("expected ErrPreprocess for nil got %v", err)
	}
	tall := image.NewNRGBA(image.Rect(0, 0, 1, 100))
	if _, err := Preprocess(tall, DefaultPreprocessOptions()); !errors.Is(err, ErrPreprocess) {
		t.Fatalf("expected ErrPreprocess for oversize surface got %v", err)
	}
}

func TestPreprocessDoesNotMutateInput(t *testing.T) {
	src := imaging.New(10, 10, color.NRGBA{200, 20, 20, 255})
	before := append([]uint8(nil), src.Pix...)
	if _, err := Preprocess(src, DefaultPreprocessOptions()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatalf("input pixel buffer modified at %d", i)
		}
	}
}

func TestColorFilterDefaults(t *testing.T) {
	f := colorFilter(DefaultPreprocessOptions())

	// Mid gray: contrast keeps 0.5, brightness 1.15 -> 0.575.
	got := f(color.NRGBA{128, 128, 128, 255})
	if got.R != got.G || got.G != got.B {
		t.Fatalf("expected gray output got %v", got)
	}
	if got.R < 145 || got.R > 149 {
		t.Fatalf("expected ~147 got %d", got.R)
	}
	// Dark pixels are pushed to black, light ones saturate.
	if got := f(color.NRGBA{30, 30, 30, 255}); got.R != 0 {
		t.Fatalf("expected black got %v", got)
	}
	if got := f(color.NRGBA{230, 230, 230, 255}); got.R != 255 {
		t.Fatalf("expected white got %v", got)
	}
	// Alpha is preserved.
	if got := f(color.NRGBA{128, 128, 128, 40}); got.A != 40 {
		t.Fatalf("alpha changed: %v", got)
	}
	// Pure red becomes its luma before contrast.
	red := f(color.NRGBA{255, 0, 0, 255})
	if red.R != red.G || red.G != red.B {
		t.Fatalf("expected fully desaturated red got %v", red)
	}
}

func TestColorFilterIdentity(t *testing.T) {
	f := colorFilter(PreprocessOptions{GrayscalePct: 0, ContrastPct: 100, BrightnessPct: 100})
	in := color.NRGBA{12, 150, 250, 255}
	if got := f(in); got != in {
		t.Fatalf("identity filter changed pixel: %v -> %v", in, got)
	}
}

func TestGrayscaleAbove100Clamps(t *testing.T) {
	a := colorFilter(PreprocessOptions{GrayscalePct: 100, ContrastPct: 200, BrightnessPct: 115})
	b := colorFilter(PreprocessOptions{GrayscalePct: 200, ContrastPct: 200, BrightnessPct: 115})
	for _, c := range []color.NRGBA{{255, 0, 0, 255}, {10, 200, 30, 255}, {90, 90, 200, 255}} {
		if a(c) != b(c) {
			t.Fatalf("grayscale 200%% differs from 100%% for %v: %v vs %v", c, a(c), b(c))
		}
	}
}

func TestResampleFilterByName(t *testing.T) {
	if ResampleFilterByName("box").Support != imaging.Box.Support {
		t.Fatalf("box filter not resolved")
	}
	if ResampleFilterByName("nope").Support != imaging.Lanczos.Support {
		t.Fatalf("unknown name should fall back to lanczos")
	}
}
