package ocr

import (
	"context"
	"fmt"
	"image"
	"log"

	"easybus/models"
)

// DefaultLanguage is the Tesseract language used for route numbers.
const DefaultLanguage = "eng"

// Engine is an OCR provider: one image in, the recognized symbols out, in the
// engine's reading order.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, lang string) ([]models.Symbol, error)
}

// Adapter runs an Engine on canonical rasters with a fixed language hint.
// It does no confidence filtering; see ExtractDigits.
type Adapter struct {
	engine Engine
	lang   string
}

// NewAdapter wraps engine. An empty lang means DefaultLanguage.
func NewAdapter(engine Engine, lang string) *Adapter {
	if lang == "" {
		lang = DefaultLanguage
	}
	return &Adapter{engine: engine, lang: lang}
}

// Engine returns the wrapped provider.
func (a *Adapter) Engine() Engine { return a.engine }

// Recognize returns the engine's raw symbol list. A nil or empty result is
// valid; only a failing engine call yields ErrRecognize.
func (a *Adapter) Recognize(ctx context.Context, raster image.Image) ([]models.Symbol, error) {
	if a.engine == nil {
		return nil, fmt.Errorf("%w: no engine configured", ErrRecognize)
	}
	symbols, err := a.engine.Recognize(ctx, raster, a.lang)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRecognize, a.engine.Name(), err)
	}
	log.Printf("OCR %s symbols=%d raw=%q", a.engine.Name(), len(symbols), FormatSymbols(symbols))
	return symbols, nil
}
