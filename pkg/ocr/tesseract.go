package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"easybus/models"
)

// TesseractEngine recognizes symbols with a local Tesseract install through
// gosseract. A new client is created per call so the engine is safe for
// concurrent requests.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
	pageSegMode   gosseract.PageSegMode
	whitelist     string
}

// NewTesseractEngine returns an engine using single-block segmentation and no
// character whitelist.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{
		clientFactory: gosseract.NewClient,
		pageSegMode:   gosseract.PSM_SINGLE_BLOCK,
	}
}

// WithWhitelist restricts recognition to chars.
func (e *TesseractEngine) WithWhitelist(chars string) *TesseractEngine {
	e.whitelist = chars
	return e
}

// WithPageSegMode overrides the page segmentation mode.
func (e *TesseractEngine) WithPageSegMode(mode gosseract.PageSegMode) *TesseractEngine {
	e.pageSegMode = mode
	return e
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize returns one Symbol per Tesseract symbol-level box.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, lang string) ([]models.Symbol, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	c := e.clientFactory()
	defer c.Close()
	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	if err := c.SetPageSegMode(e.pageSegMode); err != nil {
		return nil, fmt.Errorf("set psm: %w", err)
	}
	if e.whitelist != "" {
		if err := c.SetWhitelist(e.whitelist); err != nil {
			return nil, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return nil, fmt.Errorf("symbol boxes: %w", err)
	}
	out := make([]models.Symbol, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, models.Symbol{Text: b.Word, Confidence: b.Confidence})
	}
	return out, nil
}
