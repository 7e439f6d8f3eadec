package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/disintegration/imaging"

	"easybus/pkg/config"
	"easybus/pkg/intake"
	"easybus/pkg/ocr"
)

// Writes the canonical OCR raster of -file so the preprocessing settings can
// be checked by eye.
func main() {
	in := flag.String("file", "", "photo to preprocess")
	out := flag.String("out", "/tmp/preprocessed.png", "where to write the PNG")
	flag.Parse()
	if *in == "" {
		log.Fatalf("-file required")
	}

	cfg := config.Load()
	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, mime, err := intake.New(cfg.UploadMaxBytes).Read(f)
	if err != nil {
		log.Fatalf("read %s: %v", mime, err)
	}

	opts := cfg.PipelineOptions().Preprocess
	raster, err := ocr.Preprocess(img, opts)
	if err != nil {
		log.Fatalf("preprocess: %v", err)
	}
	if err := imaging.Save(raster, *out); err != nil {
		log.Fatalf("save: %v", err)
	}
	b := img.Bounds()
	fmt.Printf("%s %dx%d -> %s %dx%d (gray=%.0f%% contrast=%.0f%% brightness=%.0f%%)\n",
		*in, b.Dx(), b.Dy(), *out, raster.Bounds().Dx(), raster.Bounds().Dy(),
		opts.GrayscalePct, opts.ContrastPct, opts.BrightnessPct)
}
