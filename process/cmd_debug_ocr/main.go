package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"easybus/pkg/app"
	"easybus/pkg/config"
	"easybus/pkg/intake"
	"easybus/pkg/ocr"
)

// Prints every symbol the OCR engine reports for -file together with the
// digits that survive -threshold. Useful when tuning the threshold.
func main() {
	file := flag.String("file", "", "image file to OCR")
	threshold := flag.Float64("threshold", -1, "confidence threshold (default from config)")
	raw := flag.Bool("raw", false, "skip preprocessing and OCR the photo as-is")
	flag.Parse()
	if *file == "" {
		log.Fatalf("-file required")
	}

	ctx := context.Background()
	cfg := config.Load()
	if *threshold < 0 {
		*threshold = cfg.ConfidenceThreshold
	}
	engine, err := app.NewEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	img, mime, err := intake.New(cfg.UploadMaxBytes).Read(f)
	f.Close()
	if err != nil {
		log.Fatalf("read %s: %v", mime, err)
	}

	var target image.Image = img
	if !*raw {
		if target, err = ocr.Preprocess(img, cfg.PipelineOptions().Preprocess); err != nil {
			log.Fatalf("preprocess: %v", err)
		}
	}

	symbols, err := ocr.NewAdapter(engine, cfg.OCRLanguage).Recognize(ctx, target)
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	for i, s := range symbols {
		keep := " "
		if s.Confidence > *threshold {
			keep = "*"
		}
		fmt.Printf("%3d %s %-4q %6.2f\n", i, keep, s.Text, s.Confidence)
	}
	digits := ocr.ExtractDigits(symbols, *threshold)
	if digits == nil {
		fmt.Printf("engine=%s threshold=%.1f digits=<none>\n", engine.Name(), *threshold)
		return
	}
	fmt.Printf("engine=%s threshold=%.1f digits=%q\n", engine.Name(), *threshold, *digits)
}
