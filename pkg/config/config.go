package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"easybus/pkg/intake"
	"easybus/pkg/ocr"
	"easybus/pkg/pipeline"
)

// DefaultModelURL is the hosted Teachable Machine model the classifier was trained as.
const DefaultModelURL = "https://teachablemachine.withgoogle.com/models/Oem7Iweli/"

// Config holds every tunable read from the environment.
type Config struct {
	Port string

	ModelURL     string
	InferenceURL string

	OCREngine           string
	OCRLanguage         string
	ConfidenceThreshold float64

	TargetWidth   int
	GrayscalePct  float64
	ContrastPct   float64
	BrightnessPct float64
	Filter        string

	UploadMaxBytes int64
	AWSRegion      string
}

// Load reads ./.env (if present, without overriding the environment) and
// then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: could not load .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:                getEnv("PORT", "8081"),
		ModelURL:            getEnv("MODEL_URL", DefaultModelURL),
		InferenceURL:        getEnv("INFERENCE_URL", "http://localhost:5000/predict"),
		OCREngine:           strings.ToLower(getEnv("OCR_ENGINE", "tesseract")),
		OCRLanguage:         getEnv("OCR_LANG", ocr.DefaultLanguage),
		ConfidenceThreshold: getFloat("OCR_CONFIDENCE_THRESHOLD", ocr.DefaultConfidenceThreshold),
		TargetWidth:         getInt("PREPROCESS_TARGET_WIDTH", ocr.DefaultTargetWidth),
		GrayscalePct:        getFloat("PREPROCESS_GRAYSCALE_PCT", 100),
		ContrastPct:         getFloat("PREPROCESS_CONTRAST_PCT", 200),
		BrightnessPct:       getFloat("PREPROCESS_BRIGHTNESS_PCT", 115),
		Filter:              getEnv("PREPROCESS_FILTER", "lanczos"),
		UploadMaxBytes:      int64(getInt("UPLOAD_MAX_BYTES", intake.DefaultMaxBytes)),
		AWSRegion:           getEnv("AWS_REGION", "eu-central-1"),
	}
}

// PipelineOptions converts the preprocessing and threshold settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Preprocess: ocr.PreprocessOptions{
			TargetWidth:   c.TargetWidth,
			GrayscalePct:  c.GrayscalePct,
			ContrastPct:   c.ContrastPct,
			BrightnessPct: c.BrightnessPct,
			Filter:        ocr.ResampleFilterByName(c.Filter),
		},
		ConfidenceThreshold: c.ConfidenceThreshold,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Printf("warning: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		log.Printf("warning: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}
