package app

import (
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"

	"easybus/pkg/classifier"
	"easybus/pkg/config"
	"easybus/pkg/intake"
	"easybus/pkg/ocr"
	"easybus/pkg/pipeline"
)

// App bundles the long-lived pieces shared by the server and the CLI tools.
type App struct {
	Config   *config.Config
	Model    *classifier.Model
	Engine   ocr.Engine
	Analyzer *pipeline.Analyzer
	Intake   *intake.Intake
}

// New wires the classifier model handle, the configured OCR engine and the
// analyzer. The model is not loaded; call Model.Load or Model.LoadAsync.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	engine, err := NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	model := classifier.NewModel(classifier.NewRemoteLoader(cfg.InferenceURL), cfg.ModelURL)
	return &App{
		Config:   cfg,
		Model:    model,
		Engine:   engine,
		Analyzer: pipeline.New(classifier.NewAdapter(model), ocr.NewAdapter(engine, cfg.OCRLanguage), cfg.PipelineOptions()),
		Intake:   intake.New(cfg.UploadMaxBytes),
	}, nil
}

// NewEngine returns the OCR engine named by cfg.OCREngine.
func NewEngine(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
	switch cfg.OCREngine {
	case "", "tesseract":
		return ocr.NewTesseractEngine(), nil
	case "rekognition":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		log.Printf("OCR engine rekognition region=%s", cfg.AWSRegion)
		return ocr.NewRekognitionEngine(rekognition.NewFromConfig(awsCfg)), nil
	default:
		return nil, fmt.Errorf("unknown OCR_ENGINE %q", cfg.OCREngine)
	}
}
