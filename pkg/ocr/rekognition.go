package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/disintegration/imaging"

	"easybus/models"
)

// RekognitionAPI is the subset of the Rekognition client used here.
type RekognitionAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// RekognitionEngine recognizes words with AWS Rekognition DetectText. Each
// WORD detection becomes one Symbol; LINE detections are skipped so text is
// not reported twice. The language hint is ignored.
type RekognitionEngine struct {
	client RekognitionAPI
}

func NewRekognitionEngine(client RekognitionAPI) *RekognitionEngine {
	return &RekognitionEngine{client: client}
}

func (e *RekognitionEngine) Name() string { return "rekognition" }

func (e *RekognitionEngine) Recognize(ctx context.Context, img image.Image, _ string) ([]models.Symbol, error) {
	if e.client == nil {
		return nil, fmt.Errorf("rekognition client not initialized")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	res, err := e.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: buf.Bytes()},
	})
	if err != nil {
		return nil, fmt.Errorf("detect text: %w", err)
	}
	out := make([]models.Symbol, 0, len(res.TextDetections))
	for _, d := range res.TextDetections {
		if d.Type != types.TextTypesWord || d.DetectedText == nil {
			continue
		}
		out = append(out, models.Symbol{
			Text:       aws.ToString(d.DetectedText),
			Confidence: float64(aws.ToFloat32(d.Confidence)),
		})
	}
	return out, nil
}
