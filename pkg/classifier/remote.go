package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"easybus/models"
)

// RemoteLoader loads a Teachable Machine style image model whose inference
// runs in an external service. The model location is the directory URL that
// holds metadata.json.
type RemoteLoader struct {
	InferenceURL string
	Client       *http.Client
}

// NewRemoteLoader returns a loader posting images to inferenceURL.
func NewRemoteLoader(inferenceURL string) *RemoteLoader {
	return &RemoteLoader{InferenceURL: inferenceURL, Client: &http.Client{Timeout: 30 * time.Second}}
}

type modelMetadata struct {
	Labels []string `json:"labels"`
}

// Load reads the class names from the model metadata (when a location is
// given) and checks that the inference service is healthy.
func (l *RemoteLoader) Load(ctx context.Context, location string) (Predictor, error) {
	if l.InferenceURL == "" {
		return nil, fmt.Errorf("inference url not set")
	}
	p := &RemotePredictor{url: l.InferenceURL, client: l.httpClient()}
	if location != "" {
		meta, err := l.fetchMetadata(ctx, location)
		if err != nil {
			return nil, err
		}
		p.classNames = meta.Labels
		log.Printf("classifier: metadata labels=%v", meta.Labels)
		if len(meta.Labels) != len(DefaultLabels) {
			log.Printf("classifier: WARN model has %d classes, expected %d; extra classes map to unknown", len(meta.Labels), len(DefaultLabels))
		}
	}
	if err := p.CheckHealth(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (l *RemoteLoader) httpClient() *http.Client {
	if l.Client != nil {
		return l.Client
	}
	return http.DefaultClient
}

func (l *RemoteLoader) fetchMetadata(ctx context.Context, location string) (modelMetadata, error) {
	url := strings.TrimSuffix(location, "/") + "/metadata.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return modelMetadata{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := l.httpClient().Do(req)
	if err != nil {
		return modelMetadata{}, fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return modelMetadata{}, fmt.Errorf("fetch metadata: status %d", resp.StatusCode)
	}
	var meta modelMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return modelMetadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}

// RemotePredictor sends images as multipart uploads to an inference service
// and reads back the per-class probabilities in class order.
type RemotePredictor struct {
	url        string
	client     *http.Client
	classNames []string
}

// ClassNames returns the labels read from the model metadata, if any.
func (p *RemotePredictor) ClassNames() []string {
	return append([]string(nil), p.classNames...)
}

func (p *RemotePredictor) Predict(ctx context.Context, img image.Image) ([]models.ClassProbability, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, img, imaging.JPEG, imaging.JPEGQuality(92)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Predictions []models.ClassProbability `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result.Predictions, nil
}

// CheckHealth verifies the inference service answers on /health.
func (p *RemotePredictor) CheckHealth(ctx context.Context) error {
	url := strings.TrimSuffix(p.url, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
