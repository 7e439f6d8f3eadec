package classifier

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"

	"easybus/models"
)

// Predictor returns one probability per known class, in the model's class order.
type Predictor interface {
	Predict(ctx context.Context, img image.Image) ([]models.ClassProbability, error)
}

// DefaultLabels maps the model's class indices to route labels.
var DefaultLabels = []models.RouteLabel{models.Bus, models.Trolleybus, models.Tram}

// Adapter turns a probability vector into a RouteLabel.
type Adapter struct {
	model  *Model
	labels []models.RouteLabel
}

// NewAdapter uses labels as the index table, or DefaultLabels when none are given.
func NewAdapter(model *Model, labels ...models.RouteLabel) *Adapter {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	return &Adapter{model: model, labels: append([]models.RouteLabel(nil), labels...)}
}

// Model returns the handle the adapter predicts with.
func (a *Adapter) Model() *Model { return a.model }

// Classify runs the model once on img (the unmodified photo) and returns the
// label of the most probable class.
func (a *Adapter) Classify(ctx context.Context, img image.Image) (models.RouteLabel, error) {
	if a.model == nil {
		return models.Unknown, ErrModelNotLoaded
	}
	p, err := a.model.Predictor()
	if err != nil {
		return models.Unknown, err
	}
	probs, err := p.Predict(ctx, img)
	if err != nil {
		return models.Unknown, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if len(probs) != len(a.labels) {
		log.Printf("classifier: model returned %d classes, label table has %d", len(probs), len(a.labels))
	}
	idx, err := ArgMax(probs)
	if err != nil {
		return models.Unknown, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	label := a.LabelAt(idx)
	log.Printf("classifier: idx=%d score=%.3f label=%s", idx, probs[idx].Score, label)
	return label, nil
}

// LabelAt returns the label for a class index, or Unknown when the index is
// outside the table.
func (a *Adapter) LabelAt(idx int) models.RouteLabel {
	if idx < 0 || idx >= len(a.labels) {
		return models.Unknown
	}
	return a.labels[idx]
}

// ArgMax returns the index of the strictly highest score. Ties resolve to the
// earliest index. Empty vectors and NaN or negative scores are rejected.
func ArgMax(probs []models.ClassProbability) (int, error) {
	if len(probs) == 0 {
		return -1, fmt.Errorf("empty probability vector")
	}
	best := -1
	for i, p := range probs {
		if math.IsNaN(p.Score) || p.Score < 0 {
			return -1, fmt.Errorf("invalid score %v at index %d", p.Score, i)
		}
		if best == -1 || p.Score > probs[best].Score {
			best = i
		}
	}
	return best, nil
}
