package pipeline

import (
	"errors"

	"easybus/pkg/classifier"
	"easybus/pkg/ocr"
)

// State is the position of a single request in the pipeline.
type State int

const (
	Idle State = iota
	ImageReceived
	Preprocessed
	ClassifiedAndRecognized
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case ImageReceived:
		return "image_received"
	case Preprocessed:
		return "preprocessed"
	case ClassifiedAndRecognized:
		return "classified_and_recognized"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Kind classifies pipeline errors.
type Kind int

const (
	KindNone Kind = iota
	KindPreprocess
	KindClassification
	KindOCR
	KindModelNotLoaded
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPreprocess:
		return "preprocess_error"
	case KindClassification:
		return "classification_error"
	case KindOCR:
		return "ocr_error"
	case KindModelNotLoaded:
		return "model_not_loaded"
	default:
		return "internal_error"
	}
}

// KindOf maps err to its Kind. ModelNotLoaded is checked before the
// generic classification failure.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, classifier.ErrModelNotLoaded):
		return KindModelNotLoaded
	case errors.Is(err, classifier.ErrClassification):
		return KindClassification
	case errors.Is(err, ocr.ErrPreprocess):
		return KindPreprocess
	case errors.Is(err, ocr.ErrRecognize):
		return KindOCR
	default:
		return KindOther
	}
}
