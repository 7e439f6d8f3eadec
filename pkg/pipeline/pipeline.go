package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"easybus/models"
	"easybus/pkg/ocr"
)

// Classifier labels the original photo.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (models.RouteLabel, error)
}

// Recognizer returns the OCR symbols of a canonical raster.
type Recognizer interface {
	Recognize(ctx context.Context, raster image.Image) ([]models.Symbol, error)
}

// Options tunes preprocessing and digit filtering.
type Options struct {
	Preprocess          ocr.PreprocessOptions
	ConfidenceThreshold float64
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Preprocess:          ocr.DefaultPreprocessOptions(),
		ConfidenceThreshold: ocr.DefaultConfidenceThreshold,
	}
}

// Analyzer runs one photo through preprocessing, classification and OCR.
// It holds no per-request state and is safe for concurrent use.
type Analyzer struct {
	classifier Classifier
	recognizer Recognizer
	opts       Options
}

func New(c Classifier, r Recognizer, opts Options) *Analyzer {
	return &Analyzer{classifier: c, recognizer: r, opts: opts}
}

// Options returns the analyzer settings.
func (a *Analyzer) Options() Options { return a.opts }

// Report describes how a request went through the pipeline.
type Report struct {
	RequestID  string
	State      State
	Symbols    int
	OCRRan     bool
	OCRErr     error
	Err        error
	Preprocess time.Duration
	Classify   time.Duration
	Recognize  time.Duration
	Total      time.Duration
}

// Result is everything produced for a request: the outcome, the canonical
// raster that was sent to OCR (nil if preprocessing failed) and the report.
type Result struct {
	Outcome models.Outcome
	Raster  *image.NRGBA
	Report  Report
}

// Analyze returns the outcome for img. Preprocessing, classification and
// model-loading failures are fatal; an OCR failure yields an outcome without
// digits.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image) (models.Outcome, error) {
	res, err := a.AnalyzeDetailed(ctx, img)
	return res.Outcome, err
}

// AnalyzeDetailed is Analyze plus the canonical raster and a report.
func (a *Analyzer) AnalyzeDetailed(ctx context.Context, img image.Image) (Result, error) {
	start := time.Now()
	rep := Report{RequestID: uuid.NewString(), State: Idle}
	fail := func(err error) (Result, error) {
		rep.State = Failed
		rep.Err = err
		rep.Total = time.Since(start)
		log.Printf("ANALYZE req=%s state=%s kind=%s err=%v", rep.RequestID, rep.State, KindOf(err), err)
		return Result{Report: rep}, err
	}
	if img == nil {
		return fail(fmt.Errorf("%w: no image", ocr.ErrPreprocess))
	}
	rep.State = ImageReceived

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Classification only needs the original photo, so it starts right away.
	var (
		wg       sync.WaitGroup
		label    models.RouteLabel
		classErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.Now()
		if a.classifier == nil {
			classErr = fmt.Errorf("no classifier configured")
		} else {
			label, classErr = a.classifier.Classify(ctx, img)
		}
		rep.Classify = time.Since(t)
	}()

	t := time.Now()
	raster, err := ocr.Preprocess(img, a.opts.Preprocess)
	rep.Preprocess = time.Since(t)
	if err != nil {
		cancel()
		wg.Wait()
		return fail(err)
	}
	rep.State = Preprocessed

	var symbols []models.Symbol
	t = time.Now()
	if a.recognizer != nil {
		rep.OCRRan = true
		symbols, rep.OCRErr = a.recognizer.Recognize(ctx, raster)
	} else {
		rep.OCRErr = fmt.Errorf("%w: no recognizer configured", ocr.ErrRecognize)
	}
	rep.Recognize = time.Since(t)
	rep.Symbols = len(symbols)

	wg.Wait()
	rep.State = ClassifiedAndRecognized
	if classErr != nil {
		return fail(classErr)
	}

	var digits *string
	if rep.OCRErr != nil {
		log.Printf("ANALYZE req=%s ocr degraded: %v", rep.RequestID, rep.OCRErr)
	} else {
		digits = ocr.ExtractDigits(symbols, a.opts.ConfidenceThreshold)
	}

	rep.State = Completed
	rep.Total = time.Since(start)
	out := models.Outcome{Label: label, Digits: digits}
	log.Printf("ANALYZE req=%s label=%s digits=%q symbols=%d preprocess=%s classify=%s ocr=%s total=%s",
		rep.RequestID, out.Label, out.DigitsOr("-"), rep.Symbols, rep.Preprocess, rep.Classify, rep.Recognize, rep.Total)
	return Result{Outcome: out, Raster: raster, Report: rep}, nil
}
