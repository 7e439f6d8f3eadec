package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"

	"easybus/models"
)

func newInferenceServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/model/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"labels": []string{"bus", "trolleybus", "tram"}})
	})
	mux.HandleFunc("/predict/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		if _, err := imaging.Decode(f); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"predictions": []map[string]any{
			{"className": "bus", "probability": 0.1},
			{"className": "trolleybus", "probability": 0.2},
			{"className": "tram", "probability": 0.7},
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteLoaderAndPredict(t *testing.T) {
	srv := newInferenceServer(t, http.StatusOK)
	loader := NewRemoteLoader(srv.URL + "/predict")
	m := NewModel(loader, srv.URL+"/model/")
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := m.Predictor()
	if err != nil {
		t.Fatalf("predictor: %v", err)
	}
	rp, ok := p.(*RemotePredictor)
	if !ok || len(rp.ClassNames()) != 3 {
		t.Fatalf("expected class names from metadata got %#v", p)
	}

	label, err := NewAdapter(m).Classify(context.Background(), imaging.New(32, 24, color.NRGBA{200, 0, 0, 255}))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if label != models.Tram {
		t.Fatalf("expected Tram got %v", label)
	}
}

func TestRemoteLoaderUnhealthy(t *testing.T) {
	srv := newInferenceServer(t, http.StatusServiceUnavailable)
	m := NewModel(NewRemoteLoader(srv.URL+"/predict"), "")
	if err := m.Load(context.Background()); err == nil {
		t.Fatalf("expected load failure")
	}
	if _, err := m.Predictor(); !errors.Is(err, ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded got %v", err)
	}
}

func TestRemotePredictNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	p := &RemotePredictor{url: srv.URL, client: srv.Client()}
	_, err := NewAdapter(NewReadyModel(p)).Classify(context.Background(), imaging.New(4, 4, color.White))
	if !errors.Is(err, ErrClassification) {
		t.Fatalf("expected ErrClassification got %v", err)
	}
}
