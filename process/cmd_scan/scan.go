package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"easybus/models"
	"easybus/pkg/intake"
	"easybus/pkg/pipeline"
)

type imageAnalyzer interface {
	AnalyzeDetailed(ctx context.Context, img image.Image) (pipeline.Result, error)
}

var _ imageAnalyzer = (*pipeline.Analyzer)(nil)

// seenSet remembers files already handled so watch events and the initial
// scan never analyze the same name twice.
type seenSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{names: make(map[string]struct{}, 256)}
}

// add returns false when name was already present.
func (s *seenSet) add(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; ok {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

type scanner struct {
	dir      string
	moveTo   string
	analyzer imageAnalyzer
	uploads  *intake.Intake
	seen     *seenSet

	outMu sync.Mutex
	out   io.Writer
}

// processFile analyzes one file and prints "<name>\t<label>\t<digits>".
func (s *scanner) processFile(name string) {
	if !s.seen.add(name) {
		logV("SKIP already analyzed %s", name)
		return
	}
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		log.Printf("ERROR open %s: %v", name, err)
		return
	}
	img, mime, err := s.uploads.Read(f)
	f.Close()
	if err != nil {
		log.Printf("ERROR read %s (%s): %v", name, mime, err)
		return
	}

	res, err := s.analyzer.AnalyzeDetailed(context.Background(), img)
	if err != nil {
		log.Printf("ERROR analyze %s kind=%s: %v", name, pipeline.KindOf(err), err)
		return
	}
	rep := res.Report
	logV("ANALYZED %s req=%s symbols=%d ocr_err=%v total=%s", name, rep.RequestID, rep.Symbols, rep.OCRErr, rep.Total)

	s.outMu.Lock()
	fmt.Fprintf(s.out, "%s\t%s\t%s\n", name, res.Outcome.Label, res.Outcome.DigitsOr(models.NoDigitsMessage))
	s.outMu.Unlock()

	if s.moveTo != "" {
		if err := moveFile(path, s.moveTo); err != nil {
			log.Printf("WARN failed to move %s: %v", name, err)
		} else {
			logV("moved %s to %s", name, s.moveTo)
		}
	}
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !intake.IsSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// runWorkerPool hands names to workers goroutines. Without extra channels it
// returns once initial is drained; otherwise it keeps relaying and never
// returns.
func runWorkerPool(initial []string, workers int, handle func(string), extraCh ...<-chan string) {
	if workers <= 0 {
		workers = 1
	}
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				handle(name)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		for _, ch := range extraCh {
			go func(c <-chan string) {
				for n := range c {
					fileCh <- n
				}
			}(ch)
		}
		if len(extraCh) == 0 {
			close(fileCh)
		}
	}()
	if len(extraCh) == 0 {
		wg.Wait()
	}
}

const (
	debounceTick   = 250 * time.Millisecond
	debounceStable = 300 * time.Millisecond
)

// debounce turns raw watcher events into file names once a name has not been
// touched for debounceStable. It closes the returned channel when events or
// errs is closed.
func debounce(events <-chan fsnotify.Event, errs <-chan error) <-chan string {
	fileCh := make(chan string, 256)
	go func() {
		defer close(fileCh)
		pending := map[string]time.Time{}
		ticker := time.NewTicker(debounceTick)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				if !intake.IsSupportedExt(name) {
					continue
				}
				pending[name] = time.Now()
			case <-ticker.C:
				now := time.Now()
				for name, t := range pending {
					if now.Sub(t) > debounceStable {
						fileCh <- name
						delete(pending, name)
					}
				}
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.Printf("watch error: %v", err)
			}
		}
	}()
	return fileCh
}

func watchDirectory(dir string, workers int, handle func(string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("Watching %s (debounced) ...", dir)

	go runWorkerPool(nil, workers, handle, debounce(w.Events, w.Errors))
	// block forever (Ctrl+C to exit)
	select {}
}
