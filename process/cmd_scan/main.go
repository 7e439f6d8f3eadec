package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"easybus/pkg/app"
	"easybus/pkg/config"
)

var verbose bool

// Scans a directory of vehicle photos and prints label and route number per
// file; with -watch new files are picked up as they arrive.
func main() {
	dirFlag := flag.String("dir", "public/photos", "directory to scan for photos")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	moveDone := flag.String("move-to", "", "Move analyzed files into this directory")
	dryRun := flag.Bool("dry-run", false, "List candidate files without analyzing them")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	files := listImageFiles(*dirFlag)
	if *dryRun {
		log.Printf("Dry-run: %d candidate files in %s", len(files), *dirFlag)
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	ctx := context.Background()
	cfg := config.Load()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	if err := a.Model.Load(ctx); err != nil {
		log.Fatalf("model load failed: %v", err)
	}

	s := &scanner{dir: *dirFlag, moveTo: *moveDone, analyzer: a.Analyzer, uploads: a.Intake, seen: newSeenSet(), out: os.Stdout}
	n := effectiveWorkers(*workers)
	log.Printf("Scanning %d files (workers=%d ocr=%s)", len(files), n, a.Engine.Name())
	runWorkerPool(files, n, s.processFile)

	if *watch {
		if err := watchDirectory(*dirFlag, n, s.processFile); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func logV(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func moveFile(src, dstDir string) error {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}
	return os.Rename(src, filepath.Join(dstDir, filepath.Base(src)))
}
