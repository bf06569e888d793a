package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"pupil-tracker/config"
	"pupil-tracker/internal/container"
	"pupil-tracker/internal/domain/port"
	"pupil-tracker/internal/infrastructure/debug"
	"pupil-tracker/internal/infrastructure/metrics"
	"pupil-tracker/internal/infrastructure/source"
	"pupil-tracker/internal/infrastructure/storage"
	"pupil-tracker/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flag.StringVar(&cfg.StreamID, "stream", cfg.StreamID, "stream id the frames belong to")
	flag.BoolVar(&cfg.DisplayDebug, "debug", cfg.DisplayDebug, "write intermediate images for every frame")
	flag.StringVar(&cfg.DebugDir, "debug-dir", cfg.DebugDir, "directory for debug images")
	flag.StringVar(&cfg.MetricsTextfile, "metrics", cfg.MetricsTextfile, "write Prometheus metrics to this file when done")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	tracker, err := vision.NewPupilTracker(cfg.Tracker)
	if err != nil {
		log.Fatalf("Failed to create tracker: %v", err)
	}

	var sinks port.DebugSinkFactory
	if cfg.DisplayDebug {
		files, err := debug.NewFileSinkFactory(cfg.DebugDir)
		if err != nil {
			log.Fatalf("Failed to prepare debug output: %v", err)
		}
		log.Printf("Writing debug images to %s", files.Dir())
		sinks = files
	}

	// Собираем сервисы приложения
	recorder := metrics.NewRecorder()
	appContainer := container.New(storage.NewMemoryStreamRepository(), tracker, recorder, sinks)

	ctx := context.Background()
	failed := 0
	for _, path := range flag.Args() {
		frame, err := source.LoadFrame(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			failed++
			continue
		}

		out, err := appContainer.TrackingService.ProcessFrame(ctx, cfg.StreamID, frame)
		if err != nil {
			log.Printf("Tracking %s failed: %v", path, err)
			failed++
			continue
		}

		res := out.Result
		if !res.Found {
			fmt.Printf("%s found=false contours=%d passes=%d\n", path, res.Contours, res.RelaxPasses)
			continue
		}
		fmt.Printf("%s found=true %v confidence=%.2f points=%d\n", path, res.Ellipse, res.Confidence, res.MergedPoints)
	}

	// Итог по каждому потоку
	streams, err := appContainer.StreamService.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list streams: %v", err)
	}
	for _, s := range streams {
		log.Printf("Stream %s: %d/%d frames tracked, state %s", s.ID, s.Found, s.Frames, s.State)
	}

	if cfg.MetricsTextfile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Fatalf("Failed to write metrics: %v", err)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
