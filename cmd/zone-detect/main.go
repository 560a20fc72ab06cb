package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/batch"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/config"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/imaging"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/logging"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/report"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/zone"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("zone-detect %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	os.Exit(run())
}

func run() int {
	// A missing .env is fine; the real environment still applies
	envErr := godotenv.Load()

	root := flag.String("root", "imagenesRecortadas", "Directory holding the mapa* folders")
	input := flag.String("input", "", "Process only this map folder (e.g. mapa20)")
	output := flag.String("output", report.DefaultPath, "Output JSON file")
	preview := flag.Bool("preview", false, "Write an annotated PNG for every detected zone")
	previewDir := flag.String("preview-dir", filepath.Join("datos", "previews"), "Directory for preview images")
	calPath := flag.String("calibration", os.Getenv("ZONE_CALIBRATION"), "YAML calibration file (defaults built in)")
	writeCal := flag.String("write-calibration", "", "Write the active calibration as YAML to this path")
	workers := flag.Int("workers", envInt("ZONE_WORKERS", 0), "Maps processed in parallel (0 = physical cores)")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default $ZONE_LOG_LEVEL or info)")
	flag.Parse()

	logging.Setup(*logLevel, os.Stderr)
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}
	log.Info().Str("version", Version).Msg("zone circle detector")

	cal := config.Default()
	if *calPath != "" {
		loaded, err := config.Load(*calPath)
		if err != nil {
			log.Error().Err(err).Str("path", *calPath).Msg("invalid calibration")
			return 1
		}
		cal = loaded
	}

	if *writeCal != "" {
		if err := cal.Save(*writeCal); err != nil {
			log.Error().Err(err).Msg("failed to write calibration")
			return 1
		}
		log.Info().Str("path", *writeCal).Msg("calibration written")
	}

	detector, err := zone.NewDetector(cal, nil)
	if err != nil {
		log.Error().Err(err).Msg("invalid calibration")
		return 1
	}

	dirs, err := batch.Discover(*root, *input)
	if err != nil {
		log.Error().Err(err).Msg("nothing to process")
		return 1
	}
	samples := make([]batch.MapSample, 0, len(dirs))
	for _, d := range dirs {
		samples = append(samples, d)
	}

	var hook batch.DetectHook
	if *preview {
		hook = previewWriter(*previewDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := report.New()
	runErr := batch.Run(ctx, batch.NewProcessor(detector, hook), samples, *workers, rep)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error().Err(runErr).Msg("detection aborted")
	}
	if errors.Is(runErr, context.Canceled) {
		log.Warn().Msg("interrupted, saving partial report")
	}

	if err := rep.Save(*output); err != nil {
		log.Error().Err(err).Msg("failed to save results")
		return 1
	}
	log.Info().Str("path", *output).Str("run_id", rep.RunID()).Msg("results saved")

	printSummary(rep)

	if runErr != nil {
		return 1
	}
	return 0
}

// previewWriter saves one annotated image per detected zone under dir.
func previewWriter(dir string) batch.DetectHook {
	return func(mapID string, level zone.ZoomLevel, img image.Image, res zone.Result) {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", mapID, level.Label()))
		overlay := imaging.Overlay{
			CenterX: res.CenterX,
			CenterY: res.CenterY,
			Radius:  res.Radius,
			Caption: fmt.Sprintf("%s %s  centro (%d, %d)  radio %d (fijo)",
				mapID, level.Label(), res.CenterX, res.CenterY, res.Radius),
		}
		if err := imaging.SavePreview(img, overlay, path); err != nil {
			log.Error().Err(err).Str("path", path).Msg("failed to write preview")
			return
		}
		log.Debug().Str("path", path).Msg("preview written")
	}
}

func printSummary(rep *report.Report) {
	stats := rep.Stats()
	log.Info().
		Int("maps_processed", stats.MapsProcessed).
		Int("maps_with_zones", stats.MapsWithZones).
		Int("circles_detected", stats.ZonesDetected).
		Int("failed", stats.ZonesFailed).
		Msg("detection summary")

	for _, f := range rep.Failures() {
		log.Warn().Str("zone", f.String()).Msg("failed detection")
	}

	if stats.ZonesDetected > 0 {
		if err := rep.WriteListing(os.Stdout); err != nil {
			log.Error().Err(err).Msg("failed to print listing")
		}
	}
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
