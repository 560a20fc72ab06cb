package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/logging"
	"github.com/DiegoRafaelRamosLlanos/frefirezona/internal/organize"
)

func defaultDownloads() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

func main() {
	src := flag.String("src", "imagenesOriginales", "Directory with one folder of full screenshots per map")
	dst := flag.String("dst", "imagenesRecortadas", "Directory receiving the cropped map folders")
	importNew := flag.Bool("import", false, "First move the newest screenshots from -downloads into a new map folder under -src")
	downloads := flag.String("downloads", defaultDownloads(), "Folder the game screenshots are saved to")
	count := flag.Int("count", organize.DefaultIntakeCount, "Number of screenshots to import")
	logLevel := flag.String("log-level", "", "debug, info, warn or error (default $ZONE_LOG_LEVEL or info)")
	flag.Parse()

	logging.Setup(*logLevel, os.Stderr)

	if *importNew {
		in := &organize.Intake{Downloads: *downloads, Dest: *src, Count: *count}
		res, err := in.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
		log.Info().
			Str("folder", res.Folder).
			Int("moved", len(res.Moved)).
			Int("failed", res.Failed).
			Msg("import finished")
	}

	o := &organize.Organizer{Source: *src, Dest: *dst}
	stats, err := o.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("crop failed")
	}

	log.Info().
		Int("folders", stats.Folders).
		Int("skipped", stats.Skipped).
		Int("images", stats.Images).
		Int("failed", stats.Failed).
		Msg("crop finished")
}
