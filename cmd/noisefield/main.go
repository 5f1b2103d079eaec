// Command noisefield synthesizes the exterior sound pressure field of a
// building scene. It reads a scene config JSON, computes the level grid and
// writes the grid JSON plus optional HTML and PNG heat-map previews. With
// no output flags it only computes and logs the field summary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sonitus/noisefield/field"
	"github.com/sonitus/noisefield/logging"
	"github.com/sonitus/noisefield/render"
)

func main() {
	configPath := flag.String("config", "", "scene config JSON (required)")
	outPath := flag.String("out", "", "write the computed grid JSON here")
	htmlPath := flag.String("html", "", "write an HTML heat-map preview here")
	pngPath := flag.String("png", "", "write a PNG heat-map bake here")
	preset := flag.String("preset", "", "parameter preset the config overrides: default, crisp or soft")
	workers := flag.Int("workers", 0, "row workers for the compute pass (0 keeps the config value)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	}
	if err := run(*configPath, *outPath, *htmlPath, *pngPath, *preset, *workers); err != nil {
		logging.Error(err, "Noise field synthesis failed")
		os.Exit(1)
	}
}

func run(configPath, outPath, htmlPath, pngPath, preset string, workers int) error {
	if configPath == "" {
		return fmt.Errorf("missing -config")
	}

	base := field.DefaultParams()
	if preset != "" {
		var err error
		base, err = field.PresetParams(preset)
		if err != nil {
			return err
		}
	}

	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	cfg, err := field.ReadConfigParams(f, base)
	f.Close()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Params.Workers = workers
	}

	comp, err := field.New(cfg)
	if err != nil {
		return err
	}
	grid, err := comp.Compute(context.Background())
	if err != nil {
		return err
	}

	summary := grid.Summary()
	logging.Info("Field computed", logging.Fields{
		"scene":  cfg.Name,
		"cells":  summary.Count,
		"min_db": summary.Min,
		"max_db": summary.Max,
		"p95_db": summary.P95,
	})

	if outPath != "" {
		if err := writeGrid(outPath, grid); err != nil {
			return err
		}
		logging.Info("Grid written", logging.Fields{"path": outPath})
	}

	if htmlPath == "" && pngPath == "" {
		return nil
	}
	if len(grid.X) == 0 || len(grid.Y) == 0 {
		logging.Warn("Skipping previews for an empty grid")
		return nil
	}
	scale := render.BuildScale(grid.Min, grid.Max, render.ScaleThresholds(comp.Config().Params))
	if htmlPath != "" {
		if err := writeHTML(htmlPath, grid, scale, cfg.Name); err != nil {
			return err
		}
		logging.Info("HTML preview written", logging.Fields{"path": htmlPath})
	}
	if pngPath != "" {
		if err := writePNG(pngPath, grid, scale); err != nil {
			return err
		}
		logging.Info("PNG preview written", logging.Fields{"path": pngPath})
	}
	return nil
}

func writeGrid(path string, grid *field.Grid) error {
	data, err := json.MarshalIndent(grid, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode grid: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write grid: %w", err)
	}
	return nil
}

func writeHTML(path string, grid *field.Grid, scale []render.Stop, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create html: %w", err)
	}
	if err := render.HTML(f, grid, scale, render.HTMLOptions{Title: title}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write html: %w", err)
	}
	return nil
}

func writePNG(path string, grid *field.Grid, scale []render.Stop) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create png: %w", err)
	}
	if err := render.PNG(f, grid, scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}
