package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/menta2k/appshot"
	"github.com/menta2k/appshot/internal/config"
	"github.com/menta2k/appshot/internal/utils"
	"github.com/menta2k/appshot/pkg/types"
)

// Example inputs, expected in the working directory
const (
	exampleBackground  = "background.jpeg"
	exampleScreenshot1 = "screenshot1.png"
	exampleScreenshot2 = "screenshot2.png"
	exampleScreenshot3 = "screenshot3.png"
)

// defaultJobs is the built-in example table
func defaultJobs(outDir string) []types.Job {
	return []types.Job{
		{
			Name:       "example_1_single",
			Background: exampleBackground,
			Placements: []types.Placement{
				{Image: exampleScreenshot1, RelativeWidth: 0.83, RelativePosition: [2]float64{0.5, 0.57}},
			},
			Output: filepath.Join(outDir, "example_1_single.png"),
		},
		{
			Name:       "example_2_double",
			Background: exampleBackground,
			Placements: []types.Placement{
				{Image: exampleScreenshot1, RelativeWidth: 0.45, RelativePosition: [2]float64{0.25, 0.4}, ZOrder: 0},
				{Image: exampleScreenshot2, RelativeWidth: 0.45, RelativePosition: [2]float64{0.75, 0.4}, ZOrder: 1},
			},
			Output: filepath.Join(outDir, "example_2_double.png"),
		},
		{
			Name:       "example_3_triple_overlap",
			Background: exampleBackground,
			Placements: []types.Placement{
				{Image: exampleScreenshot1, RelativeWidth: 0.54, RelativePosition: [2]float64{0.34, 0.47}, ZOrder: 0},
				{Image: exampleScreenshot2, RelativeWidth: 0.54, RelativePosition: [2]float64{0.5, 0.55}, ZOrder: 1},
				{Image: exampleScreenshot3, RelativeWidth: 0.54, RelativePosition: [2]float64{0.66, 0.63}, ZOrder: 2},
			},
			Output: filepath.Join(outDir, "example_3_triple_overlap.png"),
		},
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, err := utils.NewLogger(cfg.Log.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	jobs := cfg.Jobs
	if len(jobs) == 0 {
		jobs = defaultJobs(cfg.Output.OutputDir)
	}

	var required []string
	for _, job := range jobs {
		required = append(required, job.Paths()...)
	}
	if missing := utils.MissingFiles(required...); len(missing) > 0 {
		fmt.Println("\n--- ERROR ---")
		fmt.Println("Missing required input image files:")
		for _, f := range missing {
			fmt.Printf("- %s\n", f)
		}
		fmt.Println("Place these files in the working directory to run the examples.")
		fmt.Println("-------------")
		return 1
	}

	gen := appshot.NewWithConfig(cfg.Compositor())
	gen.SetLogger(logger)
	gen.SetDebug(cfg.Output.Debug)

	logger.Info("starting App Store screenshot generation", zap.Int("jobs", len(jobs)))

	processed, failed := 0, 0
	for _, job := range jobs {
		logger.Info("generating", zap.String("job", job.Name), zap.String("output", job.Output))
		if err := gen.RunJob(job); err != nil {
			failed++
			logger.Error("job failed", zap.String("job", job.Name), zap.Error(err))
			continue
		}
		processed++
	}

	fmt.Println("\n--- App Store Screenshot Generation Summary ---")
	fmt.Printf("Successfully generated: %d\n", processed)
	fmt.Printf("Failed:                 %d\n", failed)
	if processed > 0 {
		fmt.Printf("Generated images are in the '%s' directory.\n", cfg.Output.OutputDir)
	}
	fmt.Println("-----------------------------------------------")

	if failed > 0 {
		return 1
	}
	return 0
}

// loadConfig reads the user config file when present and falls back to the
// defaults otherwise
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(config.GetConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
