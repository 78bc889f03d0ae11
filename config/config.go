// Package config holds bilateral filter run settings loaded from YAML or
// JSON files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/images/kernels"
)

// Engine selects the filter implementation.
type Engine string

const (
	// EngineLUT is the lookup-table bilateral filter.
	EngineLUT Engine = "lut"
	// EngineOpenCV runs OpenCV's bilateral filter for comparison.
	EngineOpenCV Engine = "opencv"
	// EngineBox runs the box blur baseline.
	EngineBox Engine = "box"
)

// Filter holds the filter parameters.
type Filter struct {
	SpatialSigma   uint8 `json:"spatialSigma"   yaml:"spatialSigma"`
	IntensitySigma uint8 `json:"intensitySigma" yaml:"intensitySigma"`
	Parallel       bool  `json:"parallel"       yaml:"parallel"`
	Strict         bool  `json:"strict"         yaml:"strict"`
	KeepBorder     bool  `json:"keepBorder"     yaml:"keepBorder"`
}

// Output holds encoding settings.
type Output struct {
	// Format is the output format; empty keeps the input format.
	Format images.ImageFormat `json:"format" yaml:"format"`
	// Quality is the lossy quality 1-100; 0 selects images.DefaultQuality.
	Quality int `json:"quality" yaml:"quality"`
	// Fit is a resolution alias or WxH the input is downscaled into.
	Fit string `json:"fit" yaml:"fit"`
}

// Config is a complete run configuration.
type Config struct {
	Engine Engine `json:"engine" yaml:"engine"`
	Filter Filter `json:"filter" yaml:"filter"`
	Output Output `json:"output" yaml:"output"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: EngineLUT,
		Filter: Filter{
			SpatialSigma:   3,
			IntensitySigma: 20,
			KeepBorder:     true,
		},
	}
}

// Load reads a YAML or JSON file over Default(). Keys missing from the
// file keep their default values.
//
// Arguments:
// - path: The configuration file.
//
// Returns:
// - The validated configuration.
// - error if the file cannot be read, parsed or validated.
//
// @example
//
//	cfg, err := config.Load("bilateral.yaml")
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML (or JSON, which is valid YAML) over Default().
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the engine, format, quality and fit settings. Sigma
// values are checked only when Strict is set.
func (c Config) Validate() error {
	switch c.Engine {
	case EngineLUT, EngineOpenCV, EngineBox:
	default:
		return errors.Errorf("unknown engine %q", c.Engine)
	}
	if c.Output.Format != "" && !c.Output.Format.Valid() {
		return errors.Errorf("unsupported output format %q", c.Output.Format)
	}
	if c.Output.Quality < 0 || c.Output.Quality > 100 {
		return errors.Errorf("quality %d out of range [0, 100]", c.Output.Quality)
	}
	if c.Output.Fit != "" {
		if _, err := images.ParseResolution(c.Output.Fit); err != nil {
			return errors.Wrap(err, "invalid fit")
		}
	}
	if c.Filter.Strict {
		if err := kernels.ValidateSigma(c.Filter.SpatialSigma, c.Filter.IntensitySigma); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the filter section to kernels.Options.
func (c Config) Options(pool *kernels.Pool) kernels.Options {
	return kernels.Options{
		SpatialSigma:   c.Filter.SpatialSigma,
		IntensitySigma: c.Filter.IntensitySigma,
		Parallel:       c.Filter.Parallel,
		Pool:           pool,
		Strict:         c.Filter.Strict,
		KeepBorder:     c.Filter.KeepBorder,
	}
}

// ParseEngine parses a case-insensitive engine name.
func ParseEngine(s string) (Engine, error) {
	e := Engine(strings.ToLower(s))
	switch e {
	case EngineLUT, EngineOpenCV, EngineBox:
		return e, nil
	}
	return "", errors.Errorf("unknown engine %q", s)
}
