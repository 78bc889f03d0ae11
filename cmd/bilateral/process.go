package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-bilateral/config"
	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/images/cv"
	"github.com/nvr-ai/go-bilateral/images/kernels"
	"github.com/nvr-ai/go-bilateral/profiler"
	"github.com/nvr-ai/go-bilateral/util"
)

// processor filters encoded frames according to a Config.
type processor struct {
	cfg    config.Config
	fit    *images.Resolution
	pool   *kernels.Pool
	prof   *profiler.Profiler
	logger *slog.Logger
}

func newProcessor(cfg config.Config, prof *profiler.Profiler, logger *slog.Logger) (*processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &processor{
		cfg:    cfg,
		pool:   &kernels.Pool{},
		prof:   prof,
		logger: logger,
	}
	if cfg.Output.Fit != "" {
		res, err := images.ParseResolution(cfg.Output.Fit)
		if err != nil {
			return nil, err
		}
		p.fit = &res
	}
	return p, nil
}

// filter runs the configured engine over a grayscale frame.
func (p *processor) filter(gray *image.Gray) (*image.Gray, error) {
	defer p.prof.StartOperation("filter." + string(p.cfg.Engine))()

	switch p.cfg.Engine {
	case config.EngineOpenCV:
		return cv.ReferenceBilateral(gray, p.cfg.Filter.SpatialSigma, p.cfg.Filter.IntensitySigma)
	case config.EngineBox:
		radius := kernels.CalculateKernelSize(p.cfg.Filter.SpatialSigma) / 2
		return kernels.BoxBlurGray(gray, radius, kernels.EdgeClamp, p.cfg.Filter.Parallel), nil
	default:
		return kernels.FilterGray(gray, p.cfg.Options(p.pool))
	}
}

// process decodes data, filters it and encodes the result.
//
// Arguments:
// - data: The encoded input frame.
// - format: The output format; empty keeps the input format.
//
// Returns:
// - The encoded output.
// - The output format.
// - error if any stage fails.
func (p *processor) process(data []byte, format images.ImageFormat) ([]byte, images.ImageFormat, error) {
	done := p.prof.StartOperation("decode")
	decoded, inFormat, err := images.Decode(data)
	done()
	if err != nil {
		return nil, "", err
	}
	if format == "" {
		format = inFormat
	}

	gray := images.ToGray(decoded)
	if p.fit != nil {
		var resized bool
		if gray, resized = images.FitGray(gray, *p.fit); resized {
			p.logger.Debug("frame downscaled", "fit", p.fit.String(),
				"width", gray.Bounds().Dx(), "height", gray.Bounds().Dy())
		}
	}

	out, err := p.filter(gray)
	if err != nil {
		return nil, "", errors.Wrap(err, "filter failed")
	}
	defer p.pool.PutGray(out)

	if psnr, err := images.PSNR(gray, out); err == nil {
		p.prof.RecordMetric("psnr", psnr)
		p.logger.Debug("frame filtered", "psnr", psnr, "checksum", images.ComputeGrayChecksum(out))
	}

	var buf bytes.Buffer
	done = p.prof.StartOperation("encode")
	err = images.Encode(&buf, out, format, p.cfg.Output.Quality)
	done()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), format, nil
}

// processFile filters one file into outPath.
func (p *processor) processFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	format := p.cfg.Output.Format
	if format == "" {
		if f, err := images.FormatFromPath(outPath); err == nil {
			format = f
		}
	}

	out, _, err := p.process(data, format)
	if err != nil {
		return errors.Wrapf(err, "failed to process %s", inPath)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	p.logger.Info("wrote frame", "in", inPath, "out", outPath, "bytes", len(out))
	return nil
}

// processDir filters every image in dir into outDir, checking ctx between
// frames.
//
// Returns:
// - The number of frames written.
// - ctx.Err() if cancelled, or the first processing error.
func (p *processor) processDir(ctx context.Context, dir, outDir string) (int, error) {
	files, err := util.LoadDirectoryImageFiles(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to load directory: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		format := p.cfg.Output.Format
		if format == "" {
			format = file.Format
		}
		out, format, err := p.process(file.Data, format)
		if err != nil {
			return written, errors.Wrapf(err, "failed to process %s", file.Path)
		}

		base := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
		outPath := filepath.Join(outDir, base+format.Extension())
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return written, fmt.Errorf("failed to write output: %w", err)
		}
		written++
		p.logger.Debug("wrote frame", "frame", file.Frame, "out", outPath)
	}
	return written, nil
}
