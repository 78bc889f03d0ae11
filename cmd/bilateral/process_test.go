package main

import (
	"bytes"
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-bilateral/config"
	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/profiler"
)

func testProcessor(t *testing.T, cfg config.Config) (*processor, *profiler.Profiler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	prof := profiler.New(profiler.Options{Logger: logger})
	p, err := newProcessor(cfg, prof, logger)
	require.NoError(t, err)
	return p, prof
}

func encodedFrame(t *testing.T, w, h int, format images.ImageFormat) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}
	var buf bytes.Buffer
	require.NoError(t, images.Encode(&buf, img, format, 100))
	return buf.Bytes()
}

func TestProcessEngines(t *testing.T) {
	for _, engine := range []config.Engine{config.EngineLUT, config.EngineBox, config.EngineOpenCV} {
		t.Run(string(engine), func(t *testing.T) {
			cfg := config.Default()
			cfg.Engine = engine
			p, prof := testProcessor(t, cfg)

			out, format, err := p.process(encodedFrame(t, 24, 16, images.FormatPNG), "")
			require.NoError(t, err)
			assert.Equal(t, images.FormatPNG, format, "input format is kept")

			decoded, _, err := images.Decode(out)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 24, 16), decoded.Bounds())

			_, ok := prof.Operation("filter." + string(engine))
			assert.True(t, ok)
		})
	}
}

func TestProcessFormatAndFit(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Fit = "32x32"
	p, prof := testProcessor(t, cfg)

	out, format, err := p.process(encodedFrame(t, 64, 48, images.FormatBMP), images.FormatTIFF)
	require.NoError(t, err)
	assert.Equal(t, images.FormatTIFF, format)

	decoded, detected, err := images.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, images.FormatTIFF, detected)
	assert.Equal(t, 32, decoded.Bounds().Dx())
	assert.Equal(t, 24, decoded.Bounds().Dy())

	psnr, ok := prof.Metric("psnr")
	require.True(t, ok)
	assert.Equal(t, int64(1), psnr.Count)
}

func TestProcessInvalidInput(t *testing.T) {
	p, _ := testProcessor(t, config.Default())
	_, _, err := p.process([]byte("garbage"), "")
	assert.Error(t, err)
}

func TestNewProcessorInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Fit = "nope"
	_, err := newProcessor(cfg, profiler.New(profiler.Options{}), slog.Default())
	assert.Error(t, err)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.webp")
	require.NoError(t, os.WriteFile(in, encodedFrame(t, 16, 16, images.FormatPNG), 0o644))

	p, _ := testProcessor(t, config.Default())
	require.NoError(t, p.processFile(in, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, detected, err := images.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, images.FormatWebP, detected, "format follows the output extension")

	assert.Error(t, p.processFile(filepath.Join(dir, "missing.png"), out))
}

func TestProcessDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "filtered")
	for _, name := range []string{"frame-1.png", "frame-2.png", "frame-3.bmp"} {
		format, err := images.FormatFromPath(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(in, name), encodedFrame(t, 12, 12, format), 0o644))
	}

	p, _ := testProcessor(t, config.Default())
	n, err := p.processDir(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.FileExists(t, filepath.Join(out, "frame-1.png"))
	assert.FileExists(t, filepath.Join(out, "frame-3.bmp"))
}

func TestProcessDirCancelled(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "frame-1.png"), encodedFrame(t, 8, 8, images.FormatPNG), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, _ := testProcessor(t, config.Default())
	n, err := p.processDir(ctx, in, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}
