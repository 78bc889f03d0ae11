// Command webcam shows a live bilateral-filtered grayscale view of a
// capture device.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/images/cv"
	"github.com/nvr-ai/go-bilateral/images/kernels"
)

const keyEscape = 27

func main() {
	var (
		deviceID  = flag.Int("device", 0, "Video capture device")
		spatial   = flag.Uint("spatial", 3, "Spatial sigma (0-255)")
		intensity = flag.Uint("intensity", 20, "Intensity sigma (0-255)")
		fit       = flag.String("fit", "360p", "Downscale frames into a resolution before filtering")
	)
	flag.Parse()

	if *spatial > 255 || *intensity > 255 {
		log.Fatal("Sigmas must be in [0, 255]")
	}
	res, err := images.ParseResolution(*fit)
	if err != nil {
		log.Fatalf("Invalid fit: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	webcam, err := gocv.OpenVideoCapture(*deviceID)
	if err != nil {
		log.Fatalf("Failed to open device %d: %v", *deviceID, err)
	}
	defer webcam.Close()

	window := gocv.NewWindow("Bilateral")
	defer window.Close()

	img := gocv.NewMat()
	defer img.Close()

	pool := &kernels.Pool{}
	opt := kernels.Options{
		SpatialSigma:   uint8(*spatial),
		IntensitySigma: uint8(*intensity),
		Parallel:       true,
		Pool:           pool,
		KeepBorder:     true,
	}

	// FPS tracking variables
	fps := 0.0
	frameCount := 0
	lastTime := time.Now()

	slog.Info("start reading camera device", "device", *deviceID, "fit", res.String())
	for ctx.Err() == nil {
		if ok := webcam.Read(&img); !ok {
			slog.Error("cannot read device", "device", *deviceID)
			return
		}
		if img.Empty() {
			continue
		}

		gray, err := cv.MatToGray(img)
		if err != nil {
			slog.Error("frame conversion failed", "error", err)
			continue
		}
		gray, _ = images.FitGray(gray, res)

		filtered, err := kernels.FilterGray(gray, opt)
		if err != nil {
			log.Fatalf("Filter failed: %v", err)
		}
		view, err := cv.GrayToMat(filtered)
		pool.PutGray(filtered)
		if err != nil {
			slog.Error("display conversion failed", "error", err)
			continue
		}

		frameCount++
		if elapsed := time.Since(lastTime).Seconds(); elapsed >= 1.0 {
			fps = float64(frameCount) / elapsed
			frameCount = 0
			lastTime = time.Now()
			slog.Info("filtering", "fps", fps)
		}

		window.IMShow(view)
		view.Close()
		if window.WaitKey(1) == keyEscape {
			return
		}
	}
}
