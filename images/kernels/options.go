package kernels

import (
	"image"
	"sync"
)

// Options configures FilterGray.
type Options struct {
	SpatialSigma   uint8 // Window size and distance falloff. Kernel side is CalculateKernelSize(SpatialSigma).
	IntensitySigma uint8 // Intensity falloff; small values preserve more edges.
	Parallel       bool  // Split interior rows across goroutines (good for 720p+).
	Pool           *Pool // Optional destination buffer pool.
	Strict         bool  // Reject zero sigmas with ErrInvalidSigma instead of emitting zero pixels.
	KeepBorder     bool  // Copy source pixels into the unprocessed border instead of leaving zeros.
}

// Pool lets callers reuse grayscale frame buffers across calls.
type Pool struct {
	gray sync.Pool // *image.Gray
}

// GetGray returns a buffer with the given bounds. Contents are unspecified
// when the buffer is reused; callers overwrite every pixel.
func (p *Pool) GetGray(bounds image.Rectangle) *image.Gray {
	if p == nil {
		return image.NewGray(bounds)
	}
	if v := p.gray.Get(); v != nil {
		img := v.(*image.Gray)
		if img.Rect == bounds {
			return img
		}
	}
	return image.NewGray(bounds)
}

// PutGray hands a buffer back for reuse. Nil pools and images are ignored.
func (p *Pool) PutGray(img *image.Gray) {
	if p == nil || img == nil {
		return
	}
	p.gray.Put(img)
}
