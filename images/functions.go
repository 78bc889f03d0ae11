package images

import (
	"image"
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// ITU-R BT.709 luma coefficients.
const (
	redWeight   = 0.2126
	greenWeight = 0.7152
	blueWeight  = 0.0722
)

// ToGray converts an image to 8-bit grayscale using BT.709 luma weights.
// A *image.Gray source is copied. The result keeps the source bounds.
//
// Arguments:
// - img: The source image.
//
// Returns:
// - A new grayscale image.
//
// @example
// gray := ToGray(decoded)
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	dst := image.NewGray(bounds)

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			so := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			do := dst.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(dst.Pix[do:do+width], src.Pix[so:so+width])
		}
		return dst
	}

	Parallel(height, func(partStart, partEnd int) {
		for y := partStart; y < partEnd; y++ {
			srcY := bounds.Min.Y + y
			row := dst.PixOffset(bounds.Min.X, srcY)
			for x := 0; x < width; x++ {
				// RGBA() is 16-bit alpha-premultiplied.
				r, g, b, _ := img.At(bounds.Min.X+x, srcY).RGBA()
				luma := float64(r)*redWeight + float64(g)*greenWeight + float64(b)*blueWeight
				dst.Pix[row+x] = uint8(luma/257 + 0.5)
			}
		}
	})

	return dst
}

// GrayFromBytes wraps a row-major single-channel buffer as an image.
// The buffer is copied.
//
// Arguments:
// - width: Image width.
// - height: Image height.
// - pix: Exactly width*height bytes.
//
// Returns:
// - The grayscale image anchored at (0, 0).
// - error if the buffer length does not match.
func GrayFromBytes(width, height int, pix []byte) (*image.Gray, error) {
	if width < 0 || height < 0 {
		return nil, errors.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	if len(pix) != width*height {
		return nil, errors.Errorf("buffer holds %d bytes, want %d", len(pix), width*height)
	}
	img := image.NewGray(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return img, nil
}

// GrayBytes returns the pixels of img as a compact row-major buffer,
// dropping any stride padding.
func GrayBytes(img *image.Gray) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == w {
		return append([]byte(nil), img.Pix[:w*h]...)
	}
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w:(y+1)*w], img.Pix[off:off+w])
	}
	return out
}

// Parallel executes fn across partitions of [0, dataSize) on all CPUs.
// Small inputs run serially on the calling goroutine.
//
// Arguments:
// - dataSize: The number of items, typically rows.
// - fn: Called once per partition with [partStart, partEnd).
//
// @example
//
//	Parallel(height, func(start, end int) {
//	    for y := start; y < end; y++ {
//	        // Process row y
//	    }
//	})
func Parallel(dataSize int, fn func(partStart, partEnd int)) {
	numGoroutines := runtime.NumCPU()
	if dataSize < numGoroutines*2 {
		fn(0, dataSize)
		return
	}

	partSize := dataSize / numGoroutines

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		partStart := i * partSize
		partEnd := partStart + partSize
		// Last partition takes the remainder.
		if i == numGoroutines-1 {
			partEnd = dataSize
		}
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(partStart, partEnd)
	}
	wg.Wait()
}
