package kernels

import (
	"image"

	"github.com/pkg/errors"
)

// FilterGray runs the bilateral filter over a grayscale image.
//
// The source is copied row by row (stride and non-zero bounds are
// respected), filtered by a fresh BilateralFilter and returned in a buffer
// from opt.Pool. Border pixels are zero unless opt.KeepBorder is set, in
// which case they carry the source values.
//
// Arguments:
// - src: The image to smooth.
// - opt: Sigmas and execution options.
//
// Returns:
// - The filtered image with the same bounds as src.
// - ErrInvalidSigma when opt.Strict is set and a sigma is zero.
//
// @example
//
//	out, err := FilterGray(gray, Options{SpatialSigma: 3, IntensitySigma: 20, KeepBorder: true})
//	if err != nil {
//	    return err
//	}
func FilterGray(src *image.Gray, opt Options) (*image.Gray, error) {
	if src == nil {
		return nil, errors.New("source image is nil")
	}
	if opt.Strict {
		if err := ValidateSigma(opt.SpatialSigma, opt.IntensitySigma); err != nil {
			return nil, errors.Wrap(err, "invalid filter options")
		}
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	f, err := NewBilateralFilter(w, h)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filter")
	}

	for y := 0; y < h; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(f.input[y*w:(y+1)*w], src.Pix[off:off+w])
	}

	if opt.KeepBorder {
		copy(f.output, f.input)
	}

	f.SetParallel(opt.Parallel)
	f.Configure(opt.SpatialSigma, opt.IntensitySigma)
	if f.halfKernelSize*2 >= w || f.halfKernelSize*2 >= h {
		Logger().Warn("image smaller than kernel window, output is border only",
			"width", w, "height", h, "kernel_size", f.kernelSize)
	}
	f.Execute()

	dst := opt.Pool.GetGray(b)
	for y := 0; y < h; y++ {
		off := dst.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[off:off+w], f.output[y*w:(y+1)*w])
	}
	return dst, nil
}
