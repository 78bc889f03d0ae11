package images

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// MeanSquaredError returns the mean squared pixel difference of two
// grayscale images of the same size. Bounds offsets are ignored.
//
// Arguments:
// - a: The reference image.
// - b: The compared image.
//
// Returns:
// - The MSE in squared 8-bit units.
// - error if the sizes differ or the images are empty.
func MeanSquaredError(a, b *image.Gray) (float64, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, errors.Errorf("image size mismatch: %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}
	if ab.Empty() {
		return 0, errors.New("empty image")
	}

	w, h := ab.Dx(), ab.Dy()
	sq := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		ao := a.PixOffset(ab.Min.X, ab.Min.Y+y)
		bo := b.PixOffset(bb.Min.X, bb.Min.Y+y)
		for x := 0; x < w; x++ {
			d := float64(a.Pix[ao+x]) - float64(b.Pix[bo+x])
			sq = append(sq, d*d)
		}
	}
	return stat.Mean(sq, nil), nil
}

// PSNR returns the peak signal-to-noise ratio in dB between two grayscale
// images. Identical images give +Inf.
//
// @example
//
//	psnr, err := PSNR(original, filtered)
//	if err == nil && psnr < 30 {
//	    // heavy smoothing
//	}
func PSNR(a, b *image.Gray) (float64, error) {
	mse, err := MeanSquaredError(a, b)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(255*255/mse), nil
}
