package kernels

import (
	"github.com/chewxy/math32"
)

const (
	// kernelSizeScale maps a spatial sigma to a window wide enough to cover
	// roughly two standard deviations.
	kernelSizeScale = 1.95
	// MinKernelSize is the smallest window side the filter uses.
	MinKernelSize = 3
	// intensityLevels is the number of distinct 8-bit intensity differences.
	intensityLevels = 256
	// spatialLUTBaseLen is the initial spatial LUT length.
	spatialLUTBaseLen = 255
)

// CalculateKernelSize maps a spatial sigma to an odd kernel size.
// The result is floor(1.95*sigma), decremented when even, and never below
// MinKernelSize. It is monotonic non-decreasing in sigma.
//
// Arguments:
// - sigma: The spatial sigma.
//
// Returns:
// - The odd window side length.
//
// @example
// size := CalculateKernelSize(3) // 5
func CalculateKernelSize(sigma uint8) int {
	size := int(math32.Floor(kernelSizeScale * float32(sigma)))
	if size%2 == 0 {
		size--
	}
	return max(size, MinKernelSize)
}

// setKernelSize updates the kernel size and its half together.
// The spatial LUT is grown so the convolution can read size*size entries;
// grown slots start at zero and existing entries are kept.
func (f *BilateralFilter) setKernelSize(size int) {
	f.kernelSize = size
	f.halfKernelSize = size / 2

	if need := size * size; need > len(f.spatialLUT) {
		grown := make([]float32, need)
		copy(grown, f.spatialLUT)
		f.spatialLUT = grown
	}
}

// calculateIntensityLUT fills intensityLUT[0:255] with the Gaussian weight of
// each absolute intensity difference. The last entry is left as it was.
// A zero sigma is not guarded and produces NaN weights.
func (f *BilateralFilter) calculateIntensityLUT(sigma uint8) {
	s2 := float32(sigma) * float32(sigma)
	scale := 1 / (2 * math32.Pi * s2)
	denom := 2 * s2

	for d := 0; d < intensityLevels-1; d++ {
		x := float32(d)
		f.intensityLUT[d] = scale * math32.Exp(-(x*x)/denom)
	}
}

// calculateSpatialLUT fills the spatial LUT for offsets in [-h, h) on both
// axes, row-major, using the current half kernel size. That is (2h)^2
// entries, fewer than the kernelSize^2 the convolution reads; the tail is
// left untouched.
func (f *BilateralFilter) calculateSpatialLUT(sigma uint8) {
	s2 := float32(sigma) * float32(sigma)
	scale := 1 / (2 * math32.Pi * s2)
	denom := 2 * s2
	h := f.halfKernelSize

	k := 0
	for i := -h; i < h; i++ {
		for j := -h; j < h; j++ {
			d := math32.Hypot(float32(i), float32(j))
			f.spatialLUT[k] = scale * math32.Exp(-(d*d)/denom)
			k++
		}
	}
	f.spatialFilled = k
}
