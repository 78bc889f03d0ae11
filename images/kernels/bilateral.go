package kernels

import (
	"github.com/pkg/errors"
)

// BilateralFilter is an edge-preserving smoother for single-channel 8-bit
// images. Each interior output pixel is the average of its neighbourhood
// weighted by two precomputed Gaussian tables: one over spatial offset and
// one over absolute intensity difference.
//
// An instance owns its input and output buffers. Write pixels into Input,
// call Configure at least once, then Execute and read Output. The type is not
// safe for concurrent use.
//
// Border policy: pixels closer than HalfKernelSize to any edge are never
// written by Execute and keep whatever Output held before the call.
type BilateralFilter struct {
	kernelSize     int
	halfKernelSize int

	intensityLUT  [intensityLevels]float32
	spatialLUT    []float32
	spatialFilled int

	width  int
	height int
	input  []byte
	output []byte

	parallel bool
}

// NewBilateralFilter creates a filter for width x height images with
// zero-filled buffers, a 3x3 kernel and zero-filled lookup tables.
//
// Arguments:
// - width: Image width in pixels.
// - height: Image height in pixels.
//
// Returns:
// - The filter instance.
// - ErrInvalidDimensions if either dimension is negative.
//
// @example
//
//	f, err := NewBilateralFilter(640, 480)
//	if err != nil {
//	    return err
//	}
//	copy(f.Input(), gray.Pix)
//	f.Configure(3, 20)
//	f.Execute()
func NewBilateralFilter(width, height int) (*BilateralFilter, error) {
	if width < 0 || height < 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", width, height)
	}

	f := &BilateralFilter{
		spatialLUT: make([]float32, spatialLUTBaseLen),
		width:      width,
		height:     height,
		input:      make([]byte, width*height),
		output:     make([]byte, width*height),
	}
	f.setKernelSize(MinKernelSize)

	return f, nil
}

// Configure derives the kernel size from the spatial sigma and rebuilds both
// lookup tables. It never fails: a zero sigma yields NaN weights, which
// Execute turns into zero-valued pixels. Use ValidateSigma to reject that.
//
// Arguments:
// - spatial: The spatial sigma, controlling window size and distance falloff.
// - intensity: The intensity sigma, controlling how fast dissimilar pixels lose weight.
func (f *BilateralFilter) Configure(spatial, intensity uint8) {
	f.setKernelSize(CalculateKernelSize(spatial))
	f.calculateIntensityLUT(intensity)
	f.calculateSpatialLUT(spatial)

	Logger().Debug("bilateral filter configured",
		"spatial_sigma", spatial,
		"intensity_sigma", intensity,
		"kernel_size", f.kernelSize,
		"half_kernel_size", f.halfKernelSize,
		"spatial_lut_filled", f.spatialFilled,
		"window_reads", f.WindowReads(),
	)
}

// SetParallel enables splitting the interior rows across goroutines.
// Output is identical to the serial path.
func (f *BilateralFilter) SetParallel(enabled bool) {
	f.parallel = enabled
}

// Input returns the input buffer, row-major, one byte per pixel. The slice
// aliases the filter's storage; writes are seen by the next Execute.
func (f *BilateralFilter) Input() []byte { return f.input }

// Output returns the output buffer. The slice aliases the filter's storage.
func (f *BilateralFilter) Output() []byte { return f.output }

// SetInput copies pix into the input buffer.
//
// Arguments:
// - pix: Row-major pixels, exactly Width()*Height() bytes.
//
// Returns:
// - ErrBufferSize if the length does not match.
func (f *BilateralFilter) SetInput(pix []byte) error {
	if len(pix) != len(f.input) {
		return errors.Wrapf(ErrBufferSize, "got %d bytes, want %d", len(pix), len(f.input))
	}
	copy(f.input, pix)
	return nil
}

// Width returns the image width.
func (f *BilateralFilter) Width() int { return f.width }

// Height returns the image height.
func (f *BilateralFilter) Height() int { return f.height }

// KernelSize returns the current odd window side.
func (f *BilateralFilter) KernelSize() int { return f.kernelSize }

// HalfKernelSize returns KernelSize()/2, the width of the unprocessed border.
func (f *BilateralFilter) HalfKernelSize() int { return f.halfKernelSize }

// IntensityLUT returns a copy of the intensity weights.
func (f *BilateralFilter) IntensityLUT() [intensityLevels]float32 { return f.intensityLUT }

// SpatialLUT returns a copy of the whole spatial table, filled prefix and tail.
func (f *BilateralFilter) SpatialLUT() []float32 {
	out := make([]float32, len(f.spatialLUT))
	copy(out, f.spatialLUT)
	return out
}

// SpatialLUTFilled returns how many spatial entries the last rebuild wrote,
// (2*HalfKernelSize())^2, or zero before the first Configure.
func (f *BilateralFilter) SpatialLUTFilled() int { return f.spatialFilled }

// WindowReads returns how many spatial entries one interior pixel consumes,
// KernelSize()^2. It exceeds SpatialLUTFilled for every odd kernel.
func (f *BilateralFilter) WindowReads() int { return f.kernelSize * f.kernelSize }
