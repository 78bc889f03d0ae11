package kernels

import (
	"math"
	"sync"

	"github.com/chewxy/math32"
)

// Execute filters the input buffer into the output buffer using the kernel
// and lookup tables from the last Configure.
//
// Only pixels whose row and column lie in [h, dim-h) are written, where h is
// HalfKernelSize. Images too small to have an interior are left untouched.
func (f *BilateralFilter) Execute() {
	h := f.halfKernelSize
	endRow := f.height - h
	endCol := f.width - h
	if endRow <= h || endCol <= h {
		Logger().Debug("bilateral filter has no interior",
			"width", f.width, "height", f.height, "half_kernel_size", h)
		return
	}

	rowTask := func(y int) {
		rowStart := y * f.width
		// Top-left of the window for column x is topLeft + x.
		topLeft := rowStart - h*f.width - h
		for x := h; x < endCol; x++ {
			p := rowStart + x
			f.output[p] = f.kernel(topLeft+x, f.input[p])
		}
	}

	rows := endRow - h
	if !f.parallel || rows < 4 {
		for y := h; y < endRow; y++ {
			rowTask(y)
		}
		Logger().Debug("bilateral filter executed",
			"width", f.width, "height", f.height, "interior_rows", rows, "chunks", 1)
		return
	}

	chunk := chooseChunk(rows)
	chunks := 0
	var wg sync.WaitGroup
	for start := h; start < endRow; start += chunk {
		end := min(start+chunk, endRow)
		chunks++
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for y := s; y < e; y++ {
				rowTask(y)
			}
		}(start, end)
	}
	wg.Wait()

	Logger().Debug("bilateral filter executed",
		"width", f.width, "height", f.height, "interior_rows", rows, "chunks", chunks)
}

// kernel computes one output pixel. start is the linear index of the
// window's top-left corner and center the intensity of the pixel being
// replaced. The window is scanned row-major with one spatial LUT index per
// cell, k = row*kernelSize + col, matching the order the LUT was filled in.
func (f *BilateralFilter) kernel(start int, center uint8) uint8 {
	var sum, norm float32
	k := 0
	for i := 0; i < f.kernelSize; i++ {
		row := f.input[start : start+f.kernelSize]
		for _, n := range row {
			w := f.spatialLUT[k] * f.intensityLUT[absDiff(n, center)]
			sum += w * float32(n)
			norm += w
			k++
		}
		start += f.width
	}
	return toPixel(sum / norm)
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// toPixel rounds half away from zero and saturates to [0, 255]. NaN, from a
// zero sigma or an all-zero weight sum, maps to 0.
func toPixel(v float32) uint8 {
	switch {
	case math32.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(float64(v)))
}

// chooseChunk picks a row chunk size that balances goroutine overhead and
// cache locality.
func chooseChunk(n int) int {
	switch {
	case n >= 2048:
		return 128
	case n >= 512:
		return 64
	default:
		return 32
	}
}
