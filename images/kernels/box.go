package kernels

import (
	"image"
	"sync"
)

// EdgeMode defines how sampling behaves outside the image bounds.
// - Clamp: repeats edge pixels.
// - Mirror: reflects coordinates without duplicating the edge.
// - Wrap: tiles the image.
type EdgeMode int

const (
	EdgeClamp EdgeMode = iota
	EdgeMirror
	EdgeWrap
)

// BoxBlurGray applies a separable box blur to a grayscale image.
// It is the plain-smoothing baseline the bilateral filter is compared
// against: it averages across edges instead of stopping at them.
//
// Each pass slides a window of 2*radius+1 samples so the cost per pixel is
// O(1) regardless of radius. A radius <= 0 returns a copy.
//
// Arguments:
// - src: The source image.
// - radius: Half window width.
// - edge: Sampling mode outside the bounds.
// - parallel: Split rows and columns across goroutines.
//
// Returns:
// - A new image with the same bounds.
func BoxBlurGray(src *image.Gray, radius int, edge EdgeMode, parallel bool) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	w, h := b.Dx(), b.Dy()

	if radius <= 0 || w == 0 || h == 0 {
		for y := 0; y < h; y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			do := dst.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[do:do+w], src.Pix[so:so+w])
		}
		return dst
	}

	tmp := image.NewGray(b)
	window := uint32(2*radius + 1)

	// Horizontal pass: src -> tmp.
	forEach(h, parallel, func(y int) {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		do := tmp.PixOffset(b.Min.X, b.Min.Y+y)
		row := src.Pix[so : so+w]

		var sum uint32
		for dx := -radius; dx <= radius; dx++ {
			sum += uint32(row[mapCoord(dx, w, edge)])
		}
		for x := 0; x < w; x++ {
			tmp.Pix[do+x] = uint8((sum + window/2) / window)
			sum += uint32(row[mapCoord(x+radius+1, w, edge)])
			sum -= uint32(row[mapCoord(x-radius, w, edge)])
		}
	})

	// Vertical pass: tmp -> dst.
	forEach(w, parallel, func(x int) {
		at := func(y int) uint32 {
			return uint32(tmp.Pix[tmp.PixOffset(b.Min.X+x, b.Min.Y+mapCoord(y, h, edge))])
		}

		var sum uint32
		for dy := -radius; dy <= radius; dy++ {
			sum += at(dy)
		}
		for y := 0; y < h; y++ {
			dst.Pix[dst.PixOffset(b.Min.X+x, b.Min.Y+y)] = uint8((sum + window/2) / window)
			sum += at(y + radius + 1)
			sum -= at(y - radius)
		}
	})

	return dst
}

// forEach runs task for every index in [0, n), in row chunks when parallel.
func forEach(n int, parallel bool, task func(i int)) {
	if !parallel || n < 4 {
		for i := 0; i < n; i++ {
			task(i)
		}
		return
	}

	chunk := chooseChunk(n)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				task(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// mapCoord maps an index i to [0, n) according to edge mode.
// Mirror reflects ... -2,-1,0,1,2 ... to ... 1,0,0,1,2 ...
func mapCoord(i, n int, mode EdgeMode) int {
	switch mode {
	case EdgeMirror:
		if n == 1 {
			return 0
		}
		for i < 0 || i >= n {
			if i < 0 {
				i = -i - 1
			} else {
				i = 2*n - i - 1
			}
		}
		return i
	case EdgeWrap:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default:
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}
