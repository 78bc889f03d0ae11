package kernels

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterGrayNilSource(t *testing.T) {
	_, err := FilterGray(nil, Options{SpatialSigma: 3, IntensitySigma: 3})
	require.Error(t, err)
}

func TestFilterGrayStrictRejectsZeroSigma(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))

	_, err := FilterGray(img, Options{SpatialSigma: 3, IntensitySigma: 0, Strict: true})
	require.ErrorIs(t, err, ErrInvalidSigma)

	_, err = FilterGray(img, Options{SpatialSigma: 0, IntensitySigma: 3, Strict: true})
	require.ErrorIs(t, err, ErrInvalidSigma)

	_, err = FilterGray(img, Options{SpatialSigma: 0, IntensitySigma: 0})
	require.NoError(t, err, "non-strict mode stays permissive")
}

func TestValidateSigma(t *testing.T) {
	assert.NoError(t, ValidateSigma(1, 1))
	assert.ErrorIs(t, ValidateSigma(0, 1), ErrInvalidSigma)
	assert.ErrorIs(t, ValidateSigma(1, 0), ErrInvalidSigma)
}

func TestFilterGrayMatchesFilterInstance(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, imageWidth, imageHeight))
	copy(img.Pix, dataset)

	out, err := FilterGray(img, Options{SpatialSigma: 1, IntensitySigma: 40})
	require.NoError(t, err)

	f := newTestFilter(t)
	require.NoError(t, f.SetInput(dataset))
	f.Configure(1, 40)
	f.Execute()

	assert.Equal(t, f.Output(), out.Pix)
}

func TestFilterGrayKeepBorder(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, imageWidth, imageHeight))
	copy(img.Pix, dataset)

	out, err := FilterGray(img, Options{SpatialSigma: 3, IntensitySigma: 20, KeepBorder: true})
	require.NoError(t, err)

	// Kernel 5 leaves a border of 2 on a 6x6 image: everything except (2..3, 2..3).
	for y := 0; y < imageHeight; y++ {
		for x := 0; x < imageWidth; x++ {
			if x >= 2 && x < 4 && y >= 2 && y < 4 {
				continue
			}
			assert.Equal(t, img.GrayAt(x, y), out.GrayAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFilterGraySubImage(t *testing.T) {
	full := image.NewGray(image.Rect(0, 0, 20, 20))
	copy(full.Pix, randomPixels(len(full.Pix), 9))
	sub := full.SubImage(image.Rect(4, 3, 14, 15)).(*image.Gray)

	compact := image.NewGray(image.Rect(0, 0, 10, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 10; x++ {
			compact.SetGray(x, y, sub.GrayAt(4+x, 3+y))
		}
	}

	opt := Options{SpatialSigma: 2, IntensitySigma: 25}
	fromSub, err := FilterGray(sub, opt)
	require.NoError(t, err)
	fromCompact, err := FilterGray(compact, opt)
	require.NoError(t, err)

	require.Equal(t, sub.Bounds(), fromSub.Bounds())
	for y := 0; y < 12; y++ {
		for x := 0; x < 10; x++ {
			require.Equal(t, fromCompact.GrayAt(x, y), fromSub.GrayAt(4+x, 3+y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFilterGrayPool(t *testing.T) {
	pool := &Pool{}
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	copy(img.Pix, randomPixels(len(img.Pix), 21))
	opt := Options{SpatialSigma: 2, IntensitySigma: 30, Pool: pool, Parallel: true}

	first, err := FilterGray(img, opt)
	require.NoError(t, err)
	want := append([]byte(nil), first.Pix...)
	pool.PutGray(first)

	second, err := FilterGray(img, opt)
	require.NoError(t, err)
	assert.Equal(t, want, second.Pix)

	var nilPool *Pool
	assert.Equal(t, img.Rect, nilPool.GetGray(img.Rect).Rect)
	nilPool.PutGray(second)
}
