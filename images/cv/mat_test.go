package cv

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/images/kernels"
)

func testGray(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 31 % 256)
	}
	return img
}

func TestGrayMatRoundTrip(t *testing.T) {
	src := testGray(20, 12)

	mat, err := GrayToMat(src)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 12, mat.Rows())
	assert.Equal(t, 20, mat.Cols())
	assert.Equal(t, 1, mat.Channels())

	back, err := MatToGray(mat)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, back.Pix)
}

func TestMatToGrayFromBGR(t *testing.T) {
	bgr := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	defer bgr.Close()
	bgr.SetTo(gocv.NewScalar(100, 100, 100, 0))

	gray, err := MatToGray(bgr)
	require.NoError(t, err)
	for _, v := range gray.Pix {
		assert.Equal(t, uint8(100), v)
	}
}

func TestMatToGrayEmpty(t *testing.T) {
	mat := gocv.NewMat()
	defer mat.Close()

	_, err := MatToGray(mat)
	assert.Error(t, err)

	_, err = GrayToMat(image.NewGray(image.Rect(0, 0, 0, 0)))
	assert.Error(t, err)
}

func TestComputeMatChecksum(t *testing.T) {
	src := testGray(8, 8)
	mat, err := GrayToMat(src)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, images.ComputeChecksum(src.Pix), ComputeMatChecksum(mat))

	empty := gocv.NewMat()
	defer empty.Close()
	assert.Equal(t, "empty", ComputeMatChecksum(empty))
}

func TestReferenceBilateralUniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range src.Pix {
		src.Pix[i] = 77
	}

	ref, err := ReferenceBilateral(src, 3, 20)
	require.NoError(t, err)
	for _, v := range ref.Pix {
		assert.Equal(t, uint8(77), v)
	}
}

func TestReferenceBilateralCloseToLUT(t *testing.T) {
	src := testGray(32, 32)
	for i := range src.Pix {
		src.Pix[i] = uint8(100 + i%7)
	}

	ref, err := ReferenceBilateral(src, 3, 20)
	require.NoError(t, err)
	lut, err := kernels.FilterGray(src, kernels.Options{SpatialSigma: 3, IntensitySigma: 20, KeepBorder: true})
	require.NoError(t, err)

	h := kernels.CalculateKernelSize(3) / 2
	inner := image.Rect(h, h, 32-h, 32-h)
	psnr, err := images.PSNR(ref.SubImage(inner).(*image.Gray), lut.SubImage(inner).(*image.Gray))
	require.NoError(t, err)
	assert.Greater(t, psnr, 30.0)
}
