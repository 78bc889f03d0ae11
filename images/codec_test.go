package images

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a deterministic grayscale test frame.
func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8((x*7 + y*13) % 256)
		}
	}
	return img
}

func TestEncodeDecodeLossless(t *testing.T) {
	src := gradient(32, 24)

	for _, format := range []ImageFormat{FormatPNG, FormatBMP, FormatTIFF, FormatWebP} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			// Quality 100 selects lossless WebP; other formats ignore it.
			require.NoError(t, Encode(&buf, src, format, 100))

			decoded, detected, err := Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, format, detected)
			assert.Equal(t, src.Bounds(), decoded.Bounds())
			assert.Equal(t, src.Pix, ToGray(decoded).Pix)
		})
	}
}

func TestEncodeDecodeLossy(t *testing.T) {
	src := gradient(32, 24)

	for _, format := range []ImageFormat{FormatJPEG, FormatGIF} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, format, 0))

			decoded, detected, err := Decode(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, format, detected)
			assert.Equal(t, 32, decoded.Bounds().Dx())
			assert.Equal(t, 24, decoded.Bounds().Dy())
		})
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, gradient(4, 4), ImageFormat("xpm"), 0)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestDecodeErrors(t *testing.T) {
	_, _, err := Decode(nil)
	assert.Error(t, err, "empty data should fail")

	_, _, err = Decode([]byte("not an image"))
	assert.Error(t, err, "garbage should fail")
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, gradient(10, 6), FormatPNG, 0))

	img := &Image{Data: buf.Bytes()}
	decoded, err := DecodeImage(img)
	require.NoError(t, err)
	assert.NotNil(t, decoded)
	assert.Equal(t, FormatPNG, img.Format)
	assert.Equal(t, 10, img.Width)
	assert.Equal(t, 6, img.Height)

	_, err = DecodeImage(&Image{Format: FormatJPEG, Data: buf.Bytes()})
	assert.Error(t, err, "declared format must match the data")

	_, err = DecodeImage(nil)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ImageFormat
	}{
		{"a.jpg", FormatJPEG},
		{"a.JPEG", FormatJPEG},
		{"dir/b.png", FormatPNG},
		{"c.webp", FormatWebP},
		{"d.tif", FormatTIFF},
		{"e.tiff", FormatTIFF},
		{"f.bmp", FormatBMP},
		{"g.gif", FormatGIF},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("notes.txt")
	assert.Error(t, err)
}

func TestImageFormatExtension(t *testing.T) {
	assert.Equal(t, ".jpg", FormatJPEG.Extension())
	assert.Equal(t, ".tif", FormatTIFF.Extension())
	assert.Equal(t, ".webp", FormatWebP.Extension())
	assert.True(t, FormatBMP.Valid())
	assert.False(t, ImageFormat("raw").Valid())
}

func TestToGrayFromColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{G: 255, A: 255})
	img.Set(2, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := ToGray(img)
	// BT.709: 0.2126*255 = 54.2, 0.7152*255 = 182.4
	assert.Equal(t, []uint8{54, 182, 255}, gray.Pix)
}

func TestToGrayCopiesGray(t *testing.T) {
	src := gradient(8, 8)
	dst := ToGray(src)
	assert.Equal(t, src.Pix, dst.Pix)

	dst.Pix[0] = 99
	assert.NotEqual(t, src.Pix[0], dst.Pix[0], "ToGray must not alias the source")
}

func TestGrayFromBytes(t *testing.T) {
	img, err := GrayFromBytes(3, 2, []byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, uint8(6), img.GrayAt(2, 1).Y)

	_, err = GrayFromBytes(3, 2, []byte{1, 2, 3})
	assert.Error(t, err)

	_, err = GrayFromBytes(-1, 2, nil)
	assert.Error(t, err)
}

func TestGrayBytesDropsStride(t *testing.T) {
	src := gradient(10, 10)
	sub := src.SubImage(image.Rect(2, 3, 6, 5)).(*image.Gray)

	pix := GrayBytes(sub)
	require.Len(t, pix, 8)
	assert.Equal(t, src.GrayAt(2, 3).Y, pix[0])
	assert.Equal(t, src.GrayAt(5, 4).Y, pix[7])
}

func TestParallelCoversRange(t *testing.T) {
	seen := make([]int, 1000)
	Parallel(len(seen), func(start, end int) {
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	for i, n := range seen {
		assert.Equal(t, 1, n, "index %d", i)
	}
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "empty", ComputeChecksum(nil))
	a := ComputeChecksum([]byte{1, 2, 3})
	assert.Len(t, a, 32)
	assert.Equal(t, a, ComputeChecksum([]byte{1, 2, 3}))
	assert.NotEqual(t, a, ComputeChecksum([]byte{1, 2, 4}))

	src := gradient(10, 10)
	sub := src.SubImage(image.Rect(0, 0, 4, 4)).(*image.Gray)
	assert.Equal(t, ComputeChecksum(GrayBytes(sub)), ComputeGrayChecksum(sub))
}
