package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ResizeGray resizes a grayscale image to exactly width x height with
// Lanczos3 resampling.
//
// Arguments:
//   - img: The image to resize.
//   - width: The target width.
//   - height: The target height.
//
// Returns:
//   - *image.Gray: The resized image anchored at (0, 0).
//   - error: An error if the dimensions are not positive.
func ResizeGray(img *image.Gray, width, height int) (*image.Gray, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	return asGray(resize.Resize(uint(width), uint(height), img, resize.Lanczos3)), nil
}

// FitGray downscales img so it fits inside res, keeping the aspect ratio.
// Images that already fit are returned unchanged.
//
// Arguments:
//   - img: The image to fit.
//   - res: The bounding resolution.
//
// Returns:
//   - *image.Gray: The fitted image.
//   - bool: True if the image was resized.
func FitGray(img *image.Gray, res Resolution) (*image.Gray, bool) {
	b := img.Bounds()
	if b.Dx() <= res.Pixels.Width && b.Dy() <= res.Pixels.Height {
		return img, false
	}
	thumb := resize.Thumbnail(uint(res.Pixels.Width), uint(res.Pixels.Height), img, resize.Lanczos3)
	return asGray(thumb), true
}

// asGray avoids a conversion when the resizer already produced gray output.
func asGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	return ToGray(img)
}
