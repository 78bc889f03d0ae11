package images

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultQuality is the lossy quality used when none is given.
const DefaultQuality = 90

// Decode decodes an encoded image of any supported format.
//
// Arguments:
// - data: The encoded bytes.
//
// Returns:
// - The decoded image.
// - The detected format.
// - error if the data is empty or cannot be decoded.
//
// @example
//
//	img, format, err := Decode(data)
//	if err != nil {
//	    return err
//	}
func Decode(data []byte) (image.Image, ImageFormat, error) {
	if len(data) == 0 {
		return nil, "", errors.New("empty image data")
	}

	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, ImageFormat(name), nil
}

// DecodeImage decodes an Image and fills in its format and dimensions.
//
// Arguments:
// - img: The encoded image; Format may be empty.
//
// Returns:
// - The decoded image.
// - error if validation or decoding fails.
func DecodeImage(img *Image) (image.Image, error) {
	if img == nil {
		return nil, errors.New("image is nil")
	}

	decoded, format, err := Decode(img.Data)
	if err != nil {
		return nil, errors.Wrap(err, "image decoding failed")
	}
	if img.Format != "" && img.Format != format {
		return nil, errors.Errorf("declared format %s does not match data format %s", img.Format, format)
	}

	img.Format = format
	img.Width = decoded.Bounds().Dx()
	img.Height = decoded.Bounds().Dy()
	return decoded, nil
}

// Encode writes img in the given format.
//
// Arguments:
// - w: Destination writer.
// - img: The image to encode.
// - format: The output format.
// - quality: Lossy quality 1-100 for JPEG and WebP; 0 selects DefaultQuality.
//   WebP at quality 100 is written lossless.
//
// Returns:
// - error if the format is unsupported or encoding fails.
//
// @example
// err := Encode(file, filtered, FormatPNG, 0)
func Encode(w io.Writer, img image.Image, format ImageFormat, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}
	quality = min(quality, 100)

	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatGIF:
		err = gif.Encode(w, img, nil)
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: quality == 100, Quality: float32(quality)})
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported image format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}
