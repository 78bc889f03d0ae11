// Package cv bridges grayscale frames to OpenCV Mats and runs OpenCV's
// bilateral filter as a reference for the lookup-table filter.
package cv

import (
	"crypto/md5"
	"fmt"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-bilateral/images"
	"github.com/nvr-ai/go-bilateral/images/kernels"
)

// GrayToMat copies a grayscale image into a new single-channel Mat.
// The caller must Close the Mat.
func GrayToMat(img *image.Gray) (gocv.Mat, error) {
	b := img.Bounds()
	if b.Empty() {
		return gocv.NewMat(), errors.New("empty image")
	}
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, images.GrayBytes(img))
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	return mat, nil
}

// MatToGray copies a Mat into a grayscale image. Three and four channel
// Mats are treated as BGR and BGRA and converted first.
//
// Arguments:
// - mat: An 8-bit Mat with 1, 3 or 4 channels.
//
// Returns:
// - The grayscale image anchored at (0, 0).
// - error if the Mat is empty or has an unsupported layout.
func MatToGray(mat gocv.Mat) (*image.Gray, error) {
	if mat.Empty() {
		return nil, errors.New("mat is empty")
	}

	src := mat
	switch mat.Channels() {
	case 1:
	case 3, 4:
		gray := gocv.NewMat()
		defer gray.Close()
		code := gocv.ColorBGRToGray
		if mat.Channels() == 4 {
			code = gocv.ColorBGRAToGray
		}
		gocv.CvtColor(mat, &gray, code)
		src = gray
	default:
		return nil, errors.Errorf("unsupported channel count %d", mat.Channels())
	}

	return images.GrayFromBytes(src.Cols(), src.Rows(), src.ToBytes())
}

// ComputeMatChecksum generates a deterministic checksum for a Mat to verify idempotency.
//
// Arguments:
// - mat: The Mat to compute checksum for.
//
// Returns:
// - A hex-encoded MD5 checksum string.
//
// Example:
//
// ```go
//
//	checksum := ComputeMatChecksum(frame)
//	fmt.Printf("Frame checksum: %s\n", checksum)
//
// ```
func ComputeMatChecksum(mat gocv.Mat) string {
	if mat.Empty() {
		return "empty"
	}

	data, _ := mat.DataPtrUint8()
	hash := md5.New()
	hash.Write(data)
	return fmt.Sprintf("%x", hash.Sum(nil))
}

// ReferenceBilateral filters img with OpenCV using the same kernel size
// mapping as the lookup-table filter. OpenCV replicates borders, so border
// pixels differ from the lookup-table output.
//
// @example
//
//	ref, err := cv.ReferenceBilateral(gray, 3, 20)
//	psnr, _ := images.PSNR(ref, lutOutput)
func ReferenceBilateral(img *image.Gray, spatial, intensity uint8) (*image.Gray, error) {
	src, err := GrayToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	diameter := kernels.CalculateKernelSize(spatial)
	gocv.BilateralFilter(src, &dst, diameter, float64(intensity), float64(spatial))

	out, err := MatToGray(dst)
	if err != nil {
		return nil, errors.Wrap(err, "reference bilateral failed")
	}
	return out, nil
}
