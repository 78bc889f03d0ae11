package images

import (
	"crypto/md5"
	"fmt"
	"image"
)

// ComputeChecksum generates a deterministic checksum for a pixel buffer, used
// to verify that repeated filter runs are idempotent.
//
// Arguments:
// - pix: The pixel bytes.
//
// Returns:
// - A hex-encoded MD5 checksum string, or "empty".
//
// Example:
//
// ```go
//
//	checksum := ComputeChecksum(f.Output())
//	fmt.Printf("Output checksum: %s\n", checksum)
//
// ```
func ComputeChecksum(pix []byte) string {
	if len(pix) == 0 {
		return "empty"
	}
	return fmt.Sprintf("%x", md5.Sum(pix))
}

// ComputeGrayChecksum checksums the visible pixels of img, ignoring stride padding.
func ComputeGrayChecksum(img *image.Gray) string {
	return ComputeChecksum(GrayBytes(img))
}
