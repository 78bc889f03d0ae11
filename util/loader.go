// Package util loads image sequences from disk.
package util

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/nvr-ai/go-bilateral/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number parsed from the name, or -1 if it has none.
	Frame int
	// Format is the format implied by the extension.
	Format images.ImageFormat
}

var frameNumber = regexp.MustCompile(`(\d+)$`)

// parseFrame extracts the trailing number of a file stem, as in
// "frame-0042.png" -> 42.
func parseFrame(name string) int {
	stem := name[:len(name)-len(filepath.Ext(name))]
	m := frameNumber.FindStringSubmatch(stem)
	if m == nil {
		return -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return -1
	}
	return n
}

// LoadDirectoryImageFiles reads all image files from a directory.
// Files are ordered by frame number; files without one sort last by name.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
// - error: Error if loading fails.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var imgs []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		format, err := images.FormatFromPath(file.Name())
		if err != nil {
			continue
		}
		imgPath := filepath.Join(dir, file.Name())
		data, readErr := os.ReadFile(imgPath)
		if readErr != nil {
			return nil, readErr
		}
		imgs = append(imgs, ImageFile{
			Path:   imgPath,
			Data:   data,
			Frame:  parseFrame(file.Name()),
			Format: format,
		})
	}

	sort.SliceStable(imgs, func(i, j int) bool {
		a, b := imgs[i], imgs[j]
		switch {
		case a.Frame >= 0 && b.Frame >= 0 && a.Frame != b.Frame:
			return a.Frame < b.Frame
		case a.Frame >= 0 && b.Frame < 0:
			return true
		case a.Frame < 0 && b.Frame >= 0:
			return false
		}
		return a.Path < b.Path
	})

	return imgs, nil
}
