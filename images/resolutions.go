package images

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// AspectRatio represents an aspect ratio by name (e.g., "16:9").
type AspectRatio string

// Common frame aspect ratios.
const (
	AspectRatio169 AspectRatio = "16:9"
	AspectRatio43  AspectRatio = "4:3"
	AspectRatio54  AspectRatio = "5:4"
)

// ResolutionType is the short alias of a working resolution, as accepted on
// the command line.
type ResolutionType string

// Working resolutions frames can be fitted into before filtering.
const (
	ResolutionType360p  ResolutionType = "360p"
	ResolutionTypeVGA   ResolutionType = "vga"
	ResolutionType480p  ResolutionType = "480p"
	ResolutionType720p  ResolutionType = "720p"
	ResolutionType1MP   ResolutionType = "1mp"
	ResolutionType1080p ResolutionType = "1080p"
	ResolutionType2MP   ResolutionType = "2mp"
	ResolutionType1440p ResolutionType = "1440p"
	ResolutionType4K    ResolutionType = "4k"
)

// ResolutionPixels describes the exact dimensions of a resolution.
type ResolutionPixels struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Resolution describes a frame size a bilateral pass can be run at.
type Resolution struct {
	Name        ResolutionType   `json:"name" yaml:"name"`
	AspectRatio AspectRatio      `json:"aspectRatio" yaml:"aspectRatio"`
	Pixels      ResolutionPixels `json:"pixels" yaml:"pixels"`
}

// GetMegaPixels returns the pixel count in megapixels, rounded to two
// decimal places (e.g., 2.07 for 1080p).
func (r Resolution) GetMegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d, %.2fMP)", r.Name, r.Pixels.Width, r.Pixels.Height, r.GetMegaPixels())
}

var resolutions = map[ResolutionType]Resolution{
	ResolutionType360p:  {Name: ResolutionType360p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{640, 360}},
	ResolutionTypeVGA:   {Name: ResolutionTypeVGA, AspectRatio: AspectRatio43, Pixels: ResolutionPixels{640, 480}},
	ResolutionType480p:  {Name: ResolutionType480p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{854, 480}},
	ResolutionType720p:  {Name: ResolutionType720p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{1280, 720}},
	ResolutionType1MP:   {Name: ResolutionType1MP, AspectRatio: AspectRatio54, Pixels: ResolutionPixels{1280, 1024}},
	ResolutionType1080p: {Name: ResolutionType1080p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{1920, 1080}},
	ResolutionType2MP:   {Name: ResolutionType2MP, AspectRatio: AspectRatio43, Pixels: ResolutionPixels{1600, 1200}},
	ResolutionType1440p: {Name: ResolutionType1440p, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{2560, 1440}},
	ResolutionType4K:    {Name: ResolutionType4K, AspectRatio: AspectRatio169, Pixels: ResolutionPixels{3840, 2160}},
}

// GetAllResolutions returns every working resolution, smallest first.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(resolutions))
	for _, res := range resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		pi := all[i].Pixels.Width * all[i].Pixels.Height
		pj := all[j].Pixels.Width * all[j].Pixels.Height
		if pi != pj {
			return pi < pj
		}
		return all[i].Name < all[j].Name
	})
	return all
}

// GetResolutionByType retrieves a resolution by alias.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
func GetResolutionByType(t ResolutionType) (Resolution, bool) {
	res, ok := resolutions[ResolutionType(strings.ToLower(string(t)))]
	return res, ok
}

// GetHighestResolutionUnderDimensions retrieves the largest resolution that
// fits inside width x height.
//
// Arguments:
//   - width: The maximum width.
//   - height: The maximum height.
//
// Returns:
//   - Resolution: The largest fitting resolution.
//   - bool: True if a resolution was found, otherwise false.
func GetHighestResolutionUnderDimensions(width, height int) (Resolution, bool) {
	var highest Resolution
	var found bool

	for _, res := range GetAllResolutions() {
		if res.Pixels.Width <= width && res.Pixels.Height <= height {
			highest = res
			found = true
		}
	}
	return highest, found
}

// ParseResolution accepts an alias ("720p") or explicit "WIDTHxHEIGHT".
//
// Arguments:
//   - s: The resolution text.
//
// Returns:
//   - Resolution: The parsed resolution; explicit sizes get Name "custom".
//   - error: If s is neither a known alias nor a valid size.
func ParseResolution(s string) (Resolution, error) {
	if res, ok := GetResolutionByType(ResolutionType(s)); ok {
		return res, nil
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("unknown resolution: %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", h, err)
	}
	if width <= 0 || height <= 0 {
		return Resolution{}, fmt.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	return Resolution{Name: "custom", Pixels: ResolutionPixels{Width: width, Height: height}}, nil
}
