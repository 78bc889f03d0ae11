package kernels

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSigma is returned by ValidateSigma, and by FilterGray when
	// Options.Strict is set, for a zero spatial or intensity sigma. Configure
	// never returns it: a zero sigma there silently yields NaN weights.
	ErrInvalidSigma = errors.New("sigma must be greater than zero")
	// ErrInvalidDimensions is returned when an image width or height is negative.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
	// ErrBufferSize is returned when a pixel buffer does not hold width*height bytes.
	ErrBufferSize = errors.New("buffer size does not match image dimensions")
)

// ValidateSigma reports whether both sigmas produce finite LUT weights.
//
// Arguments:
// - spatial: The spatial sigma.
// - intensity: The intensity sigma.
//
// Returns:
// - An error wrapping ErrInvalidSigma if either sigma is zero.
//
// @example
//
//	if err := ValidateSigma(3, 0); errors.Is(err, ErrInvalidSigma) {
//	    // reject configuration
//	}
func ValidateSigma(spatial, intensity uint8) error {
	if spatial == 0 {
		return errors.Wrap(ErrInvalidSigma, "spatial")
	}
	if intensity == 0 {
		return errors.Wrap(ErrInvalidSigma, "intensity")
	}
	return nil
}
