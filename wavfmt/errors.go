package wavfmt

import (
	"errors"
	"fmt"
)

// ErrSpecValidationFailed is the sentinel wrapped by Spec.Validate failures;
// callers match it with errors.Is rather than parsing message text.
var ErrSpecValidationFailed = errors.New("wavfmt: spec validation failed")

// ErrUnsupportedFormatTag reports an on-disk wFormatTag with no decoder.
var ErrUnsupportedFormatTag = errors.New("wavfmt: unsupported format tag")

// ErrUnsupportedBitDepth reports a bits_per_sample value outside the twelve
// supported element types for the declared sample_format.
var ErrUnsupportedBitDepth = errors.New("wavfmt: unsupported bit depth")

// ErrInvalidChannelCount reports Channels == 0, or a channel_mask naming more
// channels than Channels declares.
var ErrInvalidChannelCount = errors.New("wavfmt: invalid channel count")

// UnsupportedFormatTag builds an error identifying the offending tag value.
func UnsupportedFormatTag(tag FormatTag) error {
	return fmt.Errorf("%w: 0x%04x", ErrUnsupportedFormatTag, uint16(tag))
}

// UnsupportedBitDepth builds an error identifying the offending bit depth.
func UnsupportedBitDepth(bits uint8, sf SampleFormat) error {
	return fmt.Errorf("%w: bits_per_sample=%d sample_format=%s", ErrUnsupportedBitDepth, bits, sf)
}

// InvalidChannelCount builds an error identifying the offending channel count.
func InvalidChannelCount(channels uint8) error {
	return fmt.Errorf("%w: channels=%d", ErrInvalidChannelCount, channels)
}
