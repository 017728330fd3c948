package wavreader

import (
	"errors"
	"fmt"
)

// OpenError sentinels, per spec.md §4.H.
var (
	ErrFileNotFound       = errors.New("wavreader: file not found")
	ErrNotARiff           = errors.New("wavreader: not a RIFF/RF64/BW64 stream")
	ErrUnsupportedFormat  = errors.New("wavreader: unsupported format")
	ErrTruncatedChunk     = errors.New("wavreader: truncated chunk")
	ErrMalformedExtension = errors.New("wavreader: malformed format extension")
)

// ParameterError sentinels relevant to the read side, per spec.md §7.
var (
	ErrChannelMismatch       = errors.New("wavreader: channel count mismatch")
	ErrUnsupportedRateForCodec = errors.New("wavreader: unsupported sample rate for codec")
)

// WrongChannelCount reports a stereo_iter/mono_iter call against a stream
// whose channel count doesn't match what that fast path requires.
func WrongChannelCount(want, got int) error {
	return fmt.Errorf("%w: want %d channel(s), stream has %d", ErrChannelMismatch, want, got)
}
