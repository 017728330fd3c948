package adpcm

import (
	"io"

	"github.com/sndcore/wavcore/codec"
)

// NewDecoder builds the Decoder for the requested ADPCM dialect.
func NewDecoder(dialect Dialect, r io.Reader, channels, blockAlign, samplesPerBlock int) codec.Decoder {
	switch dialect {
	case MS:
		return NewMSDecoder(r, channels, blockAlign, samplesPerBlock)
	case Yamaha:
		return NewYamahaDecoder(r, channels, blockAlign, samplesPerBlock)
	default:
		return NewIMADecoder(r, channels, blockAlign, samplesPerBlock)
	}
}

// NewEncoder builds the Encoder for the requested ADPCM dialect.
func NewEncoder(dialect Dialect, w io.Writer, channels, samplesPerBlock int) codec.Encoder {
	switch dialect {
	case MS:
		return NewMSEncoder(w, channels, samplesPerBlock)
	case Yamaha:
		return NewYamahaEncoder(w, channels, samplesPerBlock)
	default:
		return NewIMAEncoder(w, channels, samplesPerBlock)
	}
}
