// Package wavfmt models the parsed WAVEFORMAT(EX)(EXTENSIBLE) descriptor: the
// Spec (channel/rate/bit-depth/sample-format quadruple) and the DataFormat
// discriminator selecting which codec decodes/encodes the payload.
//
// Format-tag and channel-mask constants are grounded on
// other_examples/834facee_jonchammer-audio-io__wave-chunks.go.go
// (FormatChunkData/FormatCode) and spec.md §6.
package wavfmt

import "fmt"

// FormatTag is the on-disk wFormatTag value of the 'fmt ' chunk.
type FormatTag uint16

const (
	TagPCM        FormatTag = 0x0001
	TagAdpcmMS    FormatTag = 0x0002
	TagIEEEFloat  FormatTag = 0x0003
	TagALaw       FormatTag = 0x0006
	TagMuLaw      FormatTag = 0x0007
	TagAdpcmIMA   FormatTag = 0x0011
	TagAdpcmYamaha FormatTag = 0x0020
	TagMP3        FormatTag = 0x0055
	TagExtensible FormatTag = 0xFFFE
)

// SubFormatGUID identifies the payload format inside a WAVEFORMATEXTENSIBLE
// fmt chunk. Only the low 16 bits (the format-tag-equivalent field) vary
// across the KSDATAFORMAT_SUBTYPE_* GUIDs recognised here; the remaining 112
// bits are the fixed Microsoft base GUID suffix.
type SubFormatGUID [16]byte

var subFormatGUIDSuffix = [14]byte{
	0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0xAA,
	0x00, 0x38, 0x9B, 0x71,
}

// NewSubFormatGUID builds a KSDATAFORMAT_SUBTYPE_* GUID for the given tag.
func NewSubFormatGUID(tag FormatTag) SubFormatGUID {
	var g SubFormatGUID
	g[0] = byte(tag)
	g[1] = byte(tag >> 8)
	copy(g[2:4], []byte{0x00, 0x00})
	copy(g[4:16], subFormatGUIDSuffix[:])
	return g
}

// Tag extracts the format-tag-equivalent low bits of a sub-format GUID.
func (g SubFormatGUID) Tag() FormatTag {
	return FormatTag(uint16(g[0]) | uint16(g[1])<<8)
}

// SampleFormat discriminates how bits_per_sample maps to numeric meaning.
type SampleFormat uint8

const (
	FormatInt SampleFormat = iota
	FormatUint
	FormatFloat
)

func (f SampleFormat) String() string {
	switch f {
	case FormatInt:
		return "int"
	case FormatUint:
		return "uint"
	case FormatFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Channel mask bits, per spec.md §6.
const (
	SpeakerFrontLeft          uint32 = 1 << 0
	SpeakerFrontRight         uint32 = 1 << 1
	SpeakerFrontCenter        uint32 = 1 << 2
	SpeakerLowFreq            uint32 = 1 << 3
	SpeakerBackLeft           uint32 = 1 << 4
	SpeakerBackRight          uint32 = 1 << 5
	SpeakerFrontLeftOfCenter  uint32 = 1 << 6
	SpeakerFrontRightOfCenter uint32 = 1 << 7
	SpeakerBackCenter         uint32 = 1 << 8
	SpeakerSideLeft           uint32 = 1 << 9
	SpeakerSideRight          uint32 = 1 << 10
	SpeakerTopCenter          uint32 = 1 << 11
	SpeakerTopFrontLeft       uint32 = 1 << 12
	SpeakerTopFrontCenter     uint32 = 1 << 13
	SpeakerTopFrontRight      uint32 = 1 << 14
	SpeakerTopBackLeft        uint32 = 1 << 15
	SpeakerTopBackCenter      uint32 = 1 << 16
	SpeakerTopBackRight       uint32 = 1 << 17
)

// Spec is the immutable descriptor of an audio stream.
type Spec struct {
	Channels      uint8
	ChannelMask   uint32
	SampleRate    uint32
	BitsPerSample uint8
	SampleFormat  SampleFormat
}

// popcount32 counts set bits, used to validate Spec.Channels against ChannelMask.
func popcount32(v uint32) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// elementTypeValid reports whether (bits, format) is one of the twelve
// supported element types.
func elementTypeValid(bits uint8, format SampleFormat) bool {
	switch format {
	case FormatInt, FormatUint:
		switch bits {
		case 8, 16, 24, 32, 64:
			return true
		}
		return false
	case FormatFloat:
		return bits == 32 || bits == 64
	default:
		return false
	}
}

// Validate checks the invariants from spec.md §3/§4.D.
func (s Spec) Validate() error {
	if s.Channels == 0 {
		return fmt.Errorf("%w: %w", ErrSpecValidationFailed, InvalidChannelCount(s.Channels))
	}
	if s.SampleRate == 0 {
		return fmt.Errorf("%w: sample_rate must be > 0", ErrSpecValidationFailed)
	}
	if !elementTypeValid(s.BitsPerSample, s.SampleFormat) {
		return fmt.Errorf("%w: %w", ErrSpecValidationFailed, UnsupportedBitDepth(s.BitsPerSample, s.SampleFormat))
	}
	if s.ChannelMask != 0 && popcount32(s.ChannelMask) > int(s.Channels) {
		return fmt.Errorf("%w: channel_mask names more channels than declared: %w",
			ErrSpecValidationFailed, InvalidChannelCount(s.Channels))
	}
	return nil
}
