package wavfmt

import (
	"bytes"
	"fmt"

	"github.com/sndcore/wavcore/bio"
)

// ExtraParams carries format-specific trailing bytes from the 'fmt ' chunk
// that don't round-trip through Spec/DataFormat directly, e.g. the ADPCM
// coefficient-set table or the MP3 mpeglayer3 extension block.
type ExtraParams struct {
	SamplesPerBlock uint16 // valid for ADPCM dialects
	Raw             []byte // codec-specific tail, opaque to wavfmt
}

// ParseFmtChunk decodes a raw 'fmt ' chunk payload into a Spec and a
// DataFormat. It recognises PCMWAVEFORMAT (16 bytes), WAVEFORMATEX (18+cb),
// and WAVEFORMATEXTENSIBLE (40 bytes) layouts, grounded on
// other_examples/834facee_jonchammer-audio-io__wave-chunks.go.go's
// FormatChunkData.Deserialize.
func ParseFmtChunk(data []byte) (Spec, DataFormat, ExtraParams, error) {
	var spec Spec
	var df DataFormat
	var extra ExtraParams

	if len(data) < 16 {
		return spec, df, extra, fmt.Errorf("wavfmt: fmt chunk too short (%d bytes)", len(data))
	}
	r := bio.NewReader(bytes.NewReader(data))

	tagRaw, _ := r.U16()
	tag := FormatTag(tagRaw)
	channels, _ := r.U8()
	_, _ = r.U8() // high byte of nChannels
	sampleRate, _ := r.U32()
	_, _ = r.U32() // nAvgBytesPerSec, derivable, not authoritative
	_, _ = r.U16() // nBlockAlign, codec-owned
	bitsPerSample, _ := r.U16()

	spec.Channels = channels
	spec.SampleRate = sampleRate
	spec.BitsPerSample = uint8(bitsPerSample)
	spec.SampleFormat = FormatInt

	var cbSize uint16
	if len(data) >= 18 {
		r2 := bio.NewReader(bytes.NewReader(data[16:18]))
		cbSize, _ = r2.U16()
	}

	switch tag {
	case TagPCM:
		df = Pcm()
	case TagIEEEFloat:
		spec.SampleFormat = FormatFloat
		df = Pcm()
	case TagALaw:
		df = PcmALaw()
	case TagMuLaw:
		df = PcmMuLaw()
	case TagAdpcmMS:
		df = Adpcm(AdpcmMS)
	case TagAdpcmIMA:
		df = Adpcm(AdpcmIMA)
	case TagAdpcmYamaha:
		df = Adpcm(AdpcmYamaha)
	case TagMP3:
		df = Mp3(Mp3Options{})
	case TagExtensible:
		if len(data) < 40 {
			return spec, df, extra, fmt.Errorf("wavfmt: WAVEFORMATEXTENSIBLE too short (%d bytes)", len(data))
		}
		_, _ = r.U16() // cbSize, already read above
		validBits, _ := r.U16()
		mask, _ := r.U32()
		guidBytes, err := r.Bytes(16)
		if err != nil {
			return spec, df, extra, err
		}
		var guid SubFormatGUID
		copy(guid[:], guidBytes)
		spec.ChannelMask = mask
		if validBits != 0 {
			spec.BitsPerSample = uint8(validBits)
		}
		switch guid.Tag() {
		case TagPCM:
			df = Pcm()
		case TagIEEEFloat:
			spec.SampleFormat = FormatFloat
			df = Pcm()
		default:
			return spec, df, extra, UnsupportedFormatTag(guid.Tag())
		}
	default:
		return spec, df, extra, UnsupportedFormatTag(tag)
	}

	if cbSize > 0 && tag != TagExtensible {
		tailStart := 18
		tailEnd := tailStart + int(cbSize)
		if tailEnd <= len(data) {
			tail := data[tailStart:tailEnd]
			extra.Raw = tail
			if len(tail) >= 2 && (tag == TagAdpcmMS || tag == TagAdpcmIMA || tag == TagAdpcmYamaha) {
				tr := bio.NewReader(bytes.NewReader(tail))
				if v, err := tr.U16(); err == nil {
					extra.SamplesPerBlock = v
				}
			}
		}
	}

	if err := spec.Validate(); err != nil {
		return spec, df, extra, err
	}
	return spec, df, extra, nil
}

// EmitFmtChunk encodes a Spec/DataFormat pair back into a 'fmt ' chunk
// payload, choosing PCMWAVEFORMAT/WAVEFORMATEX/WAVEFORMATEXTENSIBLE the way
// spec.md §6 requires: extensible only when the channel mask is non-zero,
// there are more than two channels, bits_per_sample is above 16, or the
// format has no classic tag.
func EmitFmtChunk(spec Spec, df DataFormat, blockAlign uint16, bytesPerSec uint32, extra ExtraParams) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	needsExtensible := df.RequiresExtensible() || spec.ChannelMask != 0 || spec.Channels > 2 || spec.BitsPerSample > 16

	var buf bytes.Buffer
	w := bio.NewWriter(&buf)

	tag := df.FormatTagFor(spec.BitsPerSample, spec.SampleFormat)
	if needsExtensible {
		tag = TagExtensible
	}

	if err := w.U16(uint16(tag)); err != nil {
		return nil, err
	}
	if err := w.U16(uint16(spec.Channels)); err != nil {
		return nil, err
	}
	if err := w.U32(spec.SampleRate); err != nil {
		return nil, err
	}
	if err := w.U32(bytesPerSec); err != nil {
		return nil, err
	}
	if err := w.U16(blockAlign); err != nil {
		return nil, err
	}
	if err := w.U16(uint16(spec.BitsPerSample)); err != nil {
		return nil, err
	}

	switch {
	case needsExtensible:
		if err := w.U16(22); err != nil {
			return nil, err
		}
		if err := w.U16(uint16(spec.BitsPerSample)); err != nil {
			return nil, err
		}
		if err := w.U32(spec.ChannelMask); err != nil {
			return nil, err
		}
		subTag := df.FormatTagFor(spec.BitsPerSample, spec.SampleFormat)
		guid := NewSubFormatGUID(subTag)
		if err := w.Bytes(guid[:]); err != nil {
			return nil, err
		}
	case len(extra.Raw) > 0:
		if err := w.U16(uint16(len(extra.Raw))); err != nil {
			return nil, err
		}
		if err := w.Bytes(extra.Raw); err != nil {
			return nil, err
		}
	case tag != TagPCM:
		// WAVEFORMATEX with no extra params still carries cbSize=0.
		if err := w.U16(0); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
