package wavwriter

import (
	"io"

	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/codec/adpcm"
	"github.com/sndcore/wavcore/codec/flac"
	"github.com/sndcore/wavcore/codec/mp3"
	"github.com/sndcore/wavcore/codec/opus"
	"github.com/sndcore/wavcore/codec/pcm"
	"github.com/sndcore/wavcore/codec/vorbis"
	"github.com/sndcore/wavcore/codec/xlaw"
	"github.com/sndcore/wavcore/wavfmt"
)

// Collaborators carries the external encoder implementations spec.md §4.F
// scopes out of this module (no pure-Go MP3 or Vorbis encoder exists
// anywhere in the pack or its ecosystem). A nil field leaves the
// corresponding DataFormat variant writable only up to Mp3EncodeUnavailable
// / the equivalent Vorbis error, mirroring codec/mp3 and codec/vorbis.
type Collaborators struct {
	Mp3    mp3.FrameEncoder
	Vorbis vorbis.FrameEncoder
}

// newEncoder builds the codec.Encoder for df, writing into w (the 'data'
// chunk's payload region, streamed directly to the sink). Mirrors
// wavreader/decoder.go's newDecoder dispatch, one variant per codec package.
func newEncoder(w io.Writer, spec wavfmt.Spec, df wavfmt.DataFormat, collab Collaborators) (codec.Encoder, error) {
	switch df.Variant {
	case wavfmt.VariantPcm:
		return pcm.NewEncoder(w, spec)

	case wavfmt.VariantPcmALaw:
		return xlaw.NewEncoder(w, xlaw.ALaw), nil

	case wavfmt.VariantPcmMuLaw:
		return xlaw.NewEncoder(w, xlaw.MuLaw), nil

	case wavfmt.VariantAdpcm:
		samplesPerBlock := adpcmSamplesPerBlock(spec)
		return adpcm.NewEncoder(adpcmDialect(df.AdpcmDialect), w, int(spec.Channels), samplesPerBlock), nil

	case wavfmt.VariantMp3:
		return mp3.NewEncoder(w, collab.Mp3), nil

	case wavfmt.VariantFlac:
		return flac.NewEncoder(w, int(spec.SampleRate), int(spec.Channels), int(spec.BitsPerSample))

	case wavfmt.VariantOpus:
		frameSize := opusFrameSize(spec.SampleRate, df.Opus.FrameDurationMs)
		return opus.NewEncoder(w, int(spec.SampleRate), int(spec.Channels), frameSize, df.Opus)

	case wavfmt.VariantOggVorbis, wavfmt.VariantNakedVorbis:
		return vorbis.NewEncoder(w, int(spec.Channels), collab.Vorbis), nil

	default:
		return nil, ErrUnsupportedSpecForFormat
	}
}

func adpcmDialect(d wavfmt.AdpcmDialect) adpcm.Dialect {
	switch d {
	case wavfmt.AdpcmMS:
		return adpcm.MS
	case wavfmt.AdpcmYamaha:
		return adpcm.Yamaha
	default:
		return adpcm.IMA
	}
}

// adpcmSamplesPerBlock picks a conventional block size (samples per channel
// per block) for a freshly created ADPCM stream; a reader re-opening this
// file later reads the value back out of the 'fmt ' extension instead of
// recomputing it.
func adpcmSamplesPerBlock(spec wavfmt.Spec) int {
	const targetBlockBytes = 1024
	channels := int(spec.Channels)
	if channels == 0 {
		channels = 1
	}
	return (targetBlockBytes / channels) * 2
}

// adpcmBlockAlign computes the on-disk block byte length for samplesPerBlock,
// mirroring the header-plus-nibbles layout codec/adpcm's decoders read
// (msBlockHeaderBytes=7 or imaBlockHeaderBytes=4 per channel, then two
// nibbles packed per byte across the remaining samples).
func adpcmBlockAlign(dialect wavfmt.AdpcmDialect, channels, samplesPerBlock int) int {
	headerBytes := 4
	headerSamples := 1
	if dialect == wavfmt.AdpcmMS {
		headerBytes = 7
		headerSamples = 2
	}
	remaining := samplesPerBlock - headerSamples
	if remaining < 0 {
		remaining = 0
	}
	nibbles := remaining * channels
	return channels*headerBytes + (nibbles+1)/2
}

// opusFrameSize converts opts.FrameDurationMs (one of 2.5/5/10/20/40/60) to
// samples per channel at sampleRate, defaulting to the common 20ms frame.
func opusFrameSize(sampleRate uint32, durationMs float64) int {
	if durationMs <= 0 {
		durationMs = 20
	}
	return int(float64(sampleRate) * durationMs / 1000.0)
}
