package wavfmt

// AdpcmDialect distinguishes the three ADPCM block-framing dialects.
type AdpcmDialect uint8

const (
	AdpcmMS AdpcmDialect = iota
	AdpcmIMA
	AdpcmYamaha
)

// OggEncapsulation selects where the Vorbis setup headers live relative to
// the Ogg page stream, per spec.md §4.F.
type OggEncapsulation uint8

const (
	// NakedVorbis: no Ogg framing; the bare Vorbis packet stream, the three
	// header packets first.
	NakedVorbis OggEncapsulation = iota
	// OriginalStreamCompatible: standard three-header Ogg-Vorbis stream.
	OriginalStreamCompatible
	// HaveIndependentHeader: headers present but not assuming a shared codebook.
	HaveIndependentHeader
	// HaveNoCodebookHeader: codebook header omitted; pre-shared out of band.
	HaveNoCodebookHeader
)

// Bitrate selects constant or variable bitrate encoding for lossy codecs.
type Bitrate struct {
	VBR bool
	Bps int // bits per second; for VBR this is a target, not a ceiling.
}

func CBR(bps int) Bitrate { return Bitrate{VBR: false, Bps: bps} }
func VBR(bps int) Bitrate { return Bitrate{VBR: true, Bps: bps} }

// Mp3Options configures the (external) MP3 encoder, when one is supplied.
type Mp3Options struct {
	Bitrate Bitrate
}

// OpusOptions configures Opus encoding.
type OpusOptions struct {
	Bitrate Bitrate
	// FrameDurationMs is the Opus frame size in milliseconds (2.5/5/10/20/40/60).
	FrameDurationMs float64
}

// FlacOptions configures FLAC encoding.
type FlacOptions struct {
	// CompressionLevel is 0 (fastest) through 8 (smallest), mirroring the
	// reference FLAC encoder's -0..-8 flags.
	CompressionLevel int
}

// VorbisOptions configures Ogg/naked Vorbis encoding.
type VorbisOptions struct {
	Bitrate      Bitrate
	Encapsulation OggEncapsulation
}

// Variant discriminates the DataFormat tagged union (spec.md §3).
type Variant uint8

const (
	VariantPcm Variant = iota
	VariantPcmALaw
	VariantPcmMuLaw
	VariantAdpcm
	VariantMp3
	VariantOpus
	VariantFlac
	VariantOggVorbis
	VariantNakedVorbis
	VariantUnspecified
)

// DataFormat is the tagged variant over the supported on-disk codings.
type DataFormat struct {
	Variant      Variant
	AdpcmDialect AdpcmDialect // valid when Variant == VariantAdpcm
	Mp3          Mp3Options
	Opus         OpusOptions
	Flac         FlacOptions
	Vorbis       VorbisOptions
}

func Pcm() DataFormat                     { return DataFormat{Variant: VariantPcm} }
func PcmALaw() DataFormat                 { return DataFormat{Variant: VariantPcmALaw} }
func PcmMuLaw() DataFormat                { return DataFormat{Variant: VariantPcmMuLaw} }
func Adpcm(d AdpcmDialect) DataFormat      { return DataFormat{Variant: VariantAdpcm, AdpcmDialect: d} }
func Mp3(opt Mp3Options) DataFormat        { return DataFormat{Variant: VariantMp3, Mp3: opt} }
func Opus(opt OpusOptions) DataFormat      { return DataFormat{Variant: VariantOpus, Opus: opt} }
func Flac(opt FlacOptions) DataFormat      { return DataFormat{Variant: VariantFlac, Flac: opt} }
func OggVorbis(opt VorbisOptions) DataFormat {
	return DataFormat{Variant: VariantOggVorbis, Vorbis: opt}
}
func NakedVorbisFormat(opt VorbisOptions) DataFormat {
	return DataFormat{Variant: VariantNakedVorbis, Vorbis: opt}
}

// FormatTagFor returns the on-disk wFormatTag for the DataFormat's variant,
// where one exists independent of WAVEFORMATEXTENSIBLE sub-GUIDs.
func (d DataFormat) FormatTagFor(bitsPerSample uint8, sf SampleFormat) FormatTag {
	switch d.Variant {
	case VariantPcm:
		if sf == FormatFloat {
			return TagIEEEFloat
		}
		return TagPCM
	case VariantPcmALaw:
		return TagALaw
	case VariantPcmMuLaw:
		return TagMuLaw
	case VariantAdpcm:
		switch d.AdpcmDialect {
		case AdpcmMS:
			return TagAdpcmMS
		case AdpcmIMA:
			return TagAdpcmIMA
		case AdpcmYamaha:
			return TagAdpcmYamaha
		}
	case VariantMp3:
		return TagMP3
	}
	return TagExtensible
}

// RequiresExtensible reports whether d needs a WAVEFORMATEXTENSIBLE fmt chunk
// regardless of channel/bit-depth, because it has no classic format tag.
func (d DataFormat) RequiresExtensible() bool {
	switch d.Variant {
	case VariantOpus, VariantFlac, VariantOggVorbis:
		return true
	default:
		return false
	}
}

// EffectiveBitsPerSampleAfterDecode returns the bits_per_sample a decoded
// frame iterator should report, accounting for formats whose on-disk width
// differs from their decoded width (spec.md §3: xLaw decodes 8-bit storage
// to 16-bit samples).
func (d DataFormat) EffectiveBitsPerSampleAfterDecode(declared uint8) uint8 {
	switch d.Variant {
	case VariantPcmALaw, VariantPcmMuLaw:
		return 16
	default:
		return declared
	}
}
