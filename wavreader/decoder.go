package wavreader

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

// newDecoder builds the codec.Decoder for r's DataFormat, reading from a
// freshly opened, already-positioned 'data' payload handle. rs is non-nil
// when that handle also supports seeking; only the PCM decoder uses it, for
// its SeekFrame.
func (r *Reader) newDecoder(raw io.Reader, rs io.ReadSeeker) (codec.Decoder, error) {
	bounded := boundedDataReader(raw, r.dataSize)

	switch r.dataFormat.Variant {
	case wavfmt.VariantPcm:
		return pcm.NewDecoder(bounded, rs, r.dataOffset, r.spec)

	case wavfmt.VariantPcmALaw:
		return xlaw.NewDecoder(bounded, int(r.spec.Channels), xlaw.ALaw), nil

	case wavfmt.VariantPcmMuLaw:
		return xlaw.NewDecoder(bounded, int(r.spec.Channels), xlaw.MuLaw), nil

	case wavfmt.VariantAdpcm:
		samplesPerBlock := int(r.extra.SamplesPerBlock)
		if samplesPerBlock == 0 {
			samplesPerBlock = 1
		}
		return adpcm.NewDecoder(adpcmDialect(r.dataFormat.AdpcmDialect), bounded, int(r.spec.Channels), int(r.blockAlign), samplesPerBlock), nil

	case wavfmt.VariantMp3:
		return mp3.NewDecoder(bounded)

	case wavfmt.VariantFlac:
		return flac.NewDecoder(bounded)

	case wavfmt.VariantOggVorbis:
		return vorbis.NewOggDecoder(bounded)

	case wavfmt.VariantNakedVorbis:
		return newNakedVorbisDecoder(bounded), nil

	case wavfmt.VariantOpus:
		return opus.NewDecoder(bounded, 48000, int(r.spec.Channels))

	default:
		return nil, ErrUnsupportedFormat
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

// newNakedVorbisDecoder frames each Vorbis packet behind a 2-byte
// little-endian length prefix, the same convention codec/opus uses, since
// the naked encapsulation carries no Ogg page structure to delimit packets.
func newNakedVorbisDecoder(r io.Reader) *vorbis.PacketDecoder {
	return vorbis.NewPacketDecoder(lengthPrefixedPacketSource(r))
}

func lengthPrefixedPacketSource(r io.Reader) func() ([]byte, error) {
	return func() ([]byte, error) {
		var lenBuf [2]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return nil, io.EOF
			}
			return nil, err
		}
		n := int(lenBuf[0]) | int(lenBuf[1])<<8
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
}
