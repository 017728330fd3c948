// Package vorbis adapts jfreymuth/oggvorbis and jfreymuth/vorbis to
// codec.Decoder/SeekableDecoder, covering the four encapsulations
// wavfmt.OggEncapsulation names. OggDecoder is grounded on the teacher's
// oggDecoder (internal/player/decoder.go): NewReader/Channels/SampleRate/
// Read/SetPosition, generalized from int16 PCM output to codec.Frame's
// normalized float64. PacketDecoder has no teacher grounding (olivier-w-climp
// never touches the bare jfreymuth/vorbis packet API) and is built directly
// from jfreymuth/vorbis's exported Decoder surface.
package vorbis

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	jfvorbis "github.com/jfreymuth/vorbis"

	"github.com/sndcore/wavcore/codec"
)

// OggDecoder decodes a standard (or header-reduced, since oggvorbis.Reader
// only requires a valid packet sequence, not that every header be resent)
// Ogg-Vorbis bitstream.
type OggDecoder struct {
	reader   *oggvorbis.Reader
	channels int
}

func NewOggDecoder(r io.Reader) (*OggDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
	}
	return &OggDecoder{reader: reader, channels: reader.Channels()}, nil
}

func (d *OggDecoder) SampleRate() int { return d.reader.SampleRate() }
func (d *OggDecoder) Channels() int   { return d.channels }

const oggBlockSamples = 4096

func (d *OggDecoder) Decode() (codec.Frame, error) {
	buf := make([]float32, oggBlockSamples*d.channels)
	n, err := d.reader.Read(buf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return codec.Frame{}, codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
		}
		return codec.Frame{}, io.EOF
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(buf[i])
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *OggDecoder) Close() error { return nil }

// SeekFrame repositions decoding to the given zero-based sample frame.
func (d *OggDecoder) SeekFrame(frameIndex int64) error {
	d.reader.SetPosition(frameIndex)
	return nil
}

// PacketDecoder decodes the "naked" Vorbis encapsulations: a bare sequence
// of Vorbis packets (no Ogg page framing) where the identification, comment,
// and setup headers are fed directly via ReadHeader before any audio packet
// arrives. This covers wavfmt.NakedVorbis and, when the caller supplies the
// setup header out of band, wavfmt.HaveNoCodebookHeader.
type PacketDecoder struct {
	dec           jfvorbis.Decoder
	nextPacket    func() ([]byte, error)
	headersNeeded int
}

// NewPacketDecoder builds a naked-Vorbis decoder. nextPacket must yield the
// three header packets first (identification, comment, setup), then audio
// packets, matching how a WAV 'data' chunk length-prefixes each Vorbis
// packet in this encapsulation.
func NewPacketDecoder(nextPacket func() ([]byte, error)) *PacketDecoder {
	return &PacketDecoder{nextPacket: nextPacket, headersNeeded: 3}
}

func (d *PacketDecoder) readHeaders() error {
	for d.headersNeeded > 0 {
		pkt, err := d.nextPacket()
		if err != nil {
			return codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
		}
		if err := d.dec.ReadHeader(pkt); err != nil {
			return codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
		}
		d.headersNeeded--
	}
	return nil
}

func (d *PacketDecoder) SampleRate() int { return d.dec.SampleRate() }
func (d *PacketDecoder) Channels() int   { return d.dec.Channels() }

func (d *PacketDecoder) Decode() (codec.Frame, error) {
	if d.headersNeeded > 0 {
		if err := d.readHeaders(); err != nil {
			return codec.Frame{}, err
		}
	}
	pkt, err := d.nextPacket()
	if err != nil {
		if err == io.EOF {
			return codec.Frame{}, io.EOF
		}
		return codec.Frame{}, codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
	}
	samples, err := d.dec.Decode(pkt)
	if err != nil {
		return codec.Frame{}, codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, err)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return codec.Frame{Data: out, Channels: d.dec.Channels()}, nil
}

func (d *PacketDecoder) Close() error {
	d.dec.Clear()
	return nil
}

// Encoder is the encode-side seam: neither jfreymuth/oggvorbis nor
// jfreymuth/vorbis implements a Vorbis bitstream writer, and no pure-Go
// Vorbis encoder exists anywhere in the retrieval pack or its ecosystem, the
// same gap codec/mp3 documents for MP3. Encode always reports
// ErrEncoderUnavailable unless a FrameEncoder collaborator is supplied.
type FrameEncoder interface {
	EncodePacket(pcm []float64, channels int) ([]byte, error)
	Flush() ([]byte, error)
}

type Encoder struct {
	w        io.Writer
	enc      FrameEncoder
	channels int
}

func NewEncoder(w io.Writer, channels int, enc FrameEncoder) *Encoder {
	return &Encoder{w: w, enc: enc, channels: channels}
}

func (e *Encoder) Encode(f codec.Frame) error {
	if e.enc == nil {
		return codec.NewError(codec.SubVorbis, codec.VorbisHeaderMissing, codec.ErrEncoderUnavailable)
	}
	packet, err := e.enc.EncodePacket(f.Data, e.channels)
	if err != nil {
		return err
	}
	_, err = e.w.Write(packet)
	return err
}

func (e *Encoder) Close() error {
	if e.enc == nil {
		return nil
	}
	tail, err := e.enc.Flush()
	if err != nil {
		return err
	}
	_, err = e.w.Write(tail)
	return err
}
