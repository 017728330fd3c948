// Package opus adapts thesyncim/gopus to codec.Decoder/Encoder. Opus packets
// have no self-delimiting length inside a bare byte stream, so (grounded on
// gopus's own streaming Reader/Writer, which solve the same problem with a
// PacketSource/PacketSink seam) this package frames packets in the WAV
// 'data' chunk with a 2-byte little-endian length prefix per packet, one
// packet per codec.Frame.
package opus

import (
	"encoding/binary"
	"io"

	"github.com/thesyncim/gopus"
	"github.com/thesyncim/gopus/encoder"

	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/wavfmt"
)

// Decoder streams decoded audio from a length-prefixed Opus packet stream.
type Decoder struct {
	r        io.Reader
	dec      *gopus.Decoder
	channels int
}

// NewDecoder opens a (non-seekable) Opus packet stream at the given
// post-decode sample rate (always 48000 for the container's canonical
// rate, matching gopus.NewDecoder's own internal resampling).
func NewDecoder(r io.Reader, sampleRate, channels int) (*Decoder, error) {
	dec, err := gopus.NewDecoder(sampleRate, channels)
	if err != nil {
		return nil, codec.NewError(codec.SubOpus, codec.OpusDecodeFailure, err)
	}
	return &Decoder{r: r, dec: dec, channels: channels}, nil
}

func (d *Decoder) Decode() (codec.Frame, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(d.r, lenBuf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return codec.Frame{}, io.EOF
		}
		return codec.Frame{}, codec.NewError(codec.SubOpus, codec.OpusDecodeFailure, err)
	}
	n := binary.LittleEndian.Uint16(lenBuf[:])
	packet := make([]byte, n)
	if _, err := io.ReadFull(d.r, packet); err != nil {
		return codec.Frame{}, codec.NewError(codec.SubOpus, codec.OpusDecodeFailure, err)
	}

	samples, err := d.dec.DecodeFloat32(packet)
	if err != nil {
		return codec.Frame{}, codec.NewError(codec.SubOpus, codec.OpusDecodeFailure, err)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = float64(s)
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *Decoder) Close() error { return nil }

// Encoder packs encoded Opus packets behind the same 2-byte length prefix
// Decoder expects.
type Encoder struct {
	w         io.Writer
	enc       *encoder.Encoder
	frameSize int
}

// NewEncoder builds an Opus encoder at sampleRate (must be one of Opus's
// supported rates: 8000/12000/16000/24000/48000). frameSize is in samples
// per channel, derived from opts.FrameDurationMs by the caller.
func NewEncoder(w io.Writer, sampleRate, channels, frameSize int, opts wavfmt.OpusOptions) (*Encoder, error) {
	enc := encoder.NewEncoder(sampleRate, channels)
	if opts.Bitrate.Bps > 0 {
		enc.SetBitrate(opts.Bitrate.Bps)
		if !opts.Bitrate.VBR {
			// Opus encoders default to VBR; only force CBR explicitly.
			enc.SetBitrateMode(encoder.ModeCBR)
		}
	}
	return &Encoder{w: w, enc: enc, frameSize: frameSize}, nil
}

func (e *Encoder) Encode(f codec.Frame) error {
	packet, err := e.enc.Encode(f.Data, e.frameSize)
	if err != nil {
		return codec.NewError(codec.SubOpus, codec.OpusDecodeFailure, err)
	}
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(packet)))
	if _, err := e.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = e.w.Write(packet)
	return err
}

func (e *Encoder) Close() error { return nil }
