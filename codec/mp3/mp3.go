// Package mp3 adapts hajimehoshi/go-mp3 to codec.Decoder. go-mp3 always
// decodes to 16-bit little-endian stereo PCM regardless of the source
// stream's channel count, matching the teacher's mp3Decoder
// (internal/player/decoder.go), which this package's framing is grounded on.
//
// No pure-Go MP3 encoder exists anywhere in the retrieval pack or its
// ecosystem, so Encoder is an injectable seam: unless a FrameEncoder
// collaborator is supplied, Encode returns a
// codec.Error{Kind: Mp3EncodeUnavailable}, per spec.md §1's explicit scoping
// of MP3 encoding to an external collaborator.
package mp3

import (
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/sndcore/wavcore/codec"
)

const blockBytes = 4 * 4096 // go-mp3 frames are 16-bit stereo: 4 bytes/sample-pair

// Decoder streams decoded audio from an MP3 bitstream via go-mp3.
type Decoder struct {
	dec *gomp3.Decoder
}

// NewDecoder wraps r (the MP3 payload, e.g. the WAV 'data' chunk's bytes)
// with go-mp3.
func NewDecoder(r io.Reader) (*Decoder, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, codec.NewError(codec.SubMp3, codec.Mp3DecodeFailure, err)
	}
	return &Decoder{dec: dec}, nil
}

func (d *Decoder) SampleRate() int { return d.dec.SampleRate() }

// ChannelCount is always 2: go-mp3 unconditionally decodes to stereo.
func (d *Decoder) ChannelCount() int { return 2 }

func (d *Decoder) Decode() (codec.Frame, error) {
	raw := make([]byte, blockBytes)
	n, err := d.dec.Read(raw)
	if n == 0 {
		if err == io.EOF {
			return codec.Frame{}, io.EOF
		}
		if err != nil {
			return codec.Frame{}, codec.NewError(codec.SubMp3, codec.Mp3DecodeFailure, err)
		}
	}
	samples := n / 2 // 16-bit little-endian elements
	out := make([]float64, samples)
	for i := 0; i < samples; i++ {
		v := int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
		out[i] = float64(v) / 32768.0
	}
	return codec.Frame{Data: out, Channels: 2}, nil
}

func (d *Decoder) Close() error { return nil }

// FrameEncoder is the external collaborator interface an MP3 encoder
// implementation (e.g. a cgo LAME binding) must satisfy to be usable as
// codec.Encoder here.
type FrameEncoder interface {
	EncodeFrame(pcm []int16) ([]byte, error)
	Flush() ([]byte, error)
}

// Encoder adapts an injected FrameEncoder to codec.Encoder. With no
// FrameEncoder configured, Encode always fails with Mp3EncodeUnavailable.
type Encoder struct {
	w   io.Writer
	enc FrameEncoder
}

// NewEncoder builds an Encoder; enc may be nil, in which case Encode reports
// Mp3EncodeUnavailable rather than silently dropping audio, and Close
// returns nil.
func NewEncoder(w io.Writer, enc FrameEncoder) *Encoder {
	return &Encoder{w: w, enc: enc}
}

func (e *Encoder) Encode(f codec.Frame) error {
	if e.enc == nil {
		return codec.NewError(codec.SubMp3, codec.Mp3EncodeUnavailable, codec.ErrEncoderUnavailable)
	}
	pcm := make([]int16, len(f.Data))
	for i, v := range f.Data {
		scaled := v * 32768.0
		if scaled > 32767 {
			scaled = 32767
		}
		if scaled < -32768 {
			scaled = -32768
		}
		pcm[i] = int16(scaled)
	}
	frame, err := e.enc.EncodeFrame(pcm)
	if err != nil {
		return codec.NewError(codec.SubMp3, codec.Mp3DecodeFailure, err)
	}
	_, err = e.w.Write(frame)
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
