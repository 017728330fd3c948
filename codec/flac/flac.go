// Package flac adapts mewkiz/flac to codec.Decoder/Encoder. Decode is
// grounded on the teacher's flacDecoder (internal/player/decoder.go):
// flac.NewSeek + stream.ParseNext, normalizing each subframe's raw integer
// samples to float64. Encode is grounded on
// other_examples/47a77ad5_mewkiz-flac__cmd-wav2flac-main.go.go's
// meta.StreamInfo/frame.Frame/enc.WriteFrame shape — mewkiz/flac is one of
// the few codecs in the pack with a genuine encoder, satisfying spec.md's
// "exact round-trip for FLAC" requirement without an external collaborator.
package flac

import (
	"io"

	mflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/sndcore/wavcore/codec"
)

// Decoder streams decoded audio from a FLAC stream via mewkiz/flac.
type Decoder struct {
	stream   *mflac.Stream
	channels int
	bps      int
}

// NewDecoder opens a (non-seekable) FLAC bitstream.
func NewDecoder(r io.Reader) (*Decoder, error) {
	stream, err := mflac.New(r)
	if err != nil {
		return nil, codec.NewError(codec.SubFlac, codec.FlacCrcMismatch, err)
	}
	return &Decoder{stream: stream, channels: int(stream.Info.NChannels), bps: int(stream.Info.BitsPerSample)}, nil
}

// NewSeekDecoder opens a seekable FLAC stream (its seek table, if present,
// backs SeekFrame).
func NewSeekDecoder(r io.ReadSeeker) (*SeekDecoder, error) {
	stream, err := mflac.NewSeek(r)
	if err != nil {
		return nil, codec.NewError(codec.SubFlac, codec.FlacCrcMismatch, err)
	}
	return &SeekDecoder{Decoder: Decoder{stream: stream, channels: int(stream.Info.NChannels), bps: int(stream.Info.BitsPerSample)}}, nil
}

func (d *Decoder) SampleRate() int { return int(d.stream.Info.SampleRate) }
func (d *Decoder) Channels() int   { return d.channels }

func (d *Decoder) Decode() (codec.Frame, error) {
	f, err := d.stream.ParseNext()
	if err != nil {
		if err == io.EOF {
			return codec.Frame{}, io.EOF
		}
		return codec.Frame{}, codec.NewError(codec.SubFlac, codec.FlacCrcMismatch, err)
	}

	nSamples := int(f.Subframes[0].NSamples)
	out := make([]float64, nSamples*d.channels)
	full := float64(int64(1) << uint(d.bps-1))
	for i := 0; i < nSamples; i++ {
		for ch := 0; ch < d.channels; ch++ {
			out[i*d.channels+ch] = float64(f.Subframes[ch].Samples[i]) / full
		}
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *Decoder) Close() error { return d.stream.Close() }

// SeekDecoder adds frame-accurate seeking over a seek-table-backed stream.
type SeekDecoder struct {
	Decoder
}

func (d *SeekDecoder) SeekFrame(frameIndex int64) error {
	_, err := d.stream.Seek(uint64(frameIndex))
	return err
}

// Encoder writes PCM Frames out as FLAC frames via mewkiz/flac's encoder,
// one FLAC frame per Encode call (the caller picks the block size by how
// many multi-channel frames it passes).
type Encoder struct {
	enc      *mflac.Encoder
	channels int
	bps      int
	frameNum uint64
}

// NewEncoder builds a FLAC encoder; channels must be 1-8 (mewkiz/flac's
// frame.Channels enum covers exactly that range).
func NewEncoder(w io.Writer, sampleRate, channels, bitsPerSample int) (*Encoder, error) {
	info := &meta.StreamInfo{
		BlockSizeMin:  16,
		BlockSizeMax:  65535,
		SampleRate:    uint32(sampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitsPerSample),
	}
	enc, err := mflac.NewEncoder(w, info)
	if err != nil {
		return nil, codec.NewError(codec.SubFlac, codec.FlacCrcMismatch, err)
	}
	return &Encoder{enc: enc, channels: channels, bps: bitsPerSample}, nil
}

func channelAssignment(n int) (frame.Channels, error) {
	switch n {
	case 1:
		return frame.ChannelsMono, nil
	case 2:
		return frame.ChannelsLR, nil
	case 3:
		return frame.ChannelsLRC, nil
	case 4:
		return frame.ChannelsLRLsRs, nil
	case 5:
		return frame.ChannelsLRCLsRs, nil
	case 6:
		return frame.ChannelsLRCLfeLsRs, nil
	case 7:
		return frame.ChannelsLRCLfeCsSlSr, nil
	case 8:
		return frame.ChannelsLRCLfeLsRsSlSr, nil
	default:
		return 0, codec.NewError(codec.SubFlac, codec.FlacCrcMismatch, io.ErrClosedPipe)
	}
}

func (e *Encoder) Encode(f codec.Frame) error {
	nSamples := f.FrameCount()
	if nSamples == 0 {
		return nil
	}
	channels, err := channelAssignment(e.channels)
	if err != nil {
		return err
	}

	full := float64(int64(1) << uint(e.bps-1))
	subframes := make([]*frame.Subframe, e.channels)
	for ch := 0; ch < e.channels; ch++ {
		samples := make([]int32, nSamples)
		for i := 0; i < nSamples; i++ {
			samples[i] = int32(f.Data[i*e.channels+ch] * full)
		}
		subframes[ch] = &frame.Subframe{
			SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
			NSamples:  nSamples,
			Samples:   samples,
		}
	}

	hdr := frame.Header{
		HasFixedBlockSize: false,
		BlockSize:         uint16(nSamples),
		SampleRate:        uint32(0),
		Channels:          channels,
		BitsPerSample:     uint8(e.bps),
		Num:               e.frameNum,
	}
	e.frameNum++

	return e.enc.WriteFrame(&frame.Frame{Header: hdr, Subframes: subframes})
}

func (e *Encoder) Close() error { return e.enc.Close() }
