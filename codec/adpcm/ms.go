package adpcm

import (
	"bytes"
	"io"

	"github.com/icza/bitio"

	"github.com/sndcore/wavcore/codec"
)

// msCoefficients is the standard 7-entry predictor coefficient set every
// Microsoft ADPCM encoder/decoder ships (coef1, coef2), indexed by the
// per-block predictor-index byte.
var msCoefficients = [7][2]int32{
	{256, 0}, {512, -256}, {0, 0}, {192, 64},
	{240, 0}, {460, -208}, {392, -232},
}

var msAdaptationTable = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}

type msChannelState struct {
	coef1, coef2 int32
	delta        int32
	sample1      int32
	sample2      int32
}

func (s *msChannelState) predict() int32 {
	return (s.sample1*s.coef1 + s.sample2*s.coef2) >> 8
}

func (s *msChannelState) decodeNibble(nibble byte) int16 {
	signed := int32(nibble)
	if signed&0x08 != 0 {
		signed -= 0x10
	}
	predicted := s.predict() + signed*s.delta
	out := clampInt16Wide(predicted)

	s.delta = (s.delta * msAdaptationTable[nibble]) >> 8
	if s.delta < 16 {
		s.delta = 16
	}
	s.sample2 = s.sample1
	s.sample1 = int32(out)
	return out
}

func (s *msChannelState) encodeNibble(target int16) byte {
	predicted := s.predict()
	errVal := int32(target) - predicted

	unclamped := errVal / s.delta
	if (errVal%s.delta)*2 >= s.delta {
		if unclamped >= 0 {
			unclamped++
		} else {
			unclamped--
		}
	}
	if unclamped > 7 {
		unclamped = 7
	} else if unclamped < -8 {
		unclamped = -8
	}
	nibble := byte(unclamped) & 0x0F

	signed := int32(nibble)
	if signed&0x08 != 0 {
		signed -= 0x10
	}
	out := clampInt16Wide(predicted + signed*s.delta)

	s.delta = (s.delta * msAdaptationTable[nibble]) >> 8
	if s.delta < 16 {
		s.delta = 16
	}
	s.sample2 = s.sample1
	s.sample1 = int32(out)
	return nibble
}

func clampInt16Wide(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// msBlockHeaderBytes is 7 bytes/channel: predictorIndex:u8, delta:i16,
// sample1:i16, sample2:i16.
const msBlockHeaderBytes = 7

type msDecoder struct {
	r               io.Reader
	channels        int
	blockAlign      int
	samplesPerBlock int
	states          []msChannelState
}

func NewMSDecoder(r io.Reader, channels, blockAlign, samplesPerBlock int) *msDecoder {
	return &msDecoder{r: r, channels: channels, blockAlign: blockAlign, samplesPerBlock: samplesPerBlock, states: make([]msChannelState, channels)}
}

func (d *msDecoder) Decode() (codec.Frame, error) {
	raw, n, err := readAll(d.r, d.blockAlign)
	if err != nil {
		return codec.Frame{}, err
	}
	if n < msBlockHeaderBytes*d.channels {
		return codec.Frame{}, io.EOF
	}

	pos := 0
	for ch := 0; ch < d.channels; ch++ {
		predIdx := int(raw[pos])
		if predIdx >= len(msCoefficients) {
			predIdx = 0
		}
		delta := int16(uint16(raw[pos+1]) | uint16(raw[pos+2])<<8)
		sample1 := int16(uint16(raw[pos+3]) | uint16(raw[pos+4])<<8)
		sample2 := int16(uint16(raw[pos+5]) | uint16(raw[pos+6])<<8)
		d.states[ch] = msChannelState{
			coef1: msCoefficients[predIdx][0], coef2: msCoefficients[predIdx][1],
			delta: int32(delta), sample1: int32(sample1), sample2: int32(sample2),
		}
		pos += msBlockHeaderBytes
	}

	out := make([]float64, 0, d.samplesPerBlock*d.channels)
	// The block header's sample2/sample1 are themselves the first two
	// decoded samples (oldest first), per the MSADPCM block layout.
	for ch := 0; ch < d.channels; ch++ {
		out = append(out, float64(int16(d.states[ch].sample2))/32768.0)
	}
	for ch := 0; ch < d.channels; ch++ {
		out = append(out, float64(int16(d.states[ch].sample1))/32768.0)
	}

	remainingFrames := d.samplesPerBlock - 2
	if remainingFrames < 0 {
		remainingFrames = 0
	}
	// Nibbles are packed two per byte, high nibble first (bitio's natural
	// MSB-first bit order), mirroring msEncoder.Encode.
	br := bitio.NewReader(bytes.NewReader(raw[pos:]))
	for i := 0; i < remainingFrames; i++ {
		for ch := 0; ch < d.channels; ch++ {
			nib, err := br.ReadBits(4)
			if err != nil {
				return codec.Frame{Data: out, Channels: d.channels}, nil
			}
			s := d.states[ch].decodeNibble(byte(nib))
			out = append(out, float64(s)/32768.0)
		}
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *msDecoder) Close() error { return nil }

type msEncoder struct {
	w               io.Writer
	channels        int
	samplesPerBlock int
	states          []msChannelState
}

func NewMSEncoder(w io.Writer, channels, samplesPerBlock int) *msEncoder {
	return &msEncoder{w: w, channels: channels, samplesPerBlock: samplesPerBlock, states: make([]msChannelState, channels)}
}

func (e *msEncoder) Encode(f codec.Frame) error {
	frames := f.FrameCount()
	if frames < 2 {
		return nil
	}
	header := make([]byte, 0, msBlockHeaderBytes*e.channels)
	for ch := 0; ch < e.channels; ch++ {
		sample2 := clampToInt16(f.Data[ch])
		sample1 := clampToInt16(f.Data[e.channels+ch])
		// Initial delta: a quarter of the first sample-to-sample change,
		// never below the decoder's floor of 16.
		delta := (int32(sample1) - int32(sample2)) / 4
		if delta < 0 {
			delta = -delta
		}
		if delta < 16 {
			delta = 16
		}
		e.states[ch] = msChannelState{coef1: msCoefficients[0][0], coef2: msCoefficients[0][1], delta: delta, sample1: int32(sample1), sample2: int32(sample2)}
		header = append(header, 0, byte(e.states[ch].delta), byte(e.states[ch].delta>>8),
			byte(sample1), byte(sample1>>8), byte(sample2), byte(sample2>>8))
	}
	if _, err := e.w.Write(header); err != nil {
		return err
	}

	bw := bitio.NewWriter(e.w)
	for i := 2; i < frames; i++ {
		for ch := 0; ch < e.channels; ch++ {
			target := clampToInt16(f.Data[i*e.channels+ch])
			nib := e.states[ch].encodeNibble(target)
			if err := bw.WriteBits(uint64(nib), 4); err != nil {
				return err
			}
		}
	}
	return bw.Close()
}

func (e *msEncoder) Close() error { return nil }
