package adpcm

import (
	"io"

	"github.com/sndcore/wavcore/codec"
)

// yamahaBlockHeaderBytes mirrors imaBlockHeaderBytes: predictor:i16,
// stepIndex:u8, reserved:u8 per channel. Yamaha ADPCM (format tag 0x0020)
// shares IMA's step-index adaptation with a shorter, coarser step table.
const yamahaBlockHeaderBytes = 4

type yamahaDecoder struct {
	r               io.Reader
	channels        int
	blockAlign      int
	samplesPerBlock int
	states          []channelState
}

func NewYamahaDecoder(r io.Reader, channels, blockAlign, samplesPerBlock int) *yamahaDecoder {
	return &yamahaDecoder{r: r, channels: channels, blockAlign: blockAlign, samplesPerBlock: samplesPerBlock, states: make([]channelState, channels)}
}

func (d *yamahaDecoder) Decode() (codec.Frame, error) {
	raw, n, err := readAll(d.r, d.blockAlign)
	if err != nil {
		return codec.Frame{}, err
	}
	if n < yamahaBlockHeaderBytes*d.channels {
		return codec.Frame{}, io.EOF
	}

	out := make([]float64, 0, d.samplesPerBlock*d.channels)
	pos := 0
	firstFrame := make([]int16, d.channels)
	for ch := 0; ch < d.channels; ch++ {
		predictor := int16(uint16(raw[pos]) | uint16(raw[pos+1])<<8)
		stepIndex := int(raw[pos+2])
		if stepIndex >= len(yamahaStepTable) {
			stepIndex = len(yamahaStepTable) - 1
		}
		d.states[ch] = channelState{predictor: int32(predictor), stepIndex: stepIndex}
		firstFrame[ch] = predictor
		pos += yamahaBlockHeaderBytes
	}
	for ch := 0; ch < d.channels; ch++ {
		out = append(out, float64(firstFrame[ch])/32768.0)
	}

	nibbleData := raw[pos:]
	remainingFrames := d.samplesPerBlock - 1
	if remainingFrames < 0 {
		remainingFrames = 0
	}
	nibbles := make([]byte, 0, remainingFrames*d.channels)
	for _, b := range nibbleData {
		nibbles = append(nibbles, b&0x0F, (b>>4)&0x0F)
	}

	idx := 0
	for i := 0; i < remainingFrames; i++ {
		for ch := 0; ch < d.channels; ch++ {
			if idx >= len(nibbles) {
				break
			}
			s := decodeImaLikeNibble(&d.states[ch], nibbles[idx], yamahaStepTable)
			out = append(out, float64(s)/32768.0)
			idx++
		}
	}
	if len(out) == 0 {
		return codec.Frame{}, io.EOF
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *yamahaDecoder) Close() error { return nil }

type yamahaEncoder struct {
	w               io.Writer
	channels        int
	samplesPerBlock int
	states          []channelState
}

func NewYamahaEncoder(w io.Writer, channels, samplesPerBlock int) *yamahaEncoder {
	return &yamahaEncoder{w: w, channels: channels, samplesPerBlock: samplesPerBlock, states: make([]channelState, channels)}
}

func (e *yamahaEncoder) Encode(f codec.Frame) error {
	frames := f.FrameCount()
	if frames == 0 {
		return nil
	}
	header := make([]byte, 0, yamahaBlockHeaderBytes*e.channels)
	for ch := 0; ch < e.channels; ch++ {
		first := clampToInt16(f.Data[ch])
		e.states[ch] = channelState{predictor: int32(first), stepIndex: 0}
		header = append(header, byte(first), byte(first>>8), 0, 0)
	}
	if _, err := e.w.Write(header); err != nil {
		return err
	}

	var nibbleBuf []byte
	var pending byte
	havePending := false
	flush := func(nib byte) {
		if !havePending {
			pending = nib
			havePending = true
			return
		}
		nibbleBuf = append(nibbleBuf, pending|(nib<<4))
		havePending = false
	}

	for i := 1; i < frames; i++ {
		for ch := 0; ch < e.channels; ch++ {
			sample := clampToInt16(f.Data[i*e.channels+ch])
			nib := encodeImaLikeNibble(&e.states[ch], sample, yamahaStepTable)
			flush(nib)
		}
	}
	if havePending {
		nibbleBuf = append(nibbleBuf, pending)
	}
	_, err := e.w.Write(nibbleBuf)
	return err
}

func (e *yamahaEncoder) Close() error { return nil }
