package adpcm

import (
	"io"

	"github.com/sndcore/wavcore/codec"
)

// imaBlockHeaderBytes is 4 bytes/channel: predictor:i16, stepIndex:u8, reserved:u8.
const imaBlockHeaderBytes = 4

type imaDecoder struct {
	r          io.Reader
	channels   int
	blockAlign int
	samplesPerBlock int
	states     []channelState
}

// NewIMADecoder decodes IMA ADPCM blocks of blockAlign bytes each.
func NewIMADecoder(r io.Reader, channels, blockAlign, samplesPerBlock int) *imaDecoder {
	return &imaDecoder{r: r, channels: channels, blockAlign: blockAlign, samplesPerBlock: samplesPerBlock, states: make([]channelState, channels)}
}

func (d *imaDecoder) Decode() (codec.Frame, error) {
	raw, n, err := readAll(d.r, d.blockAlign)
	if err != nil {
		return codec.Frame{}, err
	}
	if n < imaBlockHeaderBytes*d.channels {
		return codec.Frame{}, io.EOF
	}

	out := make([]float64, 0, d.samplesPerBlock*d.channels)

	pos := 0
	firstFrame := make([]int16, d.channels)
	for ch := 0; ch < d.channels; ch++ {
		predictor := int16(uint16(raw[pos]) | uint16(raw[pos+1])<<8)
		stepIndex := int(raw[pos+2])
		if stepIndex < 0 {
			stepIndex = 0
		}
		if stepIndex >= len(imaStepTable) {
			stepIndex = len(imaStepTable) - 1
		}
		d.states[ch] = channelState{predictor: int32(predictor), stepIndex: stepIndex}
		firstFrame[ch] = predictor
		pos += imaBlockHeaderBytes
	}
	for ch := 0; ch < d.channels; ch++ {
		out = append(out, float64(firstFrame[ch])/32768.0)
	}

	nibbleData := raw[pos:]
	remainingFrames := d.samplesPerBlock - 1
	if remainingFrames < 0 {
		remainingFrames = 0
	}

	// Nibbles are packed sample-major (frame 1's channels, then frame 2's,
	// ...), two per byte (first nibble in the low bits), mirroring the
	// encoder's emission order exactly.
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
			s := decodeImaLikeNibble(&d.states[ch], nibbles[idx], imaStepTable[:])
			out = append(out, float64(s)/32768.0)
			idx++
		}
	}
	if len(out) == 0 {
		return codec.Frame{}, io.EOF
	}
	return codec.Frame{Data: out, Channels: d.channels}, nil
}

func (d *imaDecoder) Close() error { return nil }

type imaEncoder struct {
	w               io.Writer
	channels        int
	samplesPerBlock int
	states          []channelState
}

func NewIMAEncoder(w io.Writer, channels, samplesPerBlock int) *imaEncoder {
	return &imaEncoder{w: w, channels: channels, samplesPerBlock: samplesPerBlock, states: make([]channelState, channels)}
}

func (e *imaEncoder) Encode(f codec.Frame) error {
	frames := f.FrameCount()
	if frames == 0 {
		return nil
	}
	header := make([]byte, 0, imaBlockHeaderBytes*e.channels)
	for ch := 0; ch < e.channels; ch++ {
		first := clampToInt16(f.Data[ch])
		// Start at the smallest step covering the first sample-to-sample
		// change; the header carries it to the decoder.
		stepIndex := 0
		if frames > 1 {
			diff := int32(clampToInt16(f.Data[e.channels+ch])) - int32(first)
			if diff < 0 {
				diff = -diff
			}
			for stepIndex < len(imaStepTable)-1 && imaStepTable[stepIndex] < diff {
				stepIndex++
			}
		}
		e.states[ch] = channelState{predictor: int32(first), stepIndex: stepIndex}
		header = append(header, byte(first), byte(first>>8), byte(stepIndex), 0)
	}
	if _, err := e.w.Write(header); err != nil {
		return err
	}

	var nibbleBuf []byte
	var pending byte
	havePending := false
	flush := func(nib byte) error {
		if !havePending {
			pending = nib
			havePending = true
			return nil
		}
		nibbleBuf = append(nibbleBuf, pending|(nib<<4))
		havePending = false
		return nil
	}

	for i := 1; i < frames; i++ {
		for ch := 0; ch < e.channels; ch++ {
			sample := clampToInt16(f.Data[i*e.channels+ch])
			nib := encodeImaLikeNibble(&e.states[ch], sample, imaStepTable[:])
			_ = flush(nib)
		}
	}
	if havePending {
		nibbleBuf = append(nibbleBuf, pending)
	}
	_, err := e.w.Write(nibbleBuf)
	return err
}

func (e *imaEncoder) Close() error { return nil }
