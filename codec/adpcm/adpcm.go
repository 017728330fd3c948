// Package adpcm implements the three ADPCM dialects spec.md §1 names:
// Microsoft ADPCM (format tag 0x0002), IMA ADPCM (0x0011), and Yamaha ADPCM
// (0x0020). No file anywhere in the retrieval pack implements ADPCM (a
// recursive case-insensitive grep for "adpcm" across every example repo and
// other_examples/ file turns up nothing), so the block framing and predictor
// state machines here are written directly from each dialect's published
// bit-level algorithm, in the teacher's reader/writer-struct idiom (block
// header fields as named struct fields; IMA and Yamaha nibbles are unpacked
// by manual bit shifts, MS nibbles through icza/bitio).
package adpcm

import (
	"io"

	"github.com/sndcore/wavcore/codec"
)

// Dialect selects which ADPCM variant's block framing and predictor tables
// a Decoder/Encoder uses.
type Dialect int

const (
	MS Dialect = iota
	IMA
	Yamaha
)

func clampInt16(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// clampToInt16 converts a normalized [-1,1] sample to a clamped 16-bit
// linear PCM value, the common intermediate representation every ADPCM
// dialect predicts against.
func clampToInt16(v float64) int16 {
	scaled := v * 32768.0
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// channelState is the per-channel predictor state shared across the IMA and
// Yamaha step-index predictors (the MS dialect uses msChannelState instead,
// since it predicts from two prior samples rather than a step index).
type channelState struct {
	predictor int32
	stepIndex int
}

var imaIndexTable = [16]int{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

var imaStepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// yamahaStepTable is the first 49 entries of the IMA step table, unscaled;
// Yamaha ADPCM shares IMA's index-delta table but clamps the step index
// range to [0,48] against this shorter table, per the format's common
// OKI/Yamaha ADPCM description.
var yamahaStepTable = imaStepTable[:49]

func decodeImaLikeNibble(st *channelState, nibble byte, steps []int32) int16 {
	step := steps[st.stepIndex]
	diff := step >> 3
	if nibble&1 != 0 {
		diff += step >> 2
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&8 != 0 {
		diff = -diff
	}
	st.predictor = clampAccum(st.predictor + diff)

	st.stepIndex += imaIndexTable[nibble]
	if st.stepIndex < 0 {
		st.stepIndex = 0
	}
	if st.stepIndex >= len(steps) {
		st.stepIndex = len(steps) - 1
	}
	return int16(st.predictor)
}

func encodeImaLikeNibble(st *channelState, sample int16, steps []int32) byte {
	step := steps[st.stepIndex]
	diffVal := int32(sample) - st.predictor
	nibble := byte(0)
	if diffVal < 0 {
		nibble = 8
		diffVal = -diffVal
	}
	stepCopy := step
	delta := step >> 3
	mask := byte(4)
	for mask > 0 {
		if diffVal >= stepCopy {
			nibble |= mask
			diffVal -= stepCopy
			delta += stepCopy
		}
		stepCopy >>= 1
		mask >>= 1
	}
	if nibble&8 != 0 {
		st.predictor = clampAccum(st.predictor - delta)
	} else {
		st.predictor = clampAccum(st.predictor + delta)
	}
	st.stepIndex += imaIndexTable[nibble]
	if st.stepIndex < 0 {
		st.stepIndex = 0
	}
	if st.stepIndex >= len(steps) {
		st.stepIndex = len(steps) - 1
	}
	return nibble
}

func clampAccum(v int32) int32 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return v
}

// defaultBlockBytes is a conservative ADPCM block byte length; no code in
// this module references it.
const defaultBlockBytes = 512

var _ codec.Decoder = (*imaDecoder)(nil)
var _ codec.Encoder = (*imaEncoder)(nil)

func readAll(r io.Reader, n int) ([]byte, int, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(r, buf)
	if got == 0 {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, err
	}
	if err == io.ErrUnexpectedEOF {
		return buf[:got], got, nil
	}
	if err != nil && err != io.EOF {
		return nil, 0, err
	}
	return buf[:got], got, nil
}
