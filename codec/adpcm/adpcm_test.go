package adpcm

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sndcore/wavcore/codec"
)

func sineFrame(frames, channels int) codec.Frame {
	data := make([]float64, frames*channels)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(float64(i)*0.2)
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = v
		}
	}
	return codec.Frame{Data: data, Channels: channels}
}

func TestIMARoundTripStaysClose(t *testing.T) {
	const channels, samplesPerBlock = 1, 32
	src := sineFrame(samplesPerBlock, channels)

	var buf bytes.Buffer
	enc := NewIMAEncoder(&buf, channels, samplesPerBlock)
	require.NoError(t, enc.Encode(src))

	dec := NewIMADecoder(&buf, channels, buf.Len(), samplesPerBlock)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, got.Data, samplesPerBlock)

	for i, v := range src.Data {
		require.InDelta(t, v, got.Data[i], 0.1)
	}
}

func TestYamahaRoundTripStaysClose(t *testing.T) {
	const channels, samplesPerBlock = 1, 32
	src := sineFrame(samplesPerBlock, channels)

	var buf bytes.Buffer
	enc := NewYamahaEncoder(&buf, channels, samplesPerBlock)
	require.NoError(t, enc.Encode(src))

	dec := NewYamahaDecoder(&buf, channels, buf.Len(), samplesPerBlock)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, got.Data, samplesPerBlock)
}

func TestMSRoundTripStaysClose(t *testing.T) {
	const channels, samplesPerBlock = 1, 32
	src := sineFrame(samplesPerBlock, channels)

	var buf bytes.Buffer
	enc := NewMSEncoder(&buf, channels, samplesPerBlock)
	require.NoError(t, enc.Encode(src))

	dec := NewMSDecoder(&buf, channels, buf.Len(), samplesPerBlock)
	got, err := dec.Decode()
	require.NoError(t, err)
	require.Len(t, got.Data, samplesPerBlock)

	for i, v := range src.Data {
		require.InDelta(t, v, got.Data[i], 0.15)
	}
}
