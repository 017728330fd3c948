package xlaw

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestALawRoundTripIsCloseWithinQuantizationError(t *testing.T) {
	for _, v := range []int16{0, 1000, -1000, 32000, -32000, 16384} {
		enc := encodeALaw(v)
		dec := decodeALaw(enc)
		require.InDelta(t, float64(v), float64(dec), math.Abs(float64(v))/16+64)
	}
}

func TestMuLawRoundTripIsCloseWithinQuantizationError(t *testing.T) {
	for _, v := range []int16{0, 1000, -1000, 32000, -32000, 16384} {
		enc := encodeMuLaw(v)
		dec := decodeMuLaw(enc)
		require.InDelta(t, float64(v), float64(dec), math.Abs(float64(v))/16+128)
	}
}

// A-law has no zero code: 0 encodes to the smallest positive step, 8.
func TestALawZeroRoundTripsToSmallestStep(t *testing.T) {
	require.Equal(t, int16(8), decodeALaw(encodeALaw(0)))
}
