package sample

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var allKinds = []Kind{
	KindInt8, KindUint8, KindInt16, KindUint16, KindInt24, KindUint24,
	KindInt32, KindUint32, KindInt64, KindUint64, KindFloat32, KindFloat64,
}

func TestRangeBoundsPerKind(t *testing.T) {
	min, max := Range(KindInt8)
	require.Equal(t, -128.0, min)
	require.Equal(t, 127.0, max)

	min, max = Range(KindUint16)
	require.Equal(t, 0.0, min)
	require.Equal(t, 65535.0, max)

	min, max = Range(KindFloat32)
	require.Equal(t, -1.0, min)
	require.Equal(t, 1.0, max)
}

func TestScaleFromIdentityIsBitwiseEqual(t *testing.T) {
	require.Equal(t, int16(1234), ScaleFrom[int16](int16(1234)))
	require.Equal(t, float32(0.5), ScaleFrom[float32](float32(0.5)))
	require.Equal(t, Int24(-100), ScaleFrom[Int24](Int24(-100)))
}

func TestScaleFromIntUpDownRoundTrip(t *testing.T) {
	// int8 -> int16 is an exact up-conversion (pure shift).
	require.Equal(t, int16(256), ScaleFrom[int16](int8(1)))
	require.Equal(t, int16(-32768), ScaleFrom[int16](int8(-128)))
	require.Equal(t, int16(32512), ScaleFrom[int16](int8(127)))

	// int16 -> int8 is a lossy down-conversion (arithmetic shift by 8).
	require.Equal(t, int8(-128), ScaleFrom[int8](int16(-32768)))
	require.Equal(t, int8(127), ScaleFrom[int8](int16(32767)))
	require.Equal(t, int8(0), ScaleFrom[int8](int16(0)))
}

func TestScaleFromSignedUnsignedCentring(t *testing.T) {
	require.Equal(t, uint8(128), ScaleFrom[uint8](int8(0)))
	require.Equal(t, uint8(0), ScaleFrom[uint8](int8(-128)))
	require.Equal(t, uint8(255), ScaleFrom[uint8](int8(127)))

	require.Equal(t, int8(-128), ScaleFrom[int8](uint8(0)))
	require.Equal(t, int8(0), ScaleFrom[int8](uint8(128)))
	require.Equal(t, int8(127), ScaleFrom[int8](uint8(255)))
}

func TestScaleFromFloatToIntClampsAndRounds(t *testing.T) {
	require.Equal(t, int16(32767), ScaleFrom[int16](float32(2.0)))
	require.Equal(t, int16(-32768), ScaleFrom[int16](float32(-2.0)))
	require.Equal(t, int16(0), ScaleFrom[int16](float32(0.0)))
}

func TestScaleFromIntToFloatNormalizes(t *testing.T) {
	require.InDelta(t, 1.0, ScaleFrom[float32](int16(32767)), 0.001)
	require.InDelta(t, -1.0, ScaleFrom[float32](int16(-32768)), 0.0001)
	require.InDelta(t, 0.0, ScaleFrom[float32](uint8(128)), 0.01)
}

// TestMatrixTotalAtBoundaries verifies spec property 2: for every ordered
// pair (S, T) and the four boundary values (min, min+1, mid, max), scale_from
// returns a value within range(T); the identity pair is bitwise equal.
func TestMatrixTotalAtBoundaries(t *testing.T) {
	for _, sk := range allKinds {
		smin, smax := Range(sk)
		boundaries := []float64{smin, smin + 1, (smin + smax) / 2, smax}
		for _, tk := range allKinds {
			tmin, tmax := Range(tk)
			for _, b := range boundaries {
				got := scaleDispatch(sk, tk, b)
				require.GreaterOrEqual(t, got, tmin-0.5, "S=%v T=%v b=%v", sk, tk, b)
				require.LessOrEqual(t, got, tmax+0.5, "S=%v T=%v b=%v", sk, tk, b)
			}
		}
	}
}

// widenToFloat widens any Numeric result to float64 for cross-kind comparison.
func widenToFloat[T Numeric](v T) float64 {
	k := KindOf[T]()
	ki := info(k)
	if ki.float {
		return asFloat64(v)
	}
	if ki.signed {
		return float64(asInt64(v))
	}
	return float64(asUint64(v))
}

// convertTo dispatches ScaleFrom at runtime from a known S to a Kind-selected T.
func convertTo[S Numeric](tk Kind, s S) float64 {
	switch tk {
	case KindInt8:
		return widenToFloat(ScaleFrom[int8](s))
	case KindUint8:
		return widenToFloat(ScaleFrom[uint8](s))
	case KindInt16:
		return widenToFloat(ScaleFrom[int16](s))
	case KindUint16:
		return widenToFloat(ScaleFrom[uint16](s))
	case KindInt24:
		return widenToFloat(ScaleFrom[Int24](s))
	case KindUint24:
		return widenToFloat(ScaleFrom[Uint24](s))
	case KindInt32:
		return widenToFloat(ScaleFrom[int32](s))
	case KindUint32:
		return widenToFloat(ScaleFrom[uint32](s))
	case KindInt64:
		return widenToFloat(ScaleFrom[int64](s))
	case KindUint64:
		return widenToFloat(ScaleFrom[uint64](s))
	case KindFloat32:
		return widenToFloat(ScaleFrom[float32](s))
	case KindFloat64:
		return widenToFloat(ScaleFrom[float64](s))
	default:
		panic("bad kind")
	}
}

// scaleDispatch performs ScaleFrom for a (sk, tk) pair chosen at runtime, on
// a boundary value expressed in S's native range.
func scaleDispatch(sk, tk Kind, sval float64) float64 {
	switch sk {
	case KindInt8:
		return convertTo(tk, int8(sval))
	case KindUint8:
		return convertTo(tk, uint8(sval))
	case KindInt16:
		return convertTo(tk, int16(sval))
	case KindUint16:
		return convertTo(tk, uint16(sval))
	case KindInt24:
		return convertTo(tk, Int24(sval))
	case KindUint24:
		return convertTo(tk, Uint24(sval))
	case KindInt32:
		return convertTo(tk, int32(sval))
	case KindUint32:
		return convertTo(tk, uint32(sval))
	case KindInt64:
		return convertTo(tk, int64(sval))
	case KindUint64:
		return convertTo(tk, uint64(sval))
	case KindFloat32:
		return convertTo(tk, float32(sval))
	case KindFloat64:
		return convertTo(tk, float64(sval))
	default:
		panic("bad kind")
	}
}
