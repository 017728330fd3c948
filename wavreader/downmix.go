package wavreader

import "github.com/sndcore/wavcore/sample"

// ChannelMixFunc derives a per-channel (left, right) contribution pair from
// a channel count and a WAVEFORMATEXTENSIBLE channel mask. Downmix is
// explicitly out of scope for the core container engine (spec.md §1:
// "specified only by the contracts the core consumes from them") — the
// Reader only calls into whatever ChannelMixFunc it's given, so a caller
// with different mixing rules can supply one instead of DefaultChannelMix.
type ChannelMixFunc func(mask uint32, channels int) [][2]float64

// DefaultChannelMix is the standard WAVEFORMATEXTENSIBLE mix: channels
// tagged with a left-side position contribute fully to the left output,
// right-side channels to the right, and center/LFE channels split evenly
// between both. Channels with no mask bit set (or no mask present at all)
// split evenly, matching a naive N-to-stereo fold rather than failing the
// downmix.
func DefaultChannelMix(mask uint32, channels int) [][2]float64 {
	bitsInOrder := []uint32{
		0x1, 0x2, 0x4, 0x8, 0x10, 0x20, 0x40, 0x80,
		0x100, 0x200, 0x400, 0x800, 0x1000, 0x2000, 0x4000, 0x8000, 0x10000, 0x20000,
	}
	leftBits := map[uint32]bool{0x1: true, 0x10: true, 0x40: true, 0x200: true}
	rightBits := map[uint32]bool{0x2: true, 0x20: true, 0x80: true, 0x400: true}

	weights := make([][2]float64, channels)
	if mask == 0 {
		for i := range weights {
			weights[i] = [2]float64{0.5, 0.5}
		}
		return weights
	}

	present := make([]uint32, 0, channels)
	for _, b := range bitsInOrder {
		if mask&b != 0 {
			present = append(present, b)
		}
	}
	for i := range weights {
		if i >= len(present) {
			weights[i] = [2]float64{0.5, 0.5}
			continue
		}
		b := present[i]
		switch {
		case leftBits[b]:
			weights[i] = [2]float64{1, 0}
		case rightBits[b]:
			weights[i] = [2]float64{0, 1}
		default:
			weights[i] = [2]float64{0.5, 0.5}
		}
	}
	return weights
}

// DownmixStereoIter folds a stream with more than two channels down to
// stereo using a ChannelMixFunc.
type DownmixStereoIter[T sample.Numeric] struct {
	*FrameIter[T]
	weights [][2]float64
}

// DownmixStereoIterOf builds a DownmixStereoIter using DefaultChannelMix. Use
// DownmixStereoIterWith to supply a different mixing rule.
func DownmixStereoIterOf[T sample.Numeric](rd *Reader) (*DownmixStereoIter[T], error) {
	return DownmixStereoIterWith[T](rd, DefaultChannelMix)
}

// DownmixStereoIterWith builds a DownmixStereoIter using the given
// ChannelMixFunc in place of DefaultChannelMix.
func DownmixStereoIterWith[T sample.Numeric](rd *Reader, mix ChannelMixFunc) (*DownmixStereoIter[T], error) {
	if rd.spec.Channels <= 2 {
		return nil, WrongChannelCount(3, int(rd.spec.Channels))
	}
	it, err := FrameIterOf[T](rd)
	if err != nil {
		return nil, err
	}
	return &DownmixStereoIter[T]{FrameIter: it, weights: mix(rd.spec.ChannelMask, int(rd.spec.Channels))}, nil
}

func (it *DownmixStereoIter[T]) Next() (T, T, error) {
	f, err := it.FrameIter.Next()
	if err != nil {
		var zero T
		return zero, zero, err
	}
	var l, r float64
	for ch, v := range f {
		fv := sample.ScaleFrom[float64](v)
		w := it.weights[ch]
		l += fv * w[0]
		r += fv * w[1]
	}
	return sample.ScaleFrom[T](l), sample.ScaleFrom[T](r), nil
}

// DownmixMonoIter folds a stream with more than two channels down to mono by
// equal-weight average.
type DownmixMonoIter[T sample.Numeric] struct {
	*FrameIter[T]
}

func DownmixMonoIterOf[T sample.Numeric](rd *Reader) (*DownmixMonoIter[T], error) {
	if rd.spec.Channels <= 2 {
		return nil, WrongChannelCount(3, int(rd.spec.Channels))
	}
	it, err := FrameIterOf[T](rd)
	if err != nil {
		return nil, err
	}
	return &DownmixMonoIter[T]{it}, nil
}

func (it *DownmixMonoIter[T]) Next() (T, error) {
	f, err := it.FrameIter.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	var sum float64
	for _, v := range f {
		sum += sample.ScaleFrom[float64](v)
	}
	return sample.ScaleFrom[T](sum / float64(len(f))), nil
}
