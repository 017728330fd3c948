package wavreader

import (
	"io"

	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/sample"
)

// FrameIter yields successive multi-channel frames of type T, each a
// Channels()-long slice in channel order. It owns an independent decoder
// instance and (where the source is reopenable) its own file descriptor,
// per spec.md §5.
type FrameIter[T sample.Numeric] struct {
	dec      codec.Decoder
	closer   io.Closer
	channels int

	block []float64 // the current decoded block, normalized float64
	pos   int        // frame offset (not element offset) within block
}

// FrameIterOf opens a new frame iterator of element type T over rd. Callers
// may open as many concurrent iterators as they like; each is independent.
func FrameIterOf[T sample.Numeric](rd *Reader) (*FrameIter[T], error) {
	raw, closer, err := rd.openDataReader()
	if err != nil {
		return nil, err
	}
	var rs io.ReadSeeker
	if s, ok := raw.(io.ReadSeeker); ok {
		rs = s
	}
	dec, err := rd.newDecoder(raw, rs)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	return &FrameIter[T]{dec: dec, closer: closer, channels: int(rd.spec.Channels)}, nil
}

// Channels reports the frame width this iterator yields.
func (it *FrameIter[T]) Channels() int { return it.channels }

// Next returns the next frame (one sample per channel, in channel order),
// or io.EOF once the stream is exhausted.
func (it *FrameIter[T]) Next() ([]T, error) {
	if it.pos*it.channels >= len(it.block) {
		if err := it.fill(); err != nil {
			return nil, err
		}
	}
	frame := make([]T, it.channels)
	base := it.pos * it.channels
	for ch := 0; ch < it.channels; ch++ {
		frame[ch] = sample.ScaleFrom[T](it.block[base+ch])
	}
	it.pos++
	return frame, nil
}

func (it *FrameIter[T]) fill() error {
	f, err := it.dec.Decode()
	if err != nil {
		return err
	}
	it.block = f.Data
	it.pos = 0
	if len(it.block) == 0 {
		return io.EOF
	}
	return nil
}

// Seek repositions the iterator to the given zero-based frame index when its
// decoder implements codec.SeekableDecoder (of the decoders newDecoder
// builds, the PCM and Ogg-Vorbis ones); for any other decoder it returns
// io.ErrNoProgress. An error from SeekFrame itself is returned unchanged.
func (it *FrameIter[T]) Seek(frameIndex int64) error {
	sk, ok := it.dec.(codec.SeekableDecoder)
	if !ok {
		return io.ErrNoProgress
	}
	if err := sk.SeekFrame(frameIndex); err != nil {
		return err
	}
	it.block = nil
	it.pos = 0
	return nil
}

// Close releases the iterator's decoder and (if independently opened) file
// descriptor.
func (it *FrameIter[T]) Close() error {
	err := it.dec.Close()
	if it.closer != nil {
		if cErr := it.closer.Close(); err == nil {
			err = cErr
		}
	}
	return err
}

// StereoIter specialises FrameIter for exactly two channels.
type StereoIter[T sample.Numeric] struct{ *FrameIter[T] }

// StereoIterOf requires rd.Spec().Channels == 2.
func StereoIterOf[T sample.Numeric](rd *Reader) (*StereoIter[T], error) {
	if rd.spec.Channels != 2 {
		return nil, WrongChannelCount(2, int(rd.spec.Channels))
	}
	it, err := FrameIterOf[T](rd)
	if err != nil {
		return nil, err
	}
	return &StereoIter[T]{it}, nil
}

// Next returns the next (left, right) pair.
func (it *StereoIter[T]) Next() (T, T, error) {
	f, err := it.FrameIter.Next()
	if err != nil {
		var zero T
		return zero, zero, err
	}
	return f[0], f[1], nil
}

// MonoIter specialises FrameIter for exactly one channel.
type MonoIter[T sample.Numeric] struct{ *FrameIter[T] }

// MonoIterOf requires rd.Spec().Channels == 1.
func MonoIterOf[T sample.Numeric](rd *Reader) (*MonoIter[T], error) {
	if rd.spec.Channels != 1 {
		return nil, WrongChannelCount(1, int(rd.spec.Channels))
	}
	it, err := FrameIterOf[T](rd)
	if err != nil {
		return nil, err
	}
	return &MonoIter[T]{it}, nil
}

// Next returns the next sample.
func (it *MonoIter[T]) Next() (T, error) {
	f, err := it.FrameIter.Next()
	if err != nil {
		var zero T
		return zero, err
	}
	return f[0], nil
}
