package pcm

import (
	"io"

	"github.com/sndcore/wavcore/bio"
	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/sample"
	"github.com/sndcore/wavcore/wavfmt"
)

// Encoder writes codec.Frame values out as raw PCM bytes in the element
// type wavfmt.Spec declares.
type Encoder struct {
	w    *bio.Writer
	kind sample.Kind
}

func NewEncoder(w io.Writer, spec wavfmt.Spec) (*Encoder, error) {
	kind, err := kindFor(spec)
	if err != nil {
		return nil, err
	}
	return &Encoder{w: bio.NewWriter(w), kind: kind}, nil
}

func (e *Encoder) Encode(f codec.Frame) error {
	for _, v := range f.Data {
		if err := encodeOne(e.w, v, e.kind); err != nil {
			return err
		}
	}
	return nil
}

func encodeOne(w *bio.Writer, v float64, k sample.Kind) error {
	switch k {
	case sample.KindInt8:
		return w.I8(sample.ScaleFrom[int8](v))
	case sample.KindUint8:
		return w.U8(sample.ScaleFrom[uint8](v))
	case sample.KindInt16:
		return w.I16(sample.ScaleFrom[int16](v))
	case sample.KindUint16:
		return w.U16(sample.ScaleFrom[uint16](v))
	case sample.KindInt24:
		return w.I24(int32(sample.ScaleFrom[sample.Int24](v)))
	case sample.KindUint24:
		return w.U24(uint32(sample.ScaleFrom[sample.Uint24](v)))
	case sample.KindInt32:
		return w.I32(sample.ScaleFrom[int32](v))
	case sample.KindUint32:
		return w.U32(sample.ScaleFrom[uint32](v))
	case sample.KindInt64:
		return w.I64(sample.ScaleFrom[int64](v))
	case sample.KindUint64:
		return w.U64(sample.ScaleFrom[uint64](v))
	case sample.KindFloat32:
		return w.F32(sample.ScaleFrom[float32](v))
	default:
		return w.F64(v)
	}
}

func (e *Encoder) Close() error { return nil }
