// Package pcm implements the codec.Decoder/Encoder pair for uncompressed
// linear PCM: the 'data' chunk's bytes are the samples, laid out exactly as
// wavfmt.Spec describes, so decode/encode is a pure element-type conversion
// through sample.ScaleFrom. Grounded on
// other_examples/2607e54f_CWBudde-wav__decoder.go.go's sampleDecodeFunc/
// normalizePCMInt dispatch-by-bit-depth shape, generalised across the twelve
// element types via sample.Kind instead of a hand-written switch per width.
package pcm

import (
	"io"

	"github.com/sndcore/wavcore/bio"
	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/sample"
	"github.com/sndcore/wavcore/wavfmt"
)

// blockFrames is the number of multi-channel frames decoded per Decode call,
// chosen to keep memory bounded on very large 'data' chunks.
const blockFrames = 4096

// Decoder reads raw PCM bytes from r and normalizes them to codec.Frame.
type Decoder struct {
	r        io.Reader
	rs       io.ReadSeeker // non-nil when the source supports SeekFrame
	dataOff  int64
	kind     sample.Kind
	channels int
	elemSize int
}

// NewDecoder builds a PCM decoder over the given 'data' payload reader.
// rs, if non-nil, must be positioned at dataOffset and is used for SeekFrame.
func NewDecoder(r io.Reader, rs io.ReadSeeker, dataOffset int64, spec wavfmt.Spec) (*Decoder, error) {
	kind, err := kindFor(spec)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		r: r, rs: rs, dataOff: dataOffset,
		kind: kind, channels: int(spec.Channels), elemSize: elemSize(kind),
	}, nil
}

func kindFor(spec wavfmt.Spec) (sample.Kind, error) {
	switch spec.SampleFormat {
	case wavfmt.FormatFloat:
		switch spec.BitsPerSample {
		case 32:
			return sample.KindFloat32, nil
		case 64:
			return sample.KindFloat64, nil
		}
	case wavfmt.FormatInt:
		switch spec.BitsPerSample {
		case 8:
			return sample.KindInt8, nil
		case 16:
			return sample.KindInt16, nil
		case 24:
			return sample.KindInt24, nil
		case 32:
			return sample.KindInt32, nil
		case 64:
			return sample.KindInt64, nil
		}
	case wavfmt.FormatUint:
		switch spec.BitsPerSample {
		case 8:
			return sample.KindUint8, nil
		case 16:
			return sample.KindUint16, nil
		case 24:
			return sample.KindUint24, nil
		case 32:
			return sample.KindUint32, nil
		case 64:
			return sample.KindUint64, nil
		}
	}
	return 0, wavfmt.UnsupportedBitDepth(spec.BitsPerSample, spec.SampleFormat)
}

func elemSize(k sample.Kind) int {
	switch k {
	case sample.KindInt8, sample.KindUint8:
		return 1
	case sample.KindInt16, sample.KindUint16:
		return 2
	case sample.KindInt24, sample.KindUint24:
		return 3
	case sample.KindInt32, sample.KindUint32, sample.KindFloat32:
		return 4
	default:
		return 8
	}
}

func (d *Decoder) Decode() (codec.Frame, error) {
	raw := make([]byte, blockFrames*d.channels*d.elemSize)
	n, err := io.ReadFull(d.r, raw)
	if n == 0 {
		if err == io.EOF {
			return codec.Frame{}, io.EOF
		}
		if err != nil {
			return codec.Frame{}, err
		}
	}
	if err == io.ErrUnexpectedEOF {
		raw = raw[: n-(n%d.elemSize)]
	} else if err != nil && err != io.EOF {
		return codec.Frame{}, err
	}

	samples := n / d.elemSize
	out := make([]float64, samples)
	decodeInto(out, raw[:samples*d.elemSize], d.kind)

	return codec.Frame{Data: out, Channels: d.channels}, nil
}

// decodeInto widens each raw element to its native Go type via bio, then
// normalizes to float64 via sample.ScaleFrom[float64].
func decodeInto(out []float64, raw []byte, k sample.Kind) {
	br := bio.NewReader(sliceReader(raw))
	for i := range out {
		out[i] = decodeOne(br, k)
	}
}

func decodeOne(r *bio.Reader, k sample.Kind) float64 {
	switch k {
	case sample.KindInt8:
		v, _ := r.I8()
		return sample.ScaleFrom[float64](v)
	case sample.KindUint8:
		v, _ := r.U8()
		return sample.ScaleFrom[float64](v)
	case sample.KindInt16:
		v, _ := r.I16()
		return sample.ScaleFrom[float64](v)
	case sample.KindUint16:
		v, _ := r.U16()
		return sample.ScaleFrom[float64](v)
	case sample.KindInt24:
		v, _ := r.I24()
		return sample.ScaleFrom[float64](sample.Int24(v))
	case sample.KindUint24:
		v, _ := r.U24()
		return sample.ScaleFrom[float64](sample.Uint24(v))
	case sample.KindInt32:
		v, _ := r.I32()
		return sample.ScaleFrom[float64](v)
	case sample.KindUint32:
		v, _ := r.U32()
		return sample.ScaleFrom[float64](v)
	case sample.KindInt64:
		v, _ := r.I64()
		return sample.ScaleFrom[float64](v)
	case sample.KindUint64:
		v, _ := r.U64()
		return sample.ScaleFrom[float64](v)
	case sample.KindFloat32:
		v, _ := r.F32()
		return float64(v)
	default:
		v, _ := r.F64()
		return v
	}
}

func (d *Decoder) SeekFrame(frameIndex int64) error {
	if d.rs == nil {
		return io.ErrNoProgress
	}
	off := d.dataOff + frameIndex*int64(d.channels*d.elemSize)
	_, err := d.rs.Seek(off, io.SeekStart)
	return err
}

func (d *Decoder) Close() error { return nil }

// sliceReader adapts a []byte to io.Reader without an extra allocation
// indirection beyond bytes.Reader would need; kept local to avoid importing
// bytes just for this.
type sliceReaderT struct {
	b []byte
	i int
}

func sliceReader(b []byte) *sliceReaderT { return &sliceReaderT{b: b} }

func (s *sliceReaderT) Read(p []byte) (int, error) {
	if s.i >= len(s.b) {
		return 0, io.EOF
	}
	n := copy(p, s.b[s.i:])
	s.i += n
	return n, nil
}
