// Package wavwriter is the write side of the container: create a sink,
// stream encoded frames into its 'data' chunk without buffering the whole
// payload in memory, and finalize the container once the total size is
// known. Grounded on riff.Writer's "placeholder header, streamed body,
// patched sizes" shape, itself grounded on
// other_examples/834facee_jonchammer-audio-io__wave-chunks.go.go, and on the
// teacher's metadata handling (internal/player/metadata.go) for
// InheritMetadataFromReader.
package wavwriter

import (
	"io"

	"github.com/sndcore/wavcore/bio"
	"github.com/sndcore/wavcore/codec"
	"github.com/sndcore/wavcore/riff"
	"github.com/sndcore/wavcore/sample"
	"github.com/sndcore/wavcore/wavfmt"
	"github.com/sndcore/wavcore/wavreader"
)

var (
	tagFmt  = bio.NewFourCC("fmt ")
	tagFact = bio.NewFourCC("fact")
	tagList = bio.NewFourCC("LIST")
	tagID3  = bio.NewFourCC("id3 ")
)

// FileSizeOption selects how a Writer decides between the classic 32-bit
// RIFF form and the RF64/ds64 64-bit form at Finalize, per spec.md §4.I.
type FileSizeOption uint8

const (
	// NeverLargerThan4GB finalizes as classic RIFF unconditionally; Finalize
	// fails rather than silently truncating if the payload exceeds 4 GiB.
	NeverLargerThan4GB FileSizeOption = iota
	// AllowLargerThan4GB finalizes as classic RIFF when the payload fits,
	// and falls back to RF64 only when it doesn't.
	AllowLargerThan4GB
	// ForceRF64Format always finalizes as RF64, regardless of final size.
	ForceRF64Format
)

// riff4GBLimit is the largest payload size representable in a 32-bit RIFF
// size field, per spec.md §6 (payloads larger than it require RF64/ds64).
const riff4GBLimit = 0xFFFFFFFE

// Writer streams one audio stream's frames into a freshly created RIFF/
// RF64/BW64 container. A Writer is single-stream and single-goroutine: it
// has no internal locking, matching spec.md §5's "one Writer, one frame
// producer" model.
type Writer struct {
	sink     io.WriteSeeker
	riffW    *riff.Writer
	spec     wavfmt.Spec
	df       wavfmt.DataFormat
	fileSize FileSizeOption

	enc      codec.Encoder
	counting *bio.CountingWriter
	channels int

	hasFact        bool  // whether a 'fact' chunk was written (non-PCM variants)
	factOffset     int64 // payload offset of fact's 4-byte sample count field, when hasFact
	dataSizeOffset int64 // offset of the 'data' chunk's 4-byte size field

	frameCount uint64
	metadata   riff.Metadata

	finalized bool
	poisoned  error
}

// CreateOptions configures Create beyond the bare Spec/DataFormat pair.
type CreateOptions struct {
	FileSize      FileSizeOption
	Collaborators Collaborators
}

// Create opens sink for writing: it writes the RIFF/RF64 placeholder
// header, the 'fmt ' chunk, and — for non-PCM variants — a reserved 'fact'
// slot, then returns a Writer ready to accept frames. Per spec.md §4.I, an
// incompatible Spec/DataFormat pairing fails fast here rather than partway
// through writing frames.
func Create(sink io.WriteSeeker, spec wavfmt.Spec, df wavfmt.DataFormat, opt CreateOptions) (*Writer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var extra wavfmt.ExtraParams
	var adpcmSamples int
	if df.Variant == wavfmt.VariantAdpcm {
		adpcmSamples = adpcmSamplesPerBlock(spec)
		extra.SamplesPerBlock = uint16(adpcmSamples)
		// EmitFmtChunk only serializes extra.Raw, not SamplesPerBlock
		// directly; a 2-byte tail is exactly what ParseFmtChunk reads back
		// on the read side.
		extra.Raw = []byte{byte(adpcmSamples), byte(adpcmSamples >> 8)}
	}
	blockAlign, bytesPerSec := computeRates(spec, df, adpcmSamples)
	fmtPayload, err := wavfmt.EmitFmtChunk(spec, df, blockAlign, bytesPerSec, extra)
	if err != nil {
		return nil, ErrUnsupportedSpecForFormat
	}

	riffW, err := riff.NewWriter(sink)
	if err != nil {
		return nil, ErrSinkNotWritable
	}
	if opt.FileSize == ForceRF64Format {
		// Known up front: reserve the ds64 slot now rather than splicing it
		// in later at Finalize.
		if err := riffW.ReserveDs64(); err != nil {
			return nil, ErrSinkNotWritable
		}
	}
	if err := riffW.WriteChunk(tagFmt, fmtPayload); err != nil {
		return nil, ErrSinkNotWritable
	}

	// Per spec.md §6's canonical layout, 'fact' is only present for
	// non-PCM variants (PCM's frame count is already implied by the
	// 'data' chunk's byte length and the 'fmt ' block-align).
	hasFact := df.Variant != wavfmt.VariantPcm
	var factOff int64
	if hasFact {
		factOff, err = sink.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, ErrSinkNotWritable
		}
		factOff += 8 // past the 'fact' tag and size fields, to the payload
		if err := riffW.WriteChunk(tagFact, make([]byte, 4)); err != nil {
			return nil, ErrSinkNotWritable
		}
	}

	dataHeaderOff, err := sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ErrSinkNotWritable
	}
	if err := riffW.WriteDataChunkHeader(0); err != nil {
		return nil, ErrSinkNotWritable
	}

	cw := &bio.CountingWriter{W: sink}
	enc, err := newEncoder(cw, spec, df, opt.Collaborators)
	if err != nil {
		return nil, err
	}

	return &Writer{
		sink:           sink,
		riffW:          riffW,
		spec:           spec,
		df:             df,
		fileSize:       opt.FileSize,
		enc:            enc,
		counting:       cw,
		channels:       int(spec.Channels),
		hasFact:        hasFact,
		factOffset:     factOff,
		dataSizeOffset: dataHeaderOff + 4,
	}, nil
}

// SetMetadata replaces the Writer's pending INFO/ID3 metadata, written out
// at Finalize.
func (w *Writer) SetMetadata(md riff.Metadata) { w.metadata = md }

// InheritMetadataFromReader copies rd's metadata into w, generalizing the
// teacher's ReadMetadata merge (internal/player/metadata.go). When
// overwrite is false, entries (and the ID3 blob) already present on w are
// left untouched; source entries win only for tags w doesn't already carry.
func (w *Writer) InheritMetadataFromReader(rd *wavreader.Reader, overwrite bool) {
	src := rd.Metadata()
	for _, e := range src.Entries {
		if !overwrite {
			if _, ok := w.metadata.Get(string(e.Tag[:])); ok {
				continue
			}
		}
		w.metadata.Set(string(e.Tag[:]), e.Value)
	}
	if len(src.ID3) > 0 && (overwrite || len(w.metadata.ID3) == 0) {
		w.metadata.ID3 = src.ID3
	}
}

// encodeFrames pushes one block of normalized interleaved samples (frames
// multi-channel frames, channels-wide each) through the codec encoder,
// poisoning the Writer on the first failure per spec.md §7.
func (w *Writer) encodeFrames(data []float64, frames int) error {
	if w.finalized {
		return ErrWriterAfterFinalize
	}
	if w.poisoned != nil {
		return ErrWriterPoisoned
	}
	if err := w.enc.Encode(codec.Frame{Data: data, Channels: w.channels}); err != nil {
		w.poisoned = err
		return err
	}
	w.frameCount += uint64(frames)
	return nil
}

// WriteFrame writes a single multi-channel frame (one sample per channel,
// in channel order).
func WriteFrame[T sample.Numeric](w *Writer, frame []T) error {
	data := make([]float64, len(frame))
	for i, v := range frame {
		data[i] = sample.ScaleFrom[float64](v)
	}
	return w.encodeFrames(data, 1)
}

// WriteFrames writes a batch of multi-channel frames.
func WriteFrames[T sample.Numeric](w *Writer, frames [][]T) error {
	data := make([]float64, 0, len(frames)*w.channels)
	for _, f := range frames {
		for _, v := range f {
			data = append(data, sample.ScaleFrom[float64](v))
		}
	}
	return w.encodeFrames(data, len(frames))
}

// WriteStereos writes a batch of (left, right) pairs; w must have been
// created with Spec.Channels == 2.
func WriteStereos[T sample.Numeric](w *Writer, pairs [][2]T) error {
	data := make([]float64, 0, len(pairs)*2)
	for _, p := range pairs {
		data = append(data, sample.ScaleFrom[float64](p[0]), sample.ScaleFrom[float64](p[1]))
	}
	return w.encodeFrames(data, len(pairs))
}

// WriteMonoChannel writes a batch of single-channel samples; w must have
// been created with Spec.Channels == 1.
func WriteMonoChannel[T sample.Numeric](w *Writer, samples []T) error {
	data := make([]float64, len(samples))
	for i, v := range samples {
		data[i] = sample.ScaleFrom[float64](v)
	}
	return w.encodeFrames(data, len(samples))
}

// Finalize flushes the codec's tail, writes the deferred 'fact'/LIST-INFO/
// id3 content, patches the 'data' chunk size and root header, and picks the
// 32-bit or 64-bit container form per FileSizeOption. It is idempotent: a
// second call is a no-op returning nil. A failed Finalize poisons the
// Writer and leaves the sink in a well-defined truncated state, per
// spec.md §4.I.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	if w.poisoned != nil {
		return ErrWriterPoisoned
	}

	if err := w.enc.Close(); err != nil {
		w.poisoned = err
		return err
	}

	dataSize := uint64(w.counting.Count)
	var pad byte
	if dataSize%2 == 1 {
		if _, err := w.sink.Write([]byte{0}); err != nil {
			w.poisoned = err
			return err
		}
		pad = 1
	}

	if err := w.patchU32(w.dataSizeOffset, uint32(dataSize)); err != nil {
		w.poisoned = err
		return err
	}

	if w.hasFact {
		if _, err := w.sink.Seek(0, io.SeekEnd); err != nil {
			w.poisoned = err
			return err
		}
		if err := w.patchU32(w.factOffset, uint32(w.frameCount)); err != nil {
			w.poisoned = err
			return err
		}
		if _, err := w.sink.Seek(0, io.SeekEnd); err != nil {
			w.poisoned = err
			return err
		}
	}

	if len(w.metadata.Entries) > 0 {
		if err := w.riffW.WriteChunk(tagList, riff.EmitInfoList(w.metadata.Entries)); err != nil {
			w.poisoned = err
			return err
		}
	}
	if len(w.metadata.ID3) > 0 {
		if err := w.riffW.WriteChunk(tagID3, w.metadata.ID3); err != nil {
			w.poisoned = err
			return err
		}
	}

	end, err := w.sink.Seek(0, io.SeekEnd)
	if err != nil {
		w.poisoned = err
		return err
	}
	totalPayload := uint64(end) - 8 // everything after the root tag+size fields

	useRF64 := w.fileSize == ForceRF64Format || (w.fileSize == AllowLargerThan4GB && totalPayload > riff4GBLimit)
	if !useRF64 && totalPayload > riff4GBLimit {
		w.poisoned = ErrUnsupportedSpecForFormat
		return w.poisoned
	}

	if useRF64 {
		err = w.riffW.FinalizeAsRF64(&riff.Ds64{
			RiffSize:    totalPayload,
			DataSize:    dataSize,
			SampleCount: w.frameCount,
		})
	} else {
		err = w.riffW.FinalizeAsRIFF(pad, uint32(totalPayload))
	}
	if err != nil {
		w.poisoned = err
		return err
	}

	w.finalized = true
	return nil
}

// patchU32 seeks to offset, writes v, and returns to the end of the stream.
func (w *Writer) patchU32(offset int64, v uint32) error {
	if _, err := w.sink.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	bw := bio.NewWriter(w.sink)
	if err := bw.U32(v); err != nil {
		return err
	}
	_, err := w.sink.Seek(0, io.SeekEnd)
	return err
}

// computeRates derives nBlockAlign/nAvgBytesPerSec for the 'fmt ' chunk.
// For uncompressed variants these are exact; for encapsulated codecs they
// are the closed-form estimate readers typically tolerate as advisory,
// since the true per-block byte count only exists inside the codec.
func computeRates(spec wavfmt.Spec, df wavfmt.DataFormat, adpcmSamplesPerBlock int) (blockAlign uint16, bytesPerSec uint32) {
	switch df.Variant {
	case wavfmt.VariantPcm:
		elemBytes := uint16(spec.BitsPerSample / 8)
		blockAlign = elemBytes * uint16(spec.Channels)
		bytesPerSec = uint32(blockAlign) * spec.SampleRate
	case wavfmt.VariantPcmALaw, wavfmt.VariantPcmMuLaw:
		blockAlign = uint16(spec.Channels)
		bytesPerSec = uint32(blockAlign) * spec.SampleRate
	case wavfmt.VariantAdpcm:
		blockAlign = uint16(adpcmBlockAlign(df.AdpcmDialect, int(spec.Channels), adpcmSamplesPerBlock))
		if adpcmSamplesPerBlock > 0 {
			bytesPerSec = uint32(blockAlign) * spec.SampleRate / uint32(adpcmSamplesPerBlock)
		}
	default:
		blockAlign = 1
		bps := bitrateFor(df)
		if bps > 0 {
			bytesPerSec = uint32(bps / 8)
		} else {
			bytesPerSec = spec.SampleRate * uint32(spec.Channels)
		}
	}
	return blockAlign, bytesPerSec
}

func bitrateFor(df wavfmt.DataFormat) int {
	switch df.Variant {
	case wavfmt.VariantMp3:
		return df.Mp3.Bitrate.Bps
	case wavfmt.VariantOpus:
		return df.Opus.Bitrate.Bps
	case wavfmt.VariantOggVorbis, wavfmt.VariantNakedVorbis:
		return df.Vorbis.Bitrate.Bps
	default:
		return 0
	}
}
