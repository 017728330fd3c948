package riff

import (
	"io"

	"github.com/sndcore/wavcore/bio"
)

var tagJUNK = bio.NewFourCC("JUNK")

// ds64SlotPayloadSize is the byte length reserved for the ds64 sidecar
// (riffSize:u64, dataSize:u64, sampleCount:u64, tableLength:u32, no table
// entries): spec.md's chunks of interest (fmt , fact, data) never themselves
// exceed 4 GiB in isolation, so a writer never needs ds64 table entries in
// practice and reserves a fixed, table-less slot.
const ds64SlotPayloadSize = 8 + 8 + 8 + 4

// Writer emits a chunk container incrementally: a placeholder root header,
// then the caller's chunks in canonical order, and finally a patch pass once
// the total size is known. Per spec.md §6's canonical layout, 'ds64' exists
// on disk only for a container that finalizes as RF64 — a classic 32-bit
// RIFF file never carries one. Grounded on RIFFChunkData.Serialize's
// "preamble written, body appended, sizes patched" shape from
// other_examples/834facee_jonchammer-audio-io__wave-chunks.go.go.
type Writer struct {
	w            io.WriteSeeker
	rootOffset   int64 // offset of the 4-byte root size field
	bodyOffset   int64 // offset right after "WAVE", where ds64 belongs if present
	ds64Offset   int64 // offset of the reserved 'ds64' chunk's own header, once reserved
	ds64Reserved bool
}

// NewWriter writes the 12-byte placeholder root header (tag TBD, size 0,
// "WAVE") and returns a Writer positioned to accept the first real chunk.
// It does not reserve a ds64 slot: callers that already know the container
// will finalize as RF64 (e.g. ForceRF64Format) should call ReserveDs64
// immediately afterward; everyone else gets the slot spliced in at
// FinalizeAsRF64 time only if it turns out to be needed.
func NewWriter(w io.WriteSeeker) (*Writer, error) {
	rw := &Writer{w: w}
	bw := bio.NewWriter(w)

	rw.rootOffset = 4 // the size field sits right after the 4-byte tag
	if err := bw.FourCC(tagRIFF); err != nil {
		return nil, err
	}
	if err := bw.U32(0); err != nil {
		return nil, err
	}
	if err := bw.FourCC(tagWAVE); err != nil {
		return nil, err
	}

	off, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	rw.bodyOffset = off
	return rw, nil
}

// ReserveDs64 pre-reserves a table-less ds64-shaped slot immediately after
// the root header, for a caller that has already committed to RF64 before
// writing any other chunk. Must be called, if at all, before WriteChunk.
func (rw *Writer) ReserveDs64() error {
	bw := bio.NewWriter(rw.w)
	rw.ds64Offset = rw.bodyOffset
	rw.ds64Reserved = true
	return EmitChunk(bw, tagDs64, make([]byte, ds64SlotPayloadSize))
}

// WriteChunk appends tag/payload in canonical position (caller is
// responsible for canonical ordering: fmt , fact, LIST-INFO, id3 , data).
func (rw *Writer) WriteChunk(tag bio.FourCC, payload []byte) error {
	bw := bio.NewWriter(rw.w)
	return EmitChunk(bw, tag, payload)
}

// WriteDataChunkHeader writes the 'data' chunk header only; the caller
// streams the payload directly to the underlying writer afterward (the
// bulk audio payload is never buffered in memory).
func (rw *Writer) WriteDataChunkHeader(declaredSize uint32) error {
	bw := bio.NewWriter(rw.w)
	if err := bw.FourCC(tagData); err != nil {
		return err
	}
	return bw.U32(declaredSize)
}

// FinalizeAsRIFF writes the real 32-bit root size. If a ds64 slot was
// reserved up front (ReserveDs64) but the container ends up fitting under
// the 32-bit threshold after all, that slot is relabeled in place to an
// inert 'JUNK' chunk of the same length rather than removed, since shifting
// already-written chunks to reclaim the space isn't worth the complexity
// for what should be a rare path (a caller that opted into ReserveDs64
// unconditionally commits to RF64 in practice). The common case — no
// ReserveDs64 call — has no slot to patch at all.
func (rw *Writer) FinalizeAsRIFF(dataPad byte, totalPayloadSize uint32) error {
	if rw.ds64Reserved {
		if _, err := rw.w.Seek(rw.ds64Offset, io.SeekStart); err != nil {
			return err
		}
		bw := bio.NewWriter(rw.w)
		if err := bw.FourCC(tagJUNK); err != nil {
			return err
		}
		// leave the size field and payload bytes untouched: JUNK's declared
		// size still matches ds64SlotPayloadSize, so the chunk remains
		// self-describing and skippable by any reader that doesn't recognise it.
	}

	if _, err := rw.w.Seek(rw.rootOffset, io.SeekStart); err != nil {
		return err
	}
	bw := bio.NewWriter(rw.w)
	return bw.U32(totalPayloadSize)
}

// FinalizeAsRF64 rewrites the root tag to 'RF64', the root size field to the
// 0xFFFFFFFF sentinel, and writes the ds64 sidecar with authoritative
// values: into the already-reserved slot if ReserveDs64 was called, or
// spliced in immediately after "WAVE" otherwise (shifting every chunk
// already written forward by the sidecar's length). The splice path
// requires w to also support io.Reader (true of *os.File and similar real
// sinks); ErrSinkNotReadable is returned if it doesn't.
func (rw *Writer) FinalizeAsRF64(d *Ds64) error {
	if rw.ds64Reserved {
		if _, err := rw.w.Seek(rw.ds64Offset, io.SeekStart); err != nil {
			return err
		}
		bw := bio.NewWriter(rw.w)
		if err := EmitChunk(bw, tagDs64, d.Emit()); err != nil {
			return err
		}
	} else if err := rw.spliceInDs64(d); err != nil {
		return err
	}

	if _, err := rw.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	bw := bio.NewWriter(rw.w)
	if err := bw.FourCC(tagRF64); err != nil {
		return err
	}
	return bw.U32(sizePlaceholder)
}

// spliceInDs64 inserts a fresh ds64 chunk right after "WAVE" by reading
// back everything written so far from that point on, rewriting the ds64
// chunk in its place, and replaying the saved tail after it.
func (rw *Writer) spliceInDs64(d *Ds64) error {
	rs, ok := rw.w.(io.ReadWriteSeeker)
	if !ok {
		return ErrSinkNotReadable
	}

	if _, err := rs.Seek(rw.bodyOffset, io.SeekStart); err != nil {
		return err
	}
	tail, err := io.ReadAll(rs)
	if err != nil {
		return err
	}

	if _, err := rs.Seek(rw.bodyOffset, io.SeekStart); err != nil {
		return err
	}
	bw := bio.NewWriter(rs)
	if err := EmitChunk(bw, tagDs64, d.Emit()); err != nil {
		return err
	}
	if _, err := rs.Write(tail); err != nil {
		return err
	}

	rw.ds64Offset = rw.bodyOffset
	rw.ds64Reserved = true
	return nil
}
