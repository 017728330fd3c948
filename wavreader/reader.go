// Package wavreader is the read side of the container: open a path or
// stream, expose the parsed Spec/DataFormat/Metadata, and hand out
// independent per-call frame iterators. Grounded on the teacher's
// Player/audioDecoder composition (internal/player/player.go,
// internal/player/decoder.go): one handle (Player) owning many decode-state
// objects (audioDecoder implementations), each with its own read cursor.
package wavreader

import (
	"encoding/binary"
	"io"

	"github.com/sndcore/wavcore/bio"
	"github.com/sndcore/wavcore/riff"
	"github.com/sndcore/wavcore/wavfmt"
	"github.com/sndcore/wavcore/wavsource"
)

// Reader holds the parsed container graph and immutable stream descriptor.
// Per spec.md §5, the Spec, ChunkNode graph and Metadata are shared
// read-only state; nothing about opening a new iterator mutates them.
type Reader struct {
	source     *wavsource.Source
	root       *riff.Root
	spec       wavfmt.Spec
	dataFormat wavfmt.DataFormat
	extra      wavfmt.ExtraParams
	blockAlign uint16
	metadata   riff.Metadata
	dataOffset int64
	dataSize   uint64
}

// Open opens path directly as the seekable source.
func Open(path string) (*Reader, error) {
	src, err := wavsource.OpenPath(path)
	if err != nil {
		return nil, ErrFileNotFound
	}
	return open(src)
}

// OpenSource wraps an arbitrary reader (materializing a scratch copy if it
// isn't an *os.File, even when it is seekable; see wavsource.OpenStream).
func OpenSource(r io.Reader) (*Reader, error) {
	src, err := wavsource.OpenStream(r)
	if err != nil {
		return nil, err
	}
	return open(src)
}

func open(src *wavsource.Source) (*Reader, error) {
	root, err := riff.Scan(src.Reader())
	if err != nil {
		if err == riff.ErrUnexpectedEOF {
			return nil, ErrTruncatedChunk
		}
		return nil, err
	}

	fmtChunk := root.Find("fmt ")
	if fmtChunk == nil {
		return nil, ErrUnsupportedFormat
	}
	dataChunk := root.Find("data")
	if dataChunk == nil {
		return nil, ErrUnsupportedFormat
	}

	spec, df, extra, err := wavfmt.ParseFmtChunk(fmtChunk.Inline)
	if err != nil {
		return nil, ErrMalformedExtension
	}

	var blockAlign uint16
	if len(fmtChunk.Inline) >= 14 {
		blockAlign = binary.LittleEndian.Uint16(fmtChunk.Inline[12:14])
	}

	r := &Reader{
		source:     src,
		root:       root,
		spec:       spec,
		dataFormat: df,
		extra:      extra,
		blockAlign: blockAlign,
		metadata:   riff.ParseMetadata(root),
		dataOffset: dataChunk.Offset,
		dataSize:   dataChunk.Size,
	}
	return r, nil
}

func (r *Reader) Spec() *wavfmt.Spec             { return &r.spec }
func (r *Reader) DataFormat() *wavfmt.DataFormat { return &r.dataFormat }
func (r *Reader) Metadata() *riff.Metadata       { return &r.metadata }

// Close releases the underlying source (and any scratch file it created).
func (r *Reader) Close() error { return r.source.Close() }

// openDataReader opens an independent seekable handle positioned at the
// start of the 'data' payload, for one iterator's exclusive use.
func (r *Reader) openDataReader() (io.ReadSeeker, io.Closer, error) {
	rs, closer, err := r.source.Reopen()
	if err != nil {
		return nil, nil, err
	}
	if _, err := rs.Seek(r.dataOffset, io.SeekStart); err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, nil, err
	}
	return rs, closer, nil
}

// boundedDataReader wraps rs so reads never run past the declared 'data'
// payload length, using bio.BoundedReader.
func boundedDataReader(rs io.Reader, size uint64) io.Reader {
	return bio.BoundedReader(rs, int64(size))
}
