// Package riff implements the chunk engine: scanning a RIFF/RF64/BW64
// container into a ChunkNode graph, the ds64 64-bit size sidecar, and
// canonical-order emission. Grounded on
// other_examples/834facee_jonchammer-audio-io__wave-chunks.go.go's
// Chunk/RIFFChunkData/ReadRIFFChunk model, generalised to RF64/ds64 per
// spec.md §4.C/§6.
package riff

import (
	"errors"
	"fmt"
)

var (
	// ErrNotARiff is returned when the stream's first four bytes are not
	// "RIFF", "RF64", or a recognised BW64 root tag.
	ErrNotARiff = errors.New("riff: not a RIFF/RF64/BW64 container")
	// ErrUnexpectedEOF is returned when the stream ends before a declared
	// chunk's payload or header is fully readable.
	ErrUnexpectedEOF = errors.New("riff: unexpected end of stream")
	// ErrDeclaredLengthExceedsStream identifies a chunk whose declared size
	// runs past the end of the enclosing container. Scan does not return
	// it: a chunk cut short by the end of the stream yields ErrUnexpectedEOF.
	ErrDeclaredLengthExceedsStream = errors.New("riff: declared chunk length exceeds stream")
	// ErrDuplicateChunk identifies a chunk tag that must be unique
	// (fmt , data, ds64) appearing more than once at the same level. Scan
	// does not check for duplicates and does not return it.
	ErrDuplicateChunk = errors.New("riff: duplicate chunk")
	// ErrMissingRequiredChunk identifies a required chunk (fmt , data)
	// absent from the graph. Nothing in this module returns it; wavreader
	// reports a missing fmt or data chunk as its own ErrUnsupportedFormat.
	ErrMissingRequiredChunk = errors.New("riff: missing required chunk")
	// ErrDs64Mismatch is the non-fatal warning sentinel for when a 32-bit
	// size field and the ds64 override disagree; callers log and prefer ds64.
	ErrDs64Mismatch = errors.New("riff: ds64 size disagrees with 32-bit field")
	// ErrSinkNotReadable is returned by FinalizeAsRF64 when the ds64 sidecar
	// must be spliced into an already-written stream but the sink doesn't
	// also support io.Reader.
	ErrSinkNotReadable = errors.New("riff: sink does not support the read-back needed to splice in ds64")
)

func NotARiff(gotTag string) error {
	return fmt.Errorf("%w: got %q", ErrNotARiff, gotTag)
}

func DeclaredLengthExceedsStream(tag string, declared, available int64) error {
	return fmt.Errorf("%w: chunk %q declares %d bytes, only %d available", ErrDeclaredLengthExceedsStream, tag, declared, available)
}

func DuplicateChunk(tag string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateChunk, tag)
}

func MissingRequiredChunk(tag string) error {
	return fmt.Errorf("%w: %q", ErrMissingRequiredChunk, tag)
}

func Ds64Mismatch(tag string, field32 uint32, field64 uint64) error {
	return fmt.Errorf("%w: chunk %q field32=%d ds64=%d", ErrDs64Mismatch, tag, field32, field64)
}
