// Package wavsource adapts path-based and stream-based inputs into the
// single io.ReadSeeker shape wavreader builds on, materializing a scratch
// copy of the payload for any source that isn't already an *os.File, so
// that every Source can hand out independent read cursors by reopening its
// backing path. Grounded on the teacher's newFromDecoder/countingReader
// split (internal/player/player.go): the *os.File case keeps the original
// descriptor and just tracks position, while anything else is read once
// into backing storage.
package wavsource

import (
	"errors"
	"io"
	"os"
)

// Source is an opened, seekable handle to WAV container bytes, plus enough
// bookkeeping to know whether closing it should also remove a scratch file.
type Source struct {
	rs      io.ReadSeeker
	closer  io.Closer
	scratch string // non-empty when a temp file backs this Source
}

// OpenPath opens path directly as an *os.File; the OS file itself is the
// seekable source, with no scratch copy required.
func OpenPath(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{rs: f, closer: f}, nil
}

// OpenStream wraps r. An *os.File is used directly, the same as OpenPath,
// since Reopen can always duplicate it by reopening its path. Every other
// reader — including one that already implements io.ReadSeeker, such as a
// bytes.Reader — is copied into a delete-on-close scratch file in the OS
// temp directory: only a real file backs a seekable source reliably enough
// for Reopen to hand out independent cursors (per spec.md §5, every
// iterator gets its own read cursor; an arbitrary caller-supplied
// io.ReadSeeker has no way to be duplicated without reading it twice, which
// isn't guaranteed safe).
func OpenStream(r io.Reader) (*Source, error) {
	if f, ok := r.(*os.File); ok {
		return &Source{rs: f, closer: f}, nil
	}

	f, err := os.CreateTemp("", "wavcore-scratch-*.wav")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	return &Source{rs: f, closer: f, scratch: f.Name()}, nil
}

// Reader exposes the underlying seekable stream.
func (s *Source) Reader() io.ReadSeeker { return s.rs }

// Reopen returns an independent seekable handle over the same bytes, used
// so each wavreader iterator gets its own read cursor (spec.md §5: "the
// Reader opens an independent descriptor per iterator"). Both OpenPath and
// OpenStream only ever back a Source with an *os.File — the original path,
// or a scratch copy — so reopening that path always yields an independent
// descriptor.
func (s *Source) Reopen() (io.ReadSeeker, io.Closer, error) {
	f := s.rs.(*os.File)
	dup, err := os.Open(f.Name())
	if err != nil {
		return nil, nil, err
	}
	return dup, dup, nil
}

// Close releases the underlying file descriptor (if any) and removes the
// scratch file (if one was created).
func (s *Source) Close() error {
	var err error
	if s.closer != nil {
		err = s.closer.Close()
	}
	if s.scratch != "" {
		if rmErr := os.Remove(s.scratch); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			if err == nil {
				err = rmErr
			}
		}
	}
	return err
}
