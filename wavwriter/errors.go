package wavwriter

import "errors"

// CreateError sentinels, per spec.md §4.I.
var (
	ErrUnsupportedSpecForFormat = errors.New("wavwriter: spec unsupported for data format")
	ErrSinkNotWritable          = errors.New("wavwriter: sink not writable")
)

// ParameterError continuation for the write side, per spec.md §7: once a
// Writer is finalized or has recorded a write failure, every subsequent
// write_* call returns one of these rather than touching the sink again.
// Finalize returns ErrWriterPoisoned after a failure, and nil when the
// Writer is already finalized.
var (
	ErrWriterAfterFinalize = errors.New("wavwriter: write after finalize")
	ErrWriterPoisoned      = errors.New("wavwriter: writer poisoned by a previous error")
)
