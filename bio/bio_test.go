package bio

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.U32(0xDEADBEEF))
	require.NoError(t, w.I16(-1234))
	require.NoError(t, w.I24(-100))
	require.NoError(t, w.FourCC(NewFourCC("fmt ")))
	require.Equal(t, int64(4+2+3+4), w.Written())

	r := NewReader(&buf)
	u, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u)

	i16, err := r.I16()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), i16)

	i24, err := r.I24()
	require.NoError(t, err)
	require.Equal(t, int32(-100), i24)

	tag, err := r.FourCC()
	require.NoError(t, err)
	require.Equal(t, "fmt ", tag.String())
}

func TestReadPastEndReturnsDistinguishableError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	_, err := r.U32()
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestBoundedReaderLimitsRegardlessOfSourceLength(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xAA}, 100))
	bounded := BoundedReader(src, 10)
	got, err := io.ReadAll(bounded)
	require.NoError(t, err)
	require.Len(t, got, 10)
}

func TestCountingWriterTracksBytes(t *testing.T) {
	var buf bytes.Buffer
	cw := &CountingWriter{W: &buf}
	_, _ = cw.Write([]byte("hello"))
	_, _ = cw.Write([]byte("world!"))
	require.Equal(t, int64(11), cw.Count)
}
