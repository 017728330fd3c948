package riff

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sndcore/wavcore/bio"
)

// buildMinimalWav assembles a tiny RIFF/WAVE stream: fmt (16 bytes) + data (4
// bytes), for scan tests. Chunk order is deliberately fmt-then-data.
func buildMinimalWav(t *testing.T, fmtFirst bool) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString("WAVE")

	fmtChunk := func(buf *bytes.Buffer) {
		buf.WriteString("fmt ")
		w := bio.NewWriter(buf)
		_ = w.U32(16)
		_ = w.U16(1)
		_ = w.U16(1)
		_ = w.U32(8000)
		_ = w.U32(16000)
		_ = w.U16(2)
		_ = w.U16(16)
	}
	dataChunk := func(buf *bytes.Buffer) {
		buf.WriteString("data")
		w := bio.NewWriter(buf)
		_ = w.U32(4)
		_ = w.Bytes([]byte{1, 2, 3, 4})
	}

	if fmtFirst {
		fmtChunk(&body)
		dataChunk(&body)
	} else {
		dataChunk(&body)
		fmtChunk(&body)
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	w := bio.NewWriter(&out)
	_ = w.U32(uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestScanFindsFmtAndDataRegardlessOfOrder(t *testing.T) {
	for _, fmtFirst := range []bool{true, false} {
		raw := buildMinimalWav(t, fmtFirst)
		root, err := Scan(bytes.NewReader(raw))
		require.NoError(t, err)
		require.False(t, root.Is64)
		require.Equal(t, "WAVE", root.Form.String())

		fmtNode := root.Find("fmt ")
		require.NotNil(t, fmtNode)
		require.Len(t, fmtNode.Inline, 16)

		dataNode := root.Find("data")
		require.NotNil(t, dataNode)
		require.Equal(t, uint64(4), dataNode.Size)
		require.Nil(t, dataNode.Inline, "data payload must be byte-range referenced, not inlined")
	}
}

func TestScanRejectsNonRiffStream(t *testing.T) {
	_, err := Scan(bytes.NewReader([]byte("JUNKxxxxWAVE")))
	require.ErrorIs(t, err, ErrNotARiff)
}

func TestDs64RoundTrip(t *testing.T) {
	d := &Ds64{RiffSize: 1 << 33, DataSize: 1 << 32, SampleCount: 999999, Table: []Ds64TableEntry{
		{Tag: bio.NewFourCC("fact"), Size: 4},
	}}
	encoded := d.Emit()
	got, err := ParseDs64(encoded)
	require.NoError(t, err)
	require.Equal(t, d.RiffSize, got.RiffSize)
	require.Equal(t, d.DataSize, got.DataSize)
	require.Equal(t, d.SampleCount, got.SampleCount)
	require.Len(t, got.Table, 1)
	require.Equal(t, d.Table[0].Size, got.Table[0].Size)
}

func TestWriterFinalizeAsRIFFWithoutReserveLeavesNoDs64Slot(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk(bio.NewFourCC("fmt "), make([]byte, 16)))
	require.NoError(t, w.WriteDataChunkHeader(4))
	_, err = buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	total := uint32(buf.Len() - 8)
	require.NoError(t, w.FinalizeAsRIFF(0, total))

	root, err := Scan(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.False(t, root.Is64)
	require.Nil(t, root.Find("JUNK"))
	require.Nil(t, root.Find("ds64"))
	// canonical layout: fmt immediately after "WAVE", no reserved slot ahead of it.
	require.Equal(t, "fmt ", root.Chunks[0].Tag.String())
}

func TestWriterFinalizeAsRIFFWithReserveRelabelsSlotAsJunk(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf)
	require.NoError(t, err)
	require.NoError(t, w.ReserveDs64())
	require.NoError(t, w.WriteChunk(bio.NewFourCC("fmt "), make([]byte, 16)))
	require.NoError(t, w.WriteDataChunkHeader(4))
	_, err = buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	total := uint32(buf.Len() - 8)
	require.NoError(t, w.FinalizeAsRIFF(0, total))

	root, err := Scan(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.False(t, root.Is64)
	junk := root.Find("JUNK")
	require.NotNil(t, junk)
	require.EqualValues(t, ds64SlotPayloadSize, junk.Size)
}

func TestWriterFinalizeAsRF64SplicesDs64WithoutReserve(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk(bio.NewFourCC("fmt "), make([]byte, 16)))
	require.NoError(t, w.WriteDataChunkHeader(0xFFFFFFFF))
	_, err = buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	d := &Ds64{RiffSize: uint64(buf.Len() - 8), DataSize: 4, SampleCount: 1}
	require.NoError(t, w.FinalizeAsRF64(d))

	root, err := Scan(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, root.Is64)
	require.NotNil(t, root.Ds64)
	require.Equal(t, uint64(4), root.Ds64.DataSize)
	// spliced in ahead of fmt, per canonical layout.
	require.Equal(t, "ds64", root.Chunks[0].Tag.String())
	fmtNode := root.Find("fmt ")
	require.NotNil(t, fmtNode)
	dataNode := root.Find("data")
	require.Equal(t, uint64(4), dataNode.Size)
}

func TestWriterFinalizeAsRF64WithReserveWritesAuthoritativeDs64(t *testing.T) {
	buf := &seekBuf{}
	w, err := NewWriter(buf)
	require.NoError(t, err)
	require.NoError(t, w.ReserveDs64())
	require.NoError(t, w.WriteChunk(bio.NewFourCC("fmt "), make([]byte, 16)))
	require.NoError(t, w.WriteDataChunkHeader(0xFFFFFFFF))
	_, err = buf.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	d := &Ds64{RiffSize: uint64(buf.Len() - 8), DataSize: 4, SampleCount: 1}
	require.NoError(t, w.FinalizeAsRF64(d))

	root, err := Scan(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, root.Is64)
	require.NotNil(t, root.Ds64)
	require.Equal(t, uint64(4), root.Ds64.DataSize)
	dataNode := root.Find("data")
	require.Equal(t, uint64(4), dataNode.Size)
}

func TestSpliceInDs64RequiresReadableSink(t *testing.T) {
	buf := &writeOnlySeekBuf{}
	w, err := NewWriter(buf)
	require.NoError(t, err)
	require.NoError(t, w.WriteChunk(bio.NewFourCC("fmt "), make([]byte, 16)))

	err = w.FinalizeAsRF64(&Ds64{RiffSize: 1, DataSize: 1, SampleCount: 1})
	require.ErrorIs(t, err, ErrSinkNotReadable)
}

// seekBuf is a minimal in-memory io.ReadWriteSeeker for writer tests; Read
// lets FinalizeAsRF64 exercise the splice-in-place path.
type seekBuf struct {
	b   []byte
	pos int64
}

func (s *seekBuf) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.b)) {
		return 0, io.EOF
	}
	n := copy(p, s.b[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *seekBuf) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.b)) {
		grown := make([]byte, end)
		copy(grown, s.b)
		s.b = grown
	}
	copy(s.b[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *seekBuf) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case 0:
		base = 0
	case 1:
		base = s.pos
	case 2:
		base = int64(len(s.b))
	}
	s.pos = base + offset
	return s.pos, nil
}

func (s *seekBuf) Bytes() []byte { return s.b }
func (s *seekBuf) Len() int      { return len(s.b) }

// writeOnlySeekBuf is an io.WriteSeeker with deliberately no Read method, for
// exercising the ErrSinkNotReadable path of FinalizeAsRF64's splice-in-place
// fallback.
type writeOnlySeekBuf struct {
	b   []byte
	pos int64
}

func (s *writeOnlySeekBuf) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.b)) {
		grown := make([]byte, end)
		copy(grown, s.b)
		s.b = grown
	}
	copy(s.b[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *writeOnlySeekBuf) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case 0:
		base = 0
	case 1:
		base = s.pos
	case 2:
		base = int64(len(s.b))
	}
	s.pos = base + offset
	return s.pos, nil
}
