package wavreader_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sndcore/wavcore/wavfmt"
	"github.com/sndcore/wavcore/wavreader"
	"github.com/sndcore/wavcore/wavwriter"
)

// memSink is a byte-slice-backed io.WriteSeeker for driving wavwriter
// without a real file.
type memSink struct {
	buf []byte
	pos int64
}

func (m *memSink) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memSink) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = m.pos + offset
	case io.SeekEnd:
		next = int64(len(m.buf)) + offset
	}
	if next < 0 {
		return 0, errors.New("memSink: negative seek")
	}
	m.pos = next
	return next, nil
}

func writeStereoPcmFixture(t *testing.T, frames [][2]int16) []byte {
	t.Helper()
	sink := &memSink{}
	spec := wavfmt.Spec{Channels: 2, SampleRate: 44100, BitsPerSample: 16, SampleFormat: wavfmt.FormatInt}
	w, err := wavwriter.Create(sink, spec, wavfmt.Pcm(), wavwriter.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, wavwriter.WriteStereos(w, frames))
	require.NoError(t, w.Finalize())
	return sink.buf
}

func TestOpenSourceParsesSpecAndDataFormat(t *testing.T) {
	raw := writeStereoPcmFixture(t, [][2]int16{{1, -1}, {2, -2}})
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	require.Equal(t, uint8(2), rd.Spec().Channels)
	require.Equal(t, uint32(44100), rd.Spec().SampleRate)
	require.Equal(t, wavfmt.VariantPcm, rd.DataFormat().Variant)
}

func TestFrameIterOfYieldsWrittenFrames(t *testing.T) {
	want := [][2]int16{{100, -100}, {200, -200}, {300, -300}}
	raw := writeStereoPcmFixture(t, want)
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	it, err := wavreader.FrameIterOf[int16](rd)
	require.NoError(t, err)
	defer it.Close()

	for _, w := range want {
		f, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, []int16{w[0], w[1]}, f)
	}
	_, err = it.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestMonoIterOfRejectsWrongChannelCount(t *testing.T) {
	raw := writeStereoPcmFixture(t, [][2]int16{{1, -1}})
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	_, err = wavreader.MonoIterOf[int16](rd)
	require.Error(t, err)
}

func TestMultipleIteratorsAreIndependent(t *testing.T) {
	raw := writeStereoPcmFixture(t, [][2]int16{{1, -1}, {2, -2}, {3, -3}})
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	it1, err := wavreader.FrameIterOf[int16](rd)
	require.NoError(t, err)
	defer it1.Close()
	it2, err := wavreader.FrameIterOf[int16](rd)
	require.NoError(t, err)
	defer it2.Close()

	f1, err := it1.Next()
	require.NoError(t, err)
	require.Equal(t, []int16{1, -1}, f1)

	f2, err := it2.Next()
	require.NoError(t, err)
	require.Equal(t, []int16{1, -1}, f2)
}

func TestOpenSourceMissingDataChunkFails(t *testing.T) {
	_, err := wavreader.OpenSource(bytes.NewReader([]byte("RIFF\x04\x00\x00\x00WAVE")))
	require.Error(t, err)
}
