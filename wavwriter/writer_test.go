package wavwriter

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sndcore/wavcore/riff"
	"github.com/sndcore/wavcore/wavfmt"
	"github.com/sndcore/wavcore/wavreader"
)

// memSink is a byte-slice-backed io.WriteSeeker, mirroring riff_test.go's
// seekBuf (unexported to package riff, so not reusable here).
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

func pcmSpec() wavfmt.Spec {
	return wavfmt.Spec{
		Channels:      2,
		SampleRate:    44100,
		BitsPerSample: 16,
		SampleFormat:  wavfmt.FormatInt,
	}
}

func TestCreateWriteFramePcmRoundTrip(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)

	require.NoError(t, WriteFrame(w, []int16{100, -100}))
	require.NoError(t, WriteFrame(w, []int16{200, -200}))
	require.NoError(t, w.Finalize())

	require.True(t, bytes.HasPrefix(sink.buf, []byte("RIFF")))
	require.Equal(t, []byte("WAVE"), sink.buf[8:12])

	rd, err := wavreader.OpenSource(bytes.NewReader(sink.buf))
	require.NoError(t, err)
	require.Equal(t, uint8(2), rd.Spec().Channels)
}

func TestFinalizeIdempotent(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, WriteFrame(w, []int16{1, 2}))
	require.NoError(t, w.Finalize())

	sizeAfterFirst := len(sink.buf)
	require.NoError(t, w.Finalize())
	require.Equal(t, sizeAfterFirst, len(sink.buf))
}

func TestWriteAfterFinalizeFails(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	err = WriteFrame(w, []int16{1, 2})
	require.ErrorIs(t, err, ErrWriterAfterFinalize)
}

func TestPoisonedWriterRejectsFurtherWrites(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	w.poisoned = errors.New("boom")

	err = WriteFrame(w, []int16{1, 2})
	require.ErrorIs(t, err, ErrWriterPoisoned)

	err = w.Finalize()
	require.ErrorIs(t, err, ErrWriterPoisoned)
}

func TestWriteStereosAndMonoHelpers(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, WriteStereos(w, [][2]int16{{1, -1}, {2, -2}, {3, -3}}))
	require.NoError(t, w.Finalize())
	require.Equal(t, uint64(3), w.frameCount)

	mono := pcmSpec()
	mono.Channels = 1
	sink2 := &memSink{}
	w2, err := Create(sink2, mono, wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, WriteMonoChannel(w2, []int16{10, 20, 30, 40}))
	require.NoError(t, w2.Finalize())
	require.Equal(t, uint64(4), w2.frameCount)
}

func TestForceRF64FinalizesWithDs64(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{FileSize: ForceRF64Format})
	require.NoError(t, err)
	require.NoError(t, WriteFrame(w, []int16{1, 2}))
	require.NoError(t, w.Finalize())
	require.Equal(t, []byte("RF64"), sink.buf[0:4])
}

func TestSetMetadataWritesInfoListAtFinalize(t *testing.T) {
	sink := &memSink{}
	w, err := Create(sink, pcmSpec(), wavfmt.Pcm(), CreateOptions{})
	require.NoError(t, err)
	var md riff.Metadata
	md.Set("INAM", []byte("test title"))
	w.SetMetadata(md)
	require.NoError(t, WriteFrame(w, []int16{1, 2}))
	require.NoError(t, w.Finalize())

	require.True(t, bytes.Contains(sink.buf, []byte("INAM")))
	require.True(t, bytes.Contains(sink.buf, []byte("test title")))
}

func TestPcmHeaderIsByteExactForCanonicalLayout(t *testing.T) {
	sink := &memSink{}
	spec := wavfmt.Spec{
		Channels:      2,
		SampleRate:    48000,
		BitsPerSample: 16,
		SampleFormat:  wavfmt.FormatInt,
	}
	w, err := Create(sink, spec, wavfmt.Pcm(), CreateOptions{FileSize: NeverLargerThan4GB})
	require.NoError(t, err)

	const frameCount = 480000
	frames := make([][2]int16, frameCount)
	require.NoError(t, WriteStereos(w, frames))
	require.NoError(t, w.Finalize())

	const wantDataBytes = frameCount * 2 * 2 // frames * channels * bytes-per-sample
	const wantHeaderBytes = 44               // 12 root + 8+16 fmt + 8 data header, no ds64/fact
	require.Len(t, sink.buf, wantHeaderBytes+wantDataBytes)

	riffSize := binary.LittleEndian.Uint32(sink.buf[4:8])
	require.Equal(t, uint32(wantHeaderBytes+wantDataBytes-8), riffSize)
	require.Equal(t, uint32(1_920_036), riffSize)
}

func TestAdpcmBlockAlignMatchesComputedFmtChunk(t *testing.T) {
	sink := &memSink{}
	spec := pcmSpec()
	df := wavfmt.Adpcm(wavfmt.AdpcmMS)
	w, err := Create(sink, spec, df, CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	// nBlockAlign sits 12 bytes into the 'fmt ' payload, which starts at 20.
	wantAlign := adpcmBlockAlign(wavfmt.AdpcmMS, 2, adpcmSamplesPerBlock(spec))
	require.Equal(t, uint16(wantAlign), binary.LittleEndian.Uint16(sink.buf[32:34]))

	rd, err := wavreader.OpenSource(bytes.NewReader(sink.buf))
	require.NoError(t, err)
	require.Equal(t, uint8(2), rd.Spec().Channels)
}
