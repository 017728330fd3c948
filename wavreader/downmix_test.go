package wavreader_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sndcore/wavcore/wavfmt"
	"github.com/sndcore/wavcore/wavreader"
	"github.com/sndcore/wavcore/wavwriter"
)

func writeQuadPcmFixture(t *testing.T, frames [][]int16) []byte {
	t.Helper()
	sink := &memSink{}
	spec := wavfmt.Spec{
		Channels:      4,
		ChannelMask:   wavfmt.SpeakerFrontLeft | wavfmt.SpeakerFrontRight | wavfmt.SpeakerBackLeft | wavfmt.SpeakerBackRight,
		SampleRate:    44100,
		BitsPerSample: 16,
		SampleFormat:  wavfmt.FormatInt,
	}
	w, err := wavwriter.Create(sink, spec, wavfmt.Pcm(), wavwriter.CreateOptions{})
	require.NoError(t, err)
	require.NoError(t, wavwriter.WriteFrames(w, frames))
	require.NoError(t, w.Finalize())
	return sink.buf
}

func TestDownmixStereoIterFoldsFourChannels(t *testing.T) {
	raw := writeQuadPcmFixture(t, [][]int16{{100, 200, 300, 400}})
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	it, err := wavreader.DownmixStereoIterOf[int16](rd)
	require.NoError(t, err)
	defer it.Close()

	l, r, err := it.Next()
	require.NoError(t, err)
	// FL+BL -> left, FR+BR -> right under the standard quad channel mask.
	require.Equal(t, int16(400), l)
	require.Equal(t, int16(600), r)
}

func TestDownmixMonoIterRejectsStereo(t *testing.T) {
	raw := writeStereoPcmFixture(t, [][2]int16{{1, -1}})
	rd, err := wavreader.OpenSource(bytes.NewReader(raw))
	require.NoError(t, err)
	defer rd.Close()

	_, err = wavreader.DownmixMonoIterOf[int16](rd)
	require.Error(t, err)
}
