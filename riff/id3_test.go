package riff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseID3EmptyRawReturnsZeroValue(t *testing.T) {
	tags, err := ParseID3(nil)
	require.NoError(t, err)
	require.Equal(t, ID3Tags{}, tags)
}

func TestEmitID3ThenParseID3RoundTrip(t *testing.T) {
	want := ID3Tags{
		Title:  "Test Title",
		Artist: "Test Artist",
		Album:  "Test Album",
		Year:   "2024",
		Genre:  "Electronic",
	}
	raw, err := EmitID3(want)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := ParseID3(raw)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestMetadataSetID3TagsThenID3TagsRoundTrip(t *testing.T) {
	var md Metadata
	require.NoError(t, md.SetID3Tags(ID3Tags{Title: "Round Trip"}))
	require.NotEmpty(t, md.ID3)

	got := md.ID3Tags()
	require.Equal(t, "Round Trip", got.Title)
}

func TestMetadataID3TagsOnMalformedBlobReturnsZeroValue(t *testing.T) {
	md := Metadata{ID3: []byte("not an id3 tag")}
	got := md.ID3Tags()
	require.Equal(t, ID3Tags{}, got)
}
