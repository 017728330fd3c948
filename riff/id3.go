package riff

import (
	"bytes"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// ID3Tags is the structured view over Metadata.ID3's raw bytes, covering the
// common text frames a WAV file's embedded ID3v2 tag carries. Grounded on
// the teacher's ReadMetadata (internal/player/metadata.go), which reads the
// same Title/Artist/Album triple out of an MP3's ID3v2 tag via bogem/id3v2;
// here the tag lives inside an 'id3 '/'ID3 ' RIFF chunk instead of leading
// an MP3 file.
type ID3Tags struct {
	Title  string
	Artist string
	Album  string
	Year   string
	Genre  string
}

// ParseID3 decodes an ID3v2 tag from raw id3/ID3 chunk bytes. An empty or
// absent tag (raw == nil) returns the zero ID3Tags with no error.
func ParseID3(raw []byte) (ID3Tags, error) {
	if len(raw) == 0 {
		return ID3Tags{}, nil
	}
	tag, err := id3v2.ParseReader(bytes.NewReader(raw), id3v2.Options{Parse: true})
	if err != nil {
		return ID3Tags{}, err
	}
	defer tag.Close()
	return ID3Tags{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
		Year:   strings.TrimSpace(tag.Year()),
		Genre:  strings.TrimSpace(tag.Genre()),
	}, nil
}

// EmitID3 encodes t as a fresh ID3v2.4 tag, for use as an 'id3 ' chunk
// payload.
func EmitID3(t ID3Tags) ([]byte, error) {
	tag := id3v2.NewEmptyTag()
	defer tag.Close()
	if t.Title != "" {
		tag.SetTitle(t.Title)
	}
	if t.Artist != "" {
		tag.SetArtist(t.Artist)
	}
	if t.Album != "" {
		tag.SetAlbum(t.Album)
	}
	if t.Year != "" {
		tag.SetYear(t.Year)
	}
	if t.Genre != "" {
		tag.SetGenre(t.Genre)
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ID3Tags decodes m's raw ID3 blob via ParseID3, swallowing a malformed tag
// as an empty ID3Tags rather than failing metadata access outright.
func (m *Metadata) ID3Tags() ID3Tags {
	t, err := ParseID3(m.ID3)
	if err != nil {
		return ID3Tags{}
	}
	return t
}

// SetID3Tags replaces m's raw ID3 blob with the encoding of t.
func (m *Metadata) SetID3Tags(t ID3Tags) error {
	raw, err := EmitID3(t)
	if err != nil {
		return err
	}
	m.ID3 = raw
	return nil
}
