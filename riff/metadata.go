package riff

import "github.com/sndcore/wavcore/bio"

// infoTags lists the recognised LIST-INFO sub-tags from spec.md §6, used to
// validate/round-trip order without special-casing unknown ones.
var infoTags = map[string]bool{
	"IARL": true, "IART": true, "ICMS": true, "ICMT": true, "ICOP": true,
	"ICRD": true, "ICRP": true, "IDIM": true, "IDPI": true, "IENG": true,
	"IGNR": true, "IKEY": true, "ILGT": true, "IMED": true, "INAM": true,
	"IPLT": true, "IPRD": true, "ISBJ": true, "ISFT": true, "ISHP": true,
	"ISRC": true, "ISRF": true, "ITCH": true, "ITRK": true,
}

// IsRecognisedInfoTag reports whether tag is one of the INFO sub-tags
// spec.md §6 names; unrecognised tags still round-trip, just without
// special handling elsewhere.
func IsRecognisedInfoTag(tag string) bool { return infoTags[tag] }

// MetadataEntry is one ordered (tag, value) pair from a LIST-INFO chunk.
// Order is preserved end-to-end so re-emission is stable, per spec.md §3.
type MetadataEntry struct {
	Tag   bio.FourCC
	Value []byte
}

// Metadata is the ordered INFO tag sequence plus an optional opaque ID3 blob
// (from an 'id3 '/'ID3 ' chunk), per spec.md §3.
type Metadata struct {
	Entries []MetadataEntry
	ID3     []byte // nil if no id3 chunk was present
}

// Get returns the first entry's value for tag, and whether it was found.
func (m *Metadata) Get(tag string) ([]byte, bool) {
	want := bio.NewFourCC(tag)
	for _, e := range m.Entries {
		if e.Tag == want {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the first entry for tag, or appends a new one preserving
// insertion order for tags not yet present.
func (m *Metadata) Set(tag string, value []byte) {
	want := bio.NewFourCC(tag)
	for i := range m.Entries {
		if m.Entries[i].Tag == want {
			m.Entries[i].Value = value
			return
		}
	}
	m.Entries = append(m.Entries, MetadataEntry{Tag: want, Value: value})
}

// ParseMetadata extracts Metadata from a root's LIST-INFO chunk(s) and any
// id3 /ID3  chunk. Multiple LIST-INFO chunks (legal, if unusual) contribute
// entries in document order.
func ParseMetadata(root *Root) Metadata {
	var md Metadata
	for _, c := range root.Chunks {
		if c.IsList() && c.ListType.String() == "INFO" {
			for _, child := range c.Children {
				md.Entries = append(md.Entries, MetadataEntry{Tag: child.Tag, Value: child.Inline})
			}
		}
	}
	if id3 := root.Find("id3 "); id3 != nil {
		md.ID3 = id3.Inline
	} else if id3 := root.Find("ID3 "); id3 != nil {
		md.ID3 = id3.Inline
	}
	return md
}

// EmitInfoList encodes the ordered entries as a single 'LIST' 'INFO' chunk
// payload (sub-type tag + concatenated padded sub-chunks).
func EmitInfoList(entries []MetadataEntry) []byte {
	var payload []byte
	payload = append(payload, []byte("INFO")...)
	for _, e := range entries {
		chunk := make([]byte, 8+len(e.Value))
		copy(chunk[0:4], e.Tag[:])
		putU32LE(chunk[4:8], uint32(len(e.Value)))
		copy(chunk[8:], e.Value)
		payload = append(payload, chunk...)
		if len(e.Value)&1 == 1 {
			payload = append(payload, 0)
		}
	}
	return payload
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
