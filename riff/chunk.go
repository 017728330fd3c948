package riff

import "github.com/sndcore/wavcore/bio"

// ChunkNode is one node of the parsed chunk graph: spec.md §3's "four-byte
// tag, byte offset, declared payload length, and either an inlined buffer or
// a byte-range reference into the underlying reader".
type ChunkNode struct {
	Tag    bio.FourCC
	Offset int64  // absolute byte offset of the payload (post 8-byte header)
	Size   uint64 // declared payload length; ds64-overridden where applicable

	// Inline holds the payload for small/metadata chunks read eagerly at
	// scan time. Nil for chunks whose payload is referenced by byte range
	// instead (the bulk 'data' chunk).
	Inline []byte

	// ListType is the four-byte sub-tag of a 'LIST' container (e.g. "INFO").
	ListType bio.FourCC
	Children []*ChunkNode
}

func (c *ChunkNode) IsList() bool { return c.Tag.String() == "LIST" }

// Find returns the first direct child with the given tag, or nil.
func (c *ChunkNode) Find(tag string) *ChunkNode {
	want := bio.NewFourCC(tag)
	for _, child := range c.Children {
		if child.Tag == want {
			return child
		}
	}
	return nil
}

// FindAll returns every direct child with the given tag, in document order.
func (c *ChunkNode) FindAll(tag string) []*ChunkNode {
	want := bio.NewFourCC(tag)
	var out []*ChunkNode
	for _, child := range c.Children {
		if child.Tag == want {
			out = append(out, child)
		}
	}
	return out
}

// Root is the parsed container: the RIFF/RF64/BW64 header, its WAVE form,
// and the flat list of top-level chunks (fmt , fact, data, ds64, LIST, ...).
type Root struct {
	Is64   bool // true when the on-disk root tag was RF64/BW64
	Form   bio.FourCC
	Ds64   *Ds64
	Chunks []*ChunkNode
}

func (r *Root) Find(tag string) *ChunkNode {
	want := bio.NewFourCC(tag)
	for _, c := range r.Chunks {
		if c.Tag == want {
			return c
		}
	}
	return nil
}

func (r *Root) FindAll(tag string) []*ChunkNode {
	want := bio.NewFourCC(tag)
	var out []*ChunkNode
	for _, c := range r.Chunks {
		if c.Tag == want {
			out = append(out, c)
		}
	}
	return out
}
