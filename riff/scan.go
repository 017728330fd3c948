package riff

import (
	"encoding/binary"
	"io"

	"github.com/sndcore/wavcore/bio"
	"github.com/sndcore/wavcore/internal/wavlog"
)

var (
	tagRIFF = bio.NewFourCC("RIFF")
	tagRF64 = bio.NewFourCC("RF64")
	tagBW64 = bio.NewFourCC("BW64")
	tagWAVE = bio.NewFourCC("WAVE")
	tagLIST = bio.NewFourCC("LIST")
	tagDs64 = bio.NewFourCC("ds64")
	tagData = bio.NewFourCC("data")
)

// Scan reads the root header and the full chunk graph from r, per spec.md
// §4.C: roots RIFF/RF64/BW64 are recognised; a leading 'ds64' establishes
// authoritative 64-bit sizes for the chunks that follow it (the canonical
// write order always places 'ds64' immediately after the root header, so a
// single forward pass suffices); unknown chunks are preserved as opaque
// byte-range references.
func Scan(r io.ReadSeeker) (*Root, error) {
	hdr := make([]byte, 12)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, ErrUnexpectedEOF
	}
	var rootTag bio.FourCC
	copy(rootTag[:], hdr[0:4])

	is64 := rootTag == tagRF64 || rootTag == tagBW64
	if rootTag != tagRIFF && !is64 {
		return nil, NotARiff(rootTag.String())
	}

	var form bio.FourCC
	copy(form[:], hdr[8:12])

	root := &Root{Is64: is64, Form: form}

	// The top-level list extends to physical EOF: a declared 0xFFFFFFFF
	// RIFF/RF64 size (common once ds64 is in play) can't bound the scan, and
	// a truthful 32-bit size is redundant with EOF for a well-formed file.
	chunks, err := scanChunks(r, -1, &root.Ds64)
	if err != nil {
		return nil, err
	}
	root.Chunks = chunks
	return root, nil
}

// scanChunks reads sibling chunks starting at the reader's current position
// until limit bytes have been consumed (limit < 0 means "until EOF"),
// recursing into 'LIST' containers. ds64 is a pointer-to-pointer so the
// 'ds64' chunk, once encountered, immediately becomes visible to every
// chunk scanned afterward at any depth.
func scanChunks(r io.ReadSeeker, limit int64, ds64 **Ds64) ([]*ChunkNode, error) {
	var nodes []*ChunkNode
	var consumed int64

	for limit < 0 || consumed < limit {
		hdr := make([]byte, 8)
		n, err := io.ReadFull(r, hdr)
		if err != nil {
			if n == 0 && (err == io.EOF) {
				break
			}
			if limit < 0 && err == io.ErrUnexpectedEOF {
				break
			}
			return nil, ErrUnexpectedEOF
		}

		start, _ := r.Seek(0, io.SeekCurrent)
		payloadOffset := start

		var tag bio.FourCC
		copy(tag[:], hdr[0:4])
		size32 := binary.LittleEndian.Uint32(hdr[4:8])
		size := uint64(size32)

		if *ds64 != nil {
			if tag == tagData {
				if (*ds64).DataSize != 0 {
					if size32 != oversizeMarker && size32 != 0 && uint64(size32) != (*ds64).DataSize {
						wavlog.L().Warn().Err(Ds64Mismatch(tag.String(), size32, (*ds64).DataSize)).Msg("ds64/32-bit size disagree, preferring ds64")
					}
					size = (*ds64).DataSize
				}
			} else if override, ok := (*ds64).SizeFor(tag); ok {
				if size32 != oversizeMarker && size32 != 0 && uint64(size32) != override {
					wavlog.L().Warn().Err(Ds64Mismatch(tag.String(), size32, override)).Msg("ds64/32-bit size disagree, preferring ds64")
				}
				size = override
			}
		}

		node := &ChunkNode{Tag: tag, Offset: payloadOffset, Size: size}

		switch tag {
		case tagLIST:
			ltBuf := make([]byte, 4)
			if _, err := io.ReadFull(r, ltBuf); err != nil {
				return nil, ErrUnexpectedEOF
			}
			copy(node.ListType[:], ltBuf)
			childLimit := int64(size) - 4
			children, err := scanChunks(r, childLimit, ds64)
			if err != nil {
				return nil, err
			}
			node.Children = children
		case tagDs64:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, ErrUnexpectedEOF
			}
			node.Inline = buf
			parsed, err := ParseDs64(buf)
			if err != nil {
				return nil, err
			}
			*ds64 = parsed
		case tagData:
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, ErrUnexpectedEOF
			}
		default:
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, ErrUnexpectedEOF
			}
			node.Inline = buf
		}

		pad := int64(size & 1)
		if pad == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				break // trailing pad byte absent at true EOF is tolerated
			}
		}

		consumed += 8 + int64(size) + pad
		nodes = append(nodes, node)
	}

	return nodes, nil
}
