// Package oggpage implements the Ogg page framing primitives (CRC-32 over
// polynomial 0x04C11DB7, the 255-byte lacing/segment table, and granule
// position bookkeeping). No other package in this module imports it: the
// Opus adapter frames packets with a 2-byte length prefix, and Ogg-Vorbis
// page parsing is left to jfreymuth/oggvorbis. It is grounded on thesyncim/gopus's container/ogg package: the same
// page-header layout and segment-table construction described there, since
// that package's own Page/CRC implementation was not part of the retrieved
// sources and had to be rebuilt from the documented RFC 3533 layout.
package oggpage

import "encoding/binary"

// MaxSegmentBytes is the lacing-value ceiling: a segment table entry of 255
// means "255 bytes of payload, more segments follow for this packet".
const MaxSegmentBytes = 255

const (
	FlagContinued byte = 1 << 0
	FlagBOS       byte = 1 << 1
	FlagEOS       byte = 1 << 2
)

// Page is one physical Ogg page: a header plus the packet payload bytes it
// carries (already laced into segments).
type Page struct {
	Version      byte
	HeaderType   byte
	GranulePos   uint64
	SerialNumber uint32
	PageSequence uint32
	Segments     []byte
	Payload      []byte
}

// BuildSegmentTable lays out the 255-byte segment table for a packet of the
// given length, including the trailing short (or zero) segment that
// terminates the packet.
func BuildSegmentTable(payloadLen int) []byte {
	var segs []byte
	remaining := payloadLen
	for remaining >= MaxSegmentBytes {
		segs = append(segs, MaxSegmentBytes)
		remaining -= MaxSegmentBytes
	}
	segs = append(segs, byte(remaining))
	return segs
}

// Encode serializes the page, computing its CRC-32 with the checksum field
// itself treated as zero during the pass, per RFC 3533 §6.
func (p *Page) Encode() []byte {
	headerLen := 27 + len(p.Segments)
	buf := make([]byte, headerLen+len(p.Payload))

	copy(buf[0:4], "OggS")
	buf[4] = p.Version
	buf[5] = p.HeaderType
	binary.LittleEndian.PutUint64(buf[6:14], p.GranulePos)
	binary.LittleEndian.PutUint32(buf[14:18], p.SerialNumber)
	binary.LittleEndian.PutUint32(buf[18:22], p.PageSequence)
	// buf[22:26] CRC left zero for the checksum pass.
	buf[26] = byte(len(p.Segments))
	copy(buf[27:headerLen], p.Segments)
	copy(buf[headerLen:], p.Payload)

	crc := Checksum(buf)
	binary.LittleEndian.PutUint32(buf[22:26], crc)
	return buf
}

// Decode parses a single page starting at the beginning of data, returning
// the page and the number of bytes it occupied.
func Decode(data []byte) (*Page, int, error) {
	if len(data) < 27 || string(data[0:4]) != "OggS" {
		return nil, 0, ErrNotAnOggPage
	}
	nseg := int(data[26])
	headerLen := 27 + nseg
	if len(data) < headerLen {
		return nil, 0, ErrTruncatedPage
	}
	segs := data[27:headerLen]
	payloadLen := 0
	for _, s := range segs {
		payloadLen += int(s)
	}
	total := headerLen + payloadLen
	if len(data) < total {
		return nil, 0, ErrTruncatedPage
	}

	p := &Page{
		Version:      data[4],
		HeaderType:   data[5],
		GranulePos:   binary.LittleEndian.Uint64(data[6:14]),
		SerialNumber: binary.LittleEndian.Uint32(data[14:18]),
		PageSequence: binary.LittleEndian.Uint32(data[18:22]),
		Segments:     append([]byte(nil), segs...),
		Payload:      append([]byte(nil), data[headerLen:total]...),
	}
	return p, total, nil
}

// Packets splits the page payload back into individual packets according to
// its segment table. A packet continues onto the next page when its final
// lacing value in this page is 255; this function returns only the
// fragment carried by this page, leaving continuation-joining to the
// caller (mirrors how thesyncim/gopus's Writer emits one packet per page
// for the mapping families this module wires in).
func (p *Page) Packets() [][]byte {
	var packets [][]byte
	var cur []byte
	off := 0
	for _, s := range p.Segments {
		cur = append(cur, p.Payload[off:off+int(s)]...)
		off += int(s)
		if s < MaxSegmentBytes {
			packets = append(packets, cur)
			cur = nil
		}
	}
	if cur != nil {
		packets = append(packets, cur)
	}
	return packets
}
