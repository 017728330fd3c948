package riff

import (
	"bytes"

	"github.com/sndcore/wavcore/bio"
)

// oversizeMarker is the 32-bit sentinel ("0xFFFFFFFF") a RF64/BW64 file
// writes in a size field whose real value lives in the ds64 sidecar.
const oversizeMarker uint32 = 0xFFFFFFFF

// Ds64TableEntry overrides a single non-data, non-RIFF chunk's 32-bit size
// field, for the rare chunk that itself grows past 4 GiB (e.g. a giant
// 'fact' table is not realistic, but the layout is generic per EBU Tech 3285).
type Ds64TableEntry struct {
	Tag  bio.FourCC
	Size uint64
}

// Ds64 is the parsed 'ds64' sidecar: riffSize:u64, dataSize:u64,
// sampleCount:u64, tableLength:u32, table:[(tag:FourCC, size:u64)], per
// spec.md §6.
type Ds64 struct {
	RiffSize    uint64
	DataSize    uint64
	SampleCount uint64
	Table       []Ds64TableEntry
}

// SizeFor looks up the 64-bit override for tag, if the ds64 table carries one.
func (d *Ds64) SizeFor(tag bio.FourCC) (uint64, bool) {
	if d == nil {
		return 0, false
	}
	for _, e := range d.Table {
		if e.Tag == tag {
			return e.Size, true
		}
	}
	return 0, false
}

// ParseDs64 decodes a 'ds64' chunk payload.
func ParseDs64(data []byte) (*Ds64, error) {
	r := bio.NewReader(bytes.NewReader(data))
	d := &Ds64{}
	var err error
	if d.RiffSize, err = r.U64(); err != nil {
		return nil, err
	}
	if d.DataSize, err = r.U64(); err != nil {
		return nil, err
	}
	if d.SampleCount, err = r.U64(); err != nil {
		return nil, err
	}
	tableLen, err := r.U32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tableLen; i++ {
		tagBytes, err := r.FourCC()
		if err != nil {
			return nil, err
		}
		size, err := r.U64()
		if err != nil {
			return nil, err
		}
		d.Table = append(d.Table, Ds64TableEntry{Tag: tagBytes, Size: size})
	}
	return d, nil
}

// Emit encodes the ds64 chunk payload (without its 8-byte chunk header).
func (d *Ds64) Emit() []byte {
	var buf bytes.Buffer
	w := bio.NewWriter(&buf)
	_ = w.U64(d.RiffSize)
	_ = w.U64(d.DataSize)
	_ = w.U64(d.SampleCount)
	_ = w.U32(uint32(len(d.Table)))
	for _, e := range d.Table {
		_ = w.FourCC(e.Tag)
		_ = w.U64(e.Size)
	}
	return buf.Bytes()
}
