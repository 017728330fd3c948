package oggpage

import "errors"

var (
	ErrNotAnOggPage  = errors.New("oggpage: not an OggS page")
	ErrTruncatedPage = errors.New("oggpage: truncated page")
)

// crcTable is the byte-wise table for Ogg's CRC-32, polynomial 0x04C11DB7,
// unreflected, with no final XOR. This is the CRC variant documented in
// RFC 3533 §6 (and restated in thesyncim/gopus's container/ogg package
// doc), distinct from the IEEE polynomial hash/crc32 implements.
var crcTable [256]uint32

func init() {
	const poly = uint32(0x04c11db7)
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for b := 0; b < 8; b++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		crcTable[i] = crc
	}
}

// Checksum computes the Ogg page CRC-32 over buf (which must already have
// its CRC field zeroed).
func Checksum(buf []byte) uint32 {
	var crc uint32
	for _, b := range buf {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}
