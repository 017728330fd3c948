package riff

import (
	"github.com/sndcore/wavcore/bio"
)

// sizePlaceholder is written in place of a real size for any chunk whose
// authoritative length lives in the ds64 sidecar.
const sizePlaceholder uint32 = 0xFFFFFFFF

// over32BitLimit is the largest chunk payload length a 32-bit size field can
// hold; spec.md §4.C finalizes to RF64 once any chunk would exceed it.
const over32BitLimit = uint64(0xFFFFFFFF) - 8

// EmitChunk writes a single chunk header + payload + even-byte pad to w.
// The pad byte is never counted in the written size field, matching the
// "payloads are always padded ... but the pad byte is NOT part of the
// declared length" invariant.
func EmitChunk(w *bio.Writer, tag bio.FourCC, payload []byte) error {
	if err := w.FourCC(tag); err != nil {
		return err
	}
	if err := w.U32(uint32(len(payload))); err != nil {
		return err
	}
	if err := w.Bytes(payload); err != nil {
		return err
	}
	if len(payload)&1 == 1 {
		if err := w.U8(0); err != nil {
			return err
		}
	}
	return nil
}

// EmitChunk64 is EmitChunk for a chunk whose true size lives in ds64 and
// whose on-disk size field must be the 0xFFFFFFFF placeholder.
func EmitChunk64(w *bio.Writer, tag bio.FourCC, payload []byte) error {
	if err := w.FourCC(tag); err != nil {
		return err
	}
	if err := w.U32(sizePlaceholder); err != nil {
		return err
	}
	if err := w.Bytes(payload); err != nil {
		return err
	}
	if len(payload)&1 == 1 {
		if err := w.U8(0); err != nil {
			return err
		}
	}
	return nil
}

// ExceedsThirtyTwoBit reports whether a container of the given total payload
// byte count (sum of all chunk header+body+pad, excluding the outer 8-byte
// RIFF/RF64 header) must be emitted as RF64.
func ExceedsThirtyTwoBit(totalPayloadBytes uint64) bool {
	return totalPayloadBytes > over32BitLimit
}
