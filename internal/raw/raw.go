// Package raw converts between element slices and their on-disk byte form.
// Elements are stored as 4-byte unsigned integers in native byte order with
// no framing, so the conversion is a reinterpretation of the same memory.
package raw

import "unsafe"

// ElementSize is the width of one element in bytes.
const ElementSize = 4

// Bytes returns the byte view of s. The result aliases s.
func Bytes(s []uint32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*ElementSize)
}

// Elements returns the element view of b, ignoring any trailing partial
// element. b must be 4-byte aligned, which holds for buffers created by
// Bytes and for memory mappings.
func Elements(b []byte) []uint32 {
	n := len(b) / ElementSize
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), n)
}

// AlignDown rounds n down to a multiple of ElementSize.
func AlignDown(n int64) int64 {
	return n &^ (ElementSize - 1)
}

// AlignUp rounds n up to a multiple of ElementSize.
func AlignUp(n int64) int64 {
	return AlignDown(n + ElementSize - 1)
}
