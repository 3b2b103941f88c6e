package raw

import (
	"encoding/binary"
	"testing"
)

func TestBytesNativeOrder(t *testing.T) {
	s := []uint32{1, 0xdeadbeef, 42}
	b := Bytes(s)
	if len(b) != len(s)*ElementSize {
		t.Fatalf("len(Bytes) = %d, expected %d", len(b), len(s)*ElementSize)
	}
	for i, v := range s {
		got := binary.NativeEndian.Uint32(b[i*ElementSize:])
		if got != v {
			t.Errorf("element %d: got %#x, expected %#x", i, got, v)
		}
	}
}

func TestElementsDropsPartial(t *testing.T) {
	b := Bytes([]uint32{7, 8, 0xffff})[:10]
	e := Elements(b)
	if len(e) != 2 || e[0] != 7 || e[1] != 8 {
		t.Fatalf("Elements returned %v", e)
	}
	if got := Elements(b[:3]); got != nil {
		t.Fatalf("Elements of 3 bytes returned %v, expected nil", got)
	}
	if got := Bytes(nil); got != nil {
		t.Fatalf("Bytes(nil) returned %v", got)
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		in, down, up int64
	}{
		{0, 0, 0},
		{1, 0, 4},
		{4, 4, 4},
		{6, 4, 8},
		{7, 4, 8},
		{1 << 40, 1 << 40, 1 << 40},
	}
	for _, tt := range tests {
		if got := AlignDown(tt.in); got != tt.down {
			t.Errorf("AlignDown(%d) = %d, expected %d", tt.in, got, tt.down)
		}
		if got := AlignUp(tt.in); got != tt.up {
			t.Errorf("AlignUp(%d) = %d, expected %d", tt.in, got, tt.up)
		}
	}
}
