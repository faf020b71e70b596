package serial

import "testing"

func TestRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.U8(0x12)
	w.U16(0x3456)
	w.U32(0x789ABCDE)
	w.U64(0x0102030405060708)
	w.Bool(true)
	w.Bool(false)
	w.Bytes([]byte{1, 2, 3, 4})

	r := NewReader(w.Finish())
	if got := r.U8(); got != 0x12 {
		t.Fatalf("U8 = %#x, want 0x12", got)
	}
	if got := r.U16(); got != 0x3456 {
		t.Fatalf("U16 = %#x, want 0x3456", got)
	}
	if got := r.U32(); got != 0x789ABCDE {
		t.Fatalf("U32 = %#x, want 0x789abcde", got)
	}
	if got := r.U64(); got != 0x0102030405060708 {
		t.Fatalf("U64 = %#x, want 0x0102030405060708", got)
	}
	if !r.Bool() {
		t.Fatal("Bool = false, want true")
	}
	if r.Bool() {
		t.Fatal("Bool = true, want false")
	}
	dst := make([]byte, 4)
	r.Bytes(dst)
	want := []byte{1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Bytes[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
	if r.Err() != nil {
		t.Fatalf("unexpected Err: %v", r.Err())
	}
}

func TestShortBuffer(t *testing.T) {
	r := NewReader([]byte{1, 2})
	r.U32()
	if r.Err() == nil {
		t.Fatal("expected short-buffer error, got nil")
	}
}
