package vdp

import (
	"testing"

	"github.com/colecovision-core/cvcore/internal/serial"
)

func TestControlWriteLatchesAddress(t *testing.T) {
	v := New(NTSC)
	v.WriteControl(0x34)        // first byte: low 8 address bits
	v.WriteControl(0x40 | 0x01) // second byte: write-setup, high 6 bits
	v.WriteData(0xAB)

	wantAddr := (uint16(0x34) | uint16(0x01)<<8) & 0x3FFF
	if v.vram[wantAddr] != 0xAB {
		t.Fatalf("vram[%#x] = %#x, want 0xab", wantAddr, v.vram[wantAddr])
	}
}

// VDP latch clear: after any status or VRAM-data read, a subsequent
// control write must be treated as the first of a new pair (§8).
func TestLatchClearsOnStatusRead(t *testing.T) {
	v := New(NTSC)
	v.WriteControl(0x10) // first byte of a pair, never completed
	v.ReadStatus()

	v.WriteControl(0x20)        // must be treated as a fresh first byte
	v.WriteControl(0x40 | 0x01) // second byte
	v.WriteData(0x55)

	wantAddr := (uint16(0x20) | uint16(0x01)<<8) & 0x3FFF
	if v.vram[wantAddr] != 0x55 {
		t.Fatalf("latch not cleared by status read: vram[%#x] = %#x, want 0x55", wantAddr, v.vram[wantAddr])
	}
}

func TestLatchClearsOnDataRead(t *testing.T) {
	v := New(NTSC)
	v.WriteControl(0x10)
	v.ReadData()

	v.WriteControl(0x20)
	v.WriteControl(0x40 | 0x02)
	v.WriteData(0x66)

	wantAddr := (uint16(0x20) | uint16(0x02)<<8) & 0x3FFF
	if v.vram[wantAddr] != 0x66 {
		t.Fatalf("latch not cleared by data read: vram[%#x] = %#x, want 0x66", wantAddr, v.vram[wantAddr])
	}
}

// VBlank NMI scenario (§8.4): with GINT set, 192 scanlines of Exec produce
// one NMI pulse; a status read clears INT; the next 192-line cycle fires
// a second pulse.
func TestVBlankNMIScenario(t *testing.T) {
	v := New(NTSC)
	nmiCount := 0
	v.NMI = func() { nmiCount++ }

	v.WriteControl(0x20)        // value to latch into register 1 (GINT bit)
	v.WriteControl(0x80 | 0x01) // register-write, index 1

	for i := 0; i < PlayHeight; i++ {
		v.Exec()
	}
	if nmiCount != 1 {
		t.Fatalf("nmiCount after first 192 lines = %d, want 1", nmiCount)
	}
	if v.status&statusINT == 0 {
		t.Fatal("status INT bit not set after VBlank")
	}
	v.ReadStatus()
	if v.status&statusINT != 0 {
		t.Fatal("status INT bit not cleared by ReadStatus")
	}

	for i := 0; i < v.numScanlines; i++ {
		v.Exec()
	}
	if nmiCount != 2 {
		t.Fatalf("nmiCount after one full frame = %d, want 2", nmiCount)
	}
}

// 5-sprite rule: five sprites with overlapping Y extents on one line set
// status bit 0x40.
func TestFiveSpriteRule(t *testing.T) {
	v := New(NTSC)
	v.tblSAttr = 0x1000
	v.tblSPGen = 0x2000
	v.line = 1

	for i := 0; i < 5; i++ {
		base := v.tblSAttr + uint16(i)*4
		v.vram[base] = 0             // Y=0 -> visible on lines 1-8
		v.vram[base+1] = byte(i * 9) // X, spread out
		v.vram[base+2] = 0           // pattern name
		v.vram[base+3] = 0x01        // color
	}
	v.vram[v.tblSAttr+5*4] = 208 // terminator

	var row [PlayWidth]byte
	v.spriteLine(&row)

	if v.status&status5S == 0 {
		t.Fatal("status5S (0x40) not set with 5 overlapping sprites")
	}
}

// Collision rule: two sprites with overlapping opaque pixels set 0x20.
func TestCollisionRule(t *testing.T) {
	v := New(NTSC)
	v.tblSAttr = 0x1000
	v.tblSPGen = 0x2000
	v.line = 1

	v.vram[v.tblSAttr+0] = 0 // sprite 0: Y
	v.vram[v.tblSAttr+1] = 10
	v.vram[v.tblSAttr+2] = 0
	v.vram[v.tblSAttr+3] = 0x01

	v.vram[v.tblSAttr+4+0] = 0 // sprite 1: same Y, same X
	v.vram[v.tblSAttr+4+1] = 10
	v.vram[v.tblSAttr+4+2] = 1
	v.vram[v.tblSAttr+4+3] = 0x02

	v.vram[v.tblSAttr+8] = 208 // terminator

	v.vram[v.tblSPGen+0*8+0] = 0x80 // pattern name 0, leftmost pixel opaque
	v.vram[v.tblSPGen+1*8+0] = 0x80 // pattern name 1, leftmost pixel opaque

	var row [PlayWidth]byte
	v.spriteLine(&row)

	if v.status&statusC == 0 {
		t.Fatal("collision bit (0x20) not set for overlapping opaque sprite pixels")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	v := New(NTSC)
	v.WriteControl(0x10)
	v.WriteControl(0x40 | 0x00)
	v.WriteData(0x42)
	v.line = 17

	w := serial.NewWriter(StateSize)
	v.Save(w)
	if w.Len() != StateSize {
		t.Fatalf("Save wrote %d bytes, want StateSize=%d", w.Len(), StateSize)
	}

	v2 := New(NTSC)
	v2.Load(serial.NewReader(w.Finish()))

	if v2.vram != v.vram || v2.registers != v.registers || v2.status != v.status ||
		v2.addr != v.addr || v2.dlatch != v.dlatch || v2.ctrlLatched != v.ctrlLatched ||
		v2.ctrlFirst != v.ctrlFirst || v2.line != v.line {
		t.Fatal("round trip mismatch")
	}
	if v2.tblPName != v.tblPName || v2.tblCol != v.tblCol || v2.tblPGen != v.tblPGen ||
		v2.tblSAttr != v.tblSAttr || v2.tblSPGen != v.tblSPGen {
		t.Fatal("recomputed table bases mismatch after Load")
	}
}
