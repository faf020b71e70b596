package vdp

import "github.com/colecovision-core/cvcore/internal/serial"

// StateSize is the fixed serialized size of a VDP snapshot.
const StateSize = VRAMSize + 8 /*registers*/ + 1 /*status*/ + 2 /*addr*/ +
	1 /*dlatch*/ + 1 /*ctrlLatched*/ + 1 /*ctrlFirst*/ + 2 /*line*/

// Save appends the VDP's state to w.
func (v *VDP) Save(w *serial.Writer) {
	w.Bytes(v.vram[:])
	w.Bytes(v.registers[:])
	w.U8(v.status)
	w.U16(v.addr)
	w.U8(v.dlatch)
	w.Bool(v.ctrlLatched)
	w.U8(v.ctrlFirst)
	w.U16(uint16(v.line))
}

// Load restores the VDP's state from r and recomputes the derived table
// base addresses from the restored registers.
func (v *VDP) Load(r *serial.Reader) {
	r.Bytes(v.vram[:])
	r.Bytes(v.registers[:])
	v.status = r.U8()
	v.addr = r.U16()
	v.dlatch = r.U8()
	v.ctrlLatched = r.Bool()
	v.ctrlFirst = r.U8()
	v.line = int(r.U16())
	v.recomputeTables()
}

func (v *VDP) recomputeTables() {
	v.tblPName = uint16(v.registers[2]) << 10
	v.tblCol = uint16(v.registers[3]) << 6
	v.tblPGen = uint16(v.registers[4]) << 11
	v.tblSAttr = uint16(v.registers[5]) << 7
	v.tblSPGen = uint16(v.registers[6]) << 11
}
