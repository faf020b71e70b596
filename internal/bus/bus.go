// Package bus implements the ColecoVision memory map and I/O port
// fabric: BIOS / system-RAM mirror / SGM-RAM overlay / cart-ROM paging
// with Mega Cart bank switching, and dispatch to the VDP, both PSGs, and
// the two controller ports.
//
// Licensed under the GNU General Public License v3.0 or later.
package bus

import (
	"math/rand"

	"github.com/colecovision-core/cvcore/internal/ay"
	"github.com/colecovision-core/cvcore/internal/psg"
	"github.com/colecovision-core/cvcore/internal/serial"
	"github.com/colecovision-core/cvcore/internal/vdp"
)

const (
	sysRAMSize = 0x400
	sgmRAMSize = 0x8000
)

// cycleCharger is satisfied by the CPU adapter; it lets the bus fold I/O
// wait-state penalties into the instruction currently executing.
type cycleCharger interface {
	AddCycles(n int)
}

// Bus is the ColecoVision memory/IO fabric.
type Bus struct {
	bios   [BIOSSize]byte
	sysRAM [sysRAMSize]byte
	sgmRAM [sgmRAMSize]byte

	sgmLower, sgmUpper bool
	cseg               byte
	ctrl               [2]uint16

	rom      []byte
	romPages [4]uint32
	megacart bool

	VDP   *vdp.VDP
	PSG   *psg.PSG
	AY    *ay.AY
	Input InputFunc
	CPU   cycleCharger
}

// New returns a Bus wired to the given peripherals. System RAM is seeded
// with pseudo-random bytes and SGM RAM with 0xFF, matching real hardware
// power-on state that some titles rely on.
func New(v *vdp.VDP, p *psg.PSG, a *ay.AY) *Bus {
	b := &Bus{VDP: v, PSG: p, AY: a}
	b.Reset()
	return b
}

// Reset re-randomizes system RAM, fills SGM RAM with 0xFF, and clears the
// overlay/strobe/controller-cache state. Cart and BIOS images are kept.
func (b *Bus) Reset() {
	rand.Read(b.sysRAM[:])
	for i := range b.sgmRAM {
		b.sgmRAM[i] = 0xFF
	}
	b.sgmLower = false
	b.sgmUpper = false
	b.cseg = 0
	b.ctrl = [2]uint16{}
}

// Read implements mem_read (§4.1).
func (b *Bus) Read(addr uint16) byte {
	switch {
	case b.sgmLower && addr < 0x2000:
		return b.sgmRAM[addr]
	case addr < 0x2000:
		return b.bios[addr]
	case b.sgmUpper && addr < 0x8000:
		return b.sgmRAM[addr]
	case addr < 0x6000:
		return 0xFF
	case addr < 0x8000:
		return b.sysRAM[addr&0x3FF]
	default:
		return b.cartRead(addr)
	}
}

func (b *Bus) cartRead(addr uint16) byte {
	if b.megacart && addr >= 0xFFC0 {
		pages8k := uint32(len(b.rom)) / 0x2000
		numBanks := pages8k >> 1
		if numBanks > 0 {
			bank := uint32(addr) & (numBanks - 1)
			b.romPages[2] = bank << 14
			b.romPages[3] = b.romPages[2] + 0x2000
		}
	}
	if int(addr) >= len(b.rom)+0x8000 {
		return 0xFF
	}
	page := (addr >> 13) - 4
	offset := b.romPages[page] + uint32(addr&0x1FFF)
	if int(offset) >= len(b.rom) {
		return 0xFF
	}
	return b.rom[offset]
}

// Write implements mem_write (§4.2). Writes to ROM-backed regions are
// silently discarded, matching hardware behavior.
func (b *Bus) Write(addr uint16, data byte) {
	switch {
	case b.sgmLower && addr < 0x2000:
		b.sgmRAM[addr] = data
	case addr < 0x2000:
		// BIOS ROM, silent.
	case b.sgmUpper && addr < 0x8000:
		b.sgmRAM[addr] = data
	case addr < 0x6000:
		// Unmapped expansion port, silent.
	case addr < 0x8000:
		b.sysRAM[addr&0x3FF] = data
	default:
		// Cart ROM, silent.
	}
}

// In implements the §4.3 I/O read dispatch.
func (b *Bus) In(port uint16) byte {
	if port == 0x52 {
		return b.AY.LatchedValue()
	}
	switch port & 0xE0 {
	case 0xA0:
		if port&1 == 1 {
			return b.VDP.ReadStatus()
		}
		return b.VDP.ReadData()
	case 0xE0:
		return b.readController(port)
	default:
		return 0xFF
	}
}

// Out implements the §4.3 I/O write dispatch.
func (b *Bus) Out(port uint16, data byte) {
	switch port {
	case 0x50:
		b.AY.SelectRegister(data & 0x0F)
		return
	case 0x51:
		b.AY.Write(data)
		return
	case 0x53:
		b.sgmUpper = true
		return
	case 0x7F:
		b.sgmLower = (^data)&0x02 != 0
		return
	}
	switch port & 0xE0 {
	case 0x80:
		b.cseg = 0
	case 0xC0:
		b.cseg = 1
	case 0xA0:
		if port&1 == 1 {
			b.VDP.WriteControl(data)
		} else {
			b.VDP.WriteData(data)
		}
	case 0xE0:
		if b.CPU != nil {
			b.CPU.AddCycles(48)
		}
		b.PSG.Write(data)
	}
}

// Tick is a no-op: the frame scheduler clocks the PSGs from the cycle
// count StepCycles returns rather than from this callback.
func (b *Bus) Tick(int) {}

// StateSize is the fixed serialized size of the bus's own state (memory
// map and controller-strobe context; not the peripherals it dispatches to).
//
// This adds the sgm_lower/sgm_upper overlay flags that §4.10's field list
// omits; without them a save/load cycle would silently disable the SGM
// RAM overlay on any title that had enabled it, which violates the
// save/restore round-trip invariant (§8).
const StateSize = sysRAMSize + sgmRAMSize + 1 /*cseg*/ + 2*2 /*ctrl*/ + 4*4 /*romPages*/ + 1 /*sgm flags*/

// Save appends the bus's own state (system RAM, SGM RAM, strobe, cached
// controller words, ROM page table, SGM overlay flags) to w.
func (b *Bus) Save(w *serial.Writer) {
	w.Bytes(b.sysRAM[:])
	w.Bytes(b.sgmRAM[:])
	w.U8(b.cseg)
	w.U16(b.ctrl[0])
	w.U16(b.ctrl[1])
	for i := 0; i < 4; i++ {
		w.U32(b.romPages[i])
	}
	flags := byte(0)
	if b.sgmLower {
		flags |= 0x01
	}
	if b.sgmUpper {
		flags |= 0x02
	}
	w.U8(flags)
}

// Load restores the bus's own state from r.
func (b *Bus) Load(r *serial.Reader) {
	r.Bytes(b.sysRAM[:])
	r.Bytes(b.sgmRAM[:])
	b.cseg = r.U8()
	b.ctrl[0] = r.U16()
	b.ctrl[1] = r.U16()
	for i := 0; i < 4; i++ {
		b.romPages[i] = r.U32()
	}
	flags := r.U8()
	b.sgmLower = flags&0x01 != 0
	b.sgmUpper = flags&0x02 != 0
}

// SGMEnables reports the current lower/upper SGM RAM overlay flags,
// primarily for tests.
func (b *Bus) SGMEnables() (lower, upper bool) { return b.sgmLower, b.sgmUpper }
