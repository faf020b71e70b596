package z80

import "github.com/colecovision-core/cvcore/internal/serial"

// StepCycles executes exactly one instruction (or interrupt acknowledge,
// or halted NOP) and returns the number of Z80 cycles it consumed. This
// is the step() -> cycles hook the frame scheduler drives the CPU with.
func (c *CPU) StepCycles() int {
	before := c.Cycles
	c.Step()
	return int(c.Cycles - before)
}

// PulseNMI requests a non-maskable interrupt. It is serviced on the next
// StepCycles call regardless of IFF1, matching edge-triggered NMI lines
// such as the TMS9928A's VBlank output.
func (c *CPU) PulseNMI() {
	c.mutex.Lock()
	c.nmiPending = true
	c.mutex.Unlock()
}

// PulseIRQ requests a maskable interrupt with the given IM2 vector byte
// (or IM0 instruction byte). The request is consumed by the next
// StepCycles call that finds IFF1 enabled; it does not stay latched.
func (c *CPU) PulseIRQ(data byte) {
	c.mutex.Lock()
	c.irqVector = data
	c.irqLine = true
	c.mutex.Unlock()
}

// AddCycles charges extra bus cycles to the instruction currently in
// flight without re-entering Step. Bus implementations use this to fold
// I/O wait-state penalties into the reported instruction cycle count.
func (c *CPU) AddCycles(n int) {
	c.Cycles += uint64(n)
}

// Registers is a flat snapshot of the full Z80 register file, suitable
// for save-state serialization.
type Registers struct {
	A, F, B, C, D, E, H, L     byte
	A2, F2, B2, C2, D2, E2, H2, L2 byte
	IX, IY, SP, PC, WZ         uint16
	I, R, IM                   byte
	IFF1, IFF2                 bool
	Halted                     bool
	IRQLine, NMILine, NMIPrev  bool
	NMIPending                 bool
	IRQVector                  byte
	IFFDelay                   int
	Cycles                     uint64
}

// Snapshot returns the current register file for serialization.
func (c *CPU) Snapshot() Registers {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return Registers{
		A: c.A, F: c.F, B: c.B, C: c.C, D: c.D, E: c.E, H: c.H, L: c.L,
		A2: c.A2, F2: c.F2, B2: c.B2, C2: c.C2, D2: c.D2, E2: c.E2, H2: c.H2, L2: c.L2,
		IX: c.IX, IY: c.IY, SP: c.SP, PC: c.PC, WZ: c.WZ,
		I: c.I, R: c.R, IM: c.IM,
		IFF1: c.IFF1, IFF2: c.IFF2, Halted: c.Halted,
		IRQLine: c.irqLine, NMILine: c.nmiLine, NMIPrev: c.nmiPrev, NMIPending: c.nmiPending,
		IRQVector: c.irqVector, IFFDelay: c.iffDelay, Cycles: c.Cycles,
	}
}

// Restore replaces the register file from a previously captured snapshot.
func (c *CPU) Restore(r Registers) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L = r.A, r.F, r.B, r.C, r.D, r.E, r.H, r.L
	c.A2, c.F2, c.B2, c.C2, c.D2, c.E2, c.H2, c.L2 = r.A2, r.F2, r.B2, r.C2, r.D2, r.E2, r.H2, r.L2
	c.IX, c.IY, c.SP, c.PC, c.WZ = r.IX, r.IY, r.SP, r.PC, r.WZ
	c.I, c.R, c.IM = r.I, r.R, r.IM
	c.IFF1, c.IFF2, c.Halted = r.IFF1, r.IFF2, r.Halted
	c.irqLine, c.nmiLine, c.nmiPrev, c.nmiPending = r.IRQLine, r.NMILine, r.NMIPrev, r.NMIPending
	c.irqVector, c.iffDelay, c.Cycles = r.IRQVector, r.IFFDelay, r.Cycles
}

// StateSize is the fixed serialized size of a register-file snapshot.
const StateSize = 16 /*A..L2 pairs*/ + 2*5 /*IX,IY,SP,PC,WZ*/ + 3 /*I,R,IM*/ +
	6 /*IFF1,IFF2,Halted,IRQLine,NMILine,NMIPrev*/ + 1 /*NMIPending*/ + 1 /*IRQVector*/ + 8 /*IFFDelay*/ + 8 /*Cycles*/

// Save appends the current register file to w.
func (c *CPU) Save(w *serial.Writer) {
	r := c.Snapshot()
	w.U8(r.A)
	w.U8(r.F)
	w.U8(r.B)
	w.U8(r.C)
	w.U8(r.D)
	w.U8(r.E)
	w.U8(r.H)
	w.U8(r.L)
	w.U8(r.A2)
	w.U8(r.F2)
	w.U8(r.B2)
	w.U8(r.C2)
	w.U8(r.D2)
	w.U8(r.E2)
	w.U8(r.H2)
	w.U8(r.L2)
	w.U16(r.IX)
	w.U16(r.IY)
	w.U16(r.SP)
	w.U16(r.PC)
	w.U16(r.WZ)
	w.U8(r.I)
	w.U8(r.R)
	w.U8(r.IM)
	w.Bool(r.IFF1)
	w.Bool(r.IFF2)
	w.Bool(r.Halted)
	w.Bool(r.IRQLine)
	w.Bool(r.NMILine)
	w.Bool(r.NMIPrev)
	w.Bool(r.NMIPending)
	w.U8(r.IRQVector)
	w.U64(uint64(int64(r.IFFDelay)))
	w.U64(r.Cycles)
}

// Load restores the register file from r, in the order Save wrote it.
func (c *CPU) Load(rd *serial.Reader) {
	var r Registers
	r.A = rd.U8()
	r.F = rd.U8()
	r.B = rd.U8()
	r.C = rd.U8()
	r.D = rd.U8()
	r.E = rd.U8()
	r.H = rd.U8()
	r.L = rd.U8()
	r.A2 = rd.U8()
	r.F2 = rd.U8()
	r.B2 = rd.U8()
	r.C2 = rd.U8()
	r.D2 = rd.U8()
	r.E2 = rd.U8()
	r.H2 = rd.U8()
	r.L2 = rd.U8()
	r.IX = rd.U16()
	r.IY = rd.U16()
	r.SP = rd.U16()
	r.PC = rd.U16()
	r.WZ = rd.U16()
	r.I = rd.U8()
	r.R = rd.U8()
	r.IM = rd.U8()
	r.IFF1 = rd.Bool()
	r.IFF2 = rd.Bool()
	r.Halted = rd.Bool()
	r.IRQLine = rd.Bool()
	r.NMILine = rd.Bool()
	r.NMIPrev = rd.Bool()
	r.NMIPending = rd.Bool()
	r.IRQVector = rd.U8()
	r.IFFDelay = int(int64(rd.U64()))
	r.Cycles = rd.U64()
	c.Restore(r)
}
