// Package ay implements the AY-3-8910 Programmable Sound Generator used by
// the Super Game Module: three tone channels, one shared noise generator,
// and an 8-shape hardware envelope.
//
// Licensed under the GNU General Public License v3.0 or later.
package ay

import "github.com/colecovision-core/cvcore/internal/serial"

// RegCount is the number of addressable registers.
const RegCount = 16

// careMask holds the per-register don't-care mask applied on every write.
var careMask = [RegCount]byte{
	0xFF, 0x0F, 0xFF, 0x0F, 0xFF, 0x0F, 0x1F, 0xFF,
	0x1F, 0x1F, 0x1F, 0xFF, 0xFF, 0x0F, 0xFF, 0xFF,
}

// volumeTable converts a 4-bit amplitude/envelope level to its linear
// PCM contribution.
var volumeTable = [16]int16{
	0, 40, 60, 86, 124, 186, 264, 440,
	518, 840, 1196, 1526, 2016, 2602, 3300, 4096,
}

// AY is an AY-3-8910.
type AY struct {
	regs      [RegCount]byte
	latched   byte // currently selected register index

	tonePeriod  [3]uint16
	toneCounter [3]uint16
	toneSign    [3]bool

	amplitude [3]byte
	envMode   [3]bool

	toneDisable  [3]bool
	noiseDisable [3]bool

	noisePeriod  uint16
	noiseCounter uint16
	noiseShift   uint32

	envPeriod  uint16
	envCounter uint16
	evol       byte
	eseg       byte
	estep      int
}

// New returns an AY-3-8910 in its power-on state.
func New() *AY {
	a := &AY{}
	a.Reset()
	return a
}

// Reset restores power-on defaults.
func (a *AY) Reset() {
	*a = AY{noiseShift: 1}
}

// SelectRegister latches the register addressed by subsequent Write calls.
func (a *AY) SelectRegister(index byte) {
	a.latched = index & 0x0F
}

// LatchedValue returns the value currently held in the latched register,
// for port 0x52 ("current-register read").
func (a *AY) LatchedValue() byte {
	return a.regs[a.latched]
}

// Write stores data into the latched register (masked by its don't-care
// bits) and recomputes any state that register derives.
func (a *AY) Write(data byte) {
	reg := a.latched
	data &= careMask[reg]
	a.regs[reg] = data

	switch {
	case reg <= 5:
		ch := reg / 2
		period := uint16(a.regs[2*ch]) | uint16(a.regs[2*ch+1])<<8
		if period == 0 {
			period = 1
		}
		a.tonePeriod[ch] = period
	case reg == 6:
		period := uint16(data)
		if period == 0 {
			period = 1
		}
		a.noisePeriod = period
	case reg == 7:
		for ch := 0; ch < 3; ch++ {
			a.toneDisable[ch] = data&(1<<uint(ch)) != 0
			a.noiseDisable[ch] = data&(1<<uint(ch+3)) != 0
		}
	case reg == 8, reg == 9, reg == 10:
		ch := int(reg - 8)
		a.amplitude[ch] = data & 0x0F
		a.envMode[ch] = data&0x10 != 0
	case reg == 11, reg == 12:
		a.envPeriod = uint16(a.regs[11]) | uint16(a.regs[12])<<8
	case reg == 13:
		a.envCounter = 0
		a.eseg = 0
		a.envReset()
	}
}

// envReset applies the §4.6 "env_reset" rules that re-seed the envelope
// volume and step counter whenever register 13 is rewritten or a cycle
// of the shape completes.
func (a *AY) envReset() {
	shape := a.regs[13]
	if a.eseg == 1 {
		switch shape {
		case 8, 11, 13, 14:
			a.evol = 15
		default:
			a.evol = 0
		}
	} else {
		if shape&0x04 != 0 {
			a.evol = 0
		} else {
			a.evol = 15
		}
	}
	a.estep = 0
}

// Clock advances all three tone generators, the noise generator, and the
// envelope generator by one AY-internal clock (already divided by the
// caller from the Z80 clock).
func (a *AY) Clock() {
	for ch := 0; ch < 3; ch++ {
		a.toneCounter[ch]++
		if a.toneCounter[ch] >= a.tonePeriod[ch] {
			a.toneCounter[ch] = 0
			a.toneSign[ch] = !a.toneSign[ch]
		}
	}

	a.noiseCounter++
	if a.noiseCounter >= a.noisePeriod<<1 {
		a.noiseCounter = 0
		bit := ((a.noiseShift ^ (a.noiseShift >> 3)) & 1) << 16
		a.noiseShift = (a.noiseShift >> 1) | bit
	}

	a.envCounter++
	if a.envCounter >= a.envPeriod<<1 {
		a.envCounter = 0
		a.advanceEnvelope()
	}
}

func (a *AY) advanceEnvelope() {
	shape := a.regs[13]
	if a.estep > 0 {
		switch {
		case a.eseg == 1 && (shape == 10 || shape == 12):
			if a.evol < 15 {
				a.evol++
			}
		case a.eseg == 1 && (shape == 8 || shape == 14):
			if a.evol > 0 {
				a.evol--
			}
		case a.eseg == 0 && shape&0x04 != 0:
			if a.evol < 15 {
				a.evol++
			}
		case a.eseg == 0:
			if a.evol > 0 {
				a.evol--
			}
		}
		// eseg == 1 and shape not in {8,10,12,14}: hold.
	}

	a.estep++
	if a.estep >= 16 {
		if shape&0x09 == 0x08 {
			a.eseg ^= 1
		} else {
			a.eseg = 1
		}
		a.envReset()
	}
}

// Sample mixes the three tone channels after a Clock, per §4.6's out-gate
// formula and envelope/amplitude volume selection.
func (a *AY) Sample() int16 {
	var sum int16
	noiseBit := byte(a.noiseShift & 1)
	for ch := 0; ch < 3; ch++ {
		toneGate := boolToBit(a.toneDisable[ch]) | boolToBit(a.toneSign[ch])
		noiseGate := boolToBit(a.noiseDisable[ch]) | noiseBit
		if toneGate&noiseGate == 0 {
			continue
		}
		if a.envMode[ch] {
			sum += volumeTable[a.evol]
		} else {
			sum += volumeTable[a.amplitude[ch]]
		}
	}
	return sum
}

func boolToBit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Exec advances the chip by n clocks and appends one sample per clock to
// out, returning the number of samples produced.
func (a *AY) Exec(n int, out []int16) int {
	produced := 0
	for i := 0; i < n && produced < len(out); i++ {
		a.Clock()
		out[produced] = a.Sample()
		produced++
	}
	return produced
}

// EnvelopeVolume exposes the current envelope level (0-15), primarily for
// tests that assert shape behavior directly.
func (a *AY) EnvelopeVolume() byte { return a.evol }

// StateSize is the fixed serialized size of an AY snapshot.
const StateSize = RegCount + 1 /*latched*/ +
	2*3 /*tonePeriod*/ + 2*3 /*toneCounter*/ + 3 /*toneSign*/ +
	3 /*amplitude*/ + 3 /*envMode*/ + 3 /*toneDisable*/ + 3 /*noiseDisable*/ +
	2 /*noisePeriod*/ + 2 /*noiseCounter*/ + 4 /*noiseShift*/ +
	2 /*envPeriod*/ + 2 /*envCounter*/ + 1 /*evol*/ + 1 /*eseg*/ + 4 /*estep*/

// Save appends the AY's state to w.
func (a *AY) Save(w *serial.Writer) {
	w.Bytes(a.regs[:])
	w.U8(a.latched)
	for ch := 0; ch < 3; ch++ {
		w.U16(a.tonePeriod[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.U16(a.toneCounter[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.Bool(a.toneSign[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.U8(a.amplitude[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.Bool(a.envMode[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.Bool(a.toneDisable[ch])
	}
	for ch := 0; ch < 3; ch++ {
		w.Bool(a.noiseDisable[ch])
	}
	w.U16(a.noisePeriod)
	w.U16(a.noiseCounter)
	w.U32(a.noiseShift)
	w.U16(a.envPeriod)
	w.U16(a.envCounter)
	w.U8(a.evol)
	w.U8(a.eseg)
	w.U32(uint32(a.estep))
}

// Load restores the AY's state from r.
func (a *AY) Load(r *serial.Reader) {
	r.Bytes(a.regs[:])
	a.latched = r.U8()
	for ch := 0; ch < 3; ch++ {
		a.tonePeriod[ch] = r.U16()
	}
	for ch := 0; ch < 3; ch++ {
		a.toneCounter[ch] = r.U16()
	}
	for ch := 0; ch < 3; ch++ {
		a.toneSign[ch] = r.Bool()
	}
	for ch := 0; ch < 3; ch++ {
		a.amplitude[ch] = r.U8()
	}
	for ch := 0; ch < 3; ch++ {
		a.envMode[ch] = r.Bool()
	}
	for ch := 0; ch < 3; ch++ {
		a.toneDisable[ch] = r.Bool()
	}
	for ch := 0; ch < 3; ch++ {
		a.noiseDisable[ch] = r.Bool()
	}
	a.noisePeriod = r.U16()
	a.noiseCounter = r.U16()
	a.noiseShift = r.U32()
	a.envPeriod = r.U16()
	a.envCounter = r.U16()
	a.evol = r.U8()
	a.eseg = r.U8()
	a.estep = int(r.U32())
}
