// Package system assembles the CPU host adapter, memory/IO bus, both PSGs,
// the VDP, and the mixer into one aggregate whose methods (FrameExec,
// Reset, SaveState, LoadState) take it by reference, so tests and hosts
// can own as many independent ColecoVision instances as they like.
//
// Licensed under the GNU General Public License v3.0 or later.
package system

import (
	"errors"

	"github.com/colecovision-core/cvcore/internal/ay"
	"github.com/colecovision-core/cvcore/internal/bus"
	"github.com/colecovision-core/cvcore/internal/mixer"
	"github.com/colecovision-core/cvcore/internal/psg"
	"github.com/colecovision-core/cvcore/internal/serial"
	"github.com/colecovision-core/cvcore/internal/vdp"
	"github.com/colecovision-core/cvcore/internal/z80"
)

// cyclesPerScanline is the Z80-cycle budget for one VDP scanline,
// derived from 3.579545 MHz x 2/3 of the VDP rate / 262 scanlines.
const cyclesPerScanline = 228

// Region selects the television standard, which sets scanline count and
// frame rate but not the pixel count per line.
type Region = vdp.Region

const (
	NTSC = vdp.NTSC
	PAL  = vdp.PAL
)

// maxSamplesPerFrame bounds the scratch PSG/AY sample buffers. The Z80
// runs at most cyclesPerScanline*numScanlines cycles per frame, divided
// by 16 for the PSG clock; PAL's 313 lines is the larger of the two.
const maxSamplesPerFrame = (cyclesPerScanline*vdp.PALScanlines)/16 + 64

// System is a complete ColecoVision core instance.
type System struct {
	CPU *z80.CPU
	Bus *bus.Bus
	VDP *vdp.VDP
	PSG *psg.PSG
	AY  *ay.AY

	Mixer *mixer.Mixer

	// AudioReady is invoked once per frame with the number of samples
	// FrameExec deposited into AudioBuffer.
	AudioReady func(samples int)
	AudioBuffer []int16

	extCycles     int
	psgDivCounter int

	psgScratch []int16
	aySccratch []int16

	region vdp.Region
}

// New constructs a System for the given region, already wired with all
// cross-component callbacks (VDP NMI -> CPU, bus I/O -> VDP/PSG/AY, PSG
// write penalty -> CPU cycle charge).
func New(region Region) *System {
	v := vdp.New(region)
	p := psg.New()
	a := ay.New()
	b := bus.New(v, p, a)
	cpu := z80.NewCPU(b)
	b.CPU = cpu
	v.NMI = cpu.PulseNMI

	s := &System{
		CPU:         cpu,
		Bus:         b,
		VDP:         v,
		PSG:         p,
		AY:          a,
		Mixer:       mixer.New(3579545.0/16.0, mixer.Rate44100, 5),
		AudioBuffer: make([]int16, maxSamplesPerFrame),
		psgScratch:  make([]int16, maxSamplesPerFrame),
		aySccratch:  make([]int16, maxSamplesPerFrame),
		region:      region,
	}
	return s
}

// SetInput installs the frontend controller-poll callback.
func (s *System) SetInput(fn bus.InputFunc) { s.Bus.Input = fn }

// SetRegion switches NTSC/PAL by changing the VDP scanline count; the
// mixer's native PSG rate is left unchanged.
func (s *System) SetRegion(r Region) {
	s.region = r
	s.VDP.SetRegion(r)
}

// SetSampleRate changes the host audio output rate, rejecting any rate
// outside the four the mixer was built to resample to.
func (s *System) SetSampleRate(r mixer.SampleRate) error { return s.Mixer.SetHostRate(r) }

// LoadBIOS installs the 8 KB BIOS image.
func (s *System) LoadBIOS(data []byte) error { return s.Bus.LoadBIOS(data) }

// LoadROM installs a cartridge image, classifying Mega Cart layouts.
func (s *System) LoadROM(data []byte) error { return s.Bus.LoadROM(data) }

// Reset performs a full reset of every sub-chip and the CPU, and clears
// the scheduler's residual-cycle accounting.
func (s *System) Reset() {
	s.Bus.Reset()
	s.VDP.Reset()
	s.PSG.Reset()
	s.AY.Reset()
	s.CPU.Reset()
	s.extCycles = 0
	s.psgDivCounter = 0
}

// FrameExec runs exactly one video frame: it interleaves CPU execution
// with scanline-granular VDP rendering and cycle-divided PSG sample
// generation, then resamples and delivers one frame of audio.
func (s *System) FrameExec() {
	psgSamples := 0
	aySamples := 0

	numScanlines := s.VDP.NumScanlines()
	for line := 0; line < numScanlines; line++ {
		reqCycles := cyclesPerScanline - s.extCycles
		lineCycles := 0
		for lineCycles < reqCycles {
			iterCycles := s.CPU.StepCycles()
			lineCycles += iterCycles
			s.psgDivCounter += iterCycles
			for s.psgDivCounter >= 16 {
				s.psgDivCounter -= 16
				if psgSamples < len(s.psgScratch) {
					psgSamples += s.PSG.Exec(1, s.psgScratch[psgSamples:])
				}
				if aySamples < len(s.aySccratch) {
					aySamples += s.AY.Exec(1, s.aySccratch[aySamples:])
				}
			}
		}
		s.extCycles = lineCycles - reqCycles
		s.VDP.Exec()
	}

	n := s.Mixer.Mix(s.psgScratch[:psgSamples], s.aySccratch[:aySamples], s.AudioBuffer)
	if s.AudioReady != nil {
		s.AudioReady(n)
	}
}

// Frame copies the current 272x208 BGRA framebuffer into out.
func (s *System) Frame(out []byte) { s.VDP.Frame(out) }

// StateSize is the fixed serialized size of a full save state, in the
// same component order SaveState writes them: bus, PSG, SGM PSG, VDP, Z80.
const StateSize = bus.StateSize + psg.StateSize + ay.StateSize + vdp.StateSize + z80.StateSize

// SaveState serializes the entire machine: memory map and controller
// cache, SN76489, AY-3-8910, TMS9928A, and the Z80 register file, in that
// fixed order, as a flat byte slice of exactly StateSize bytes.
func (s *System) SaveState() []byte {
	w := serial.NewWriter(StateSize)
	s.Bus.Save(w)
	s.PSG.Save(w)
	s.AY.Save(w)
	s.VDP.Save(w)
	s.CPU.Save(w)
	return w.Finish()
}

// ErrBadStateSize is returned by LoadState when given a buffer whose
// length doesn't exactly match StateSize.
var ErrBadStateSize = errors.New("system: save state size mismatch")

// LoadState restores a machine from a buffer previously produced by
// SaveState. It returns an error if the buffer is not exactly StateSize
// bytes.
func (s *System) LoadState(data []byte) error {
	if len(data) != StateSize {
		return ErrBadStateSize
	}
	r := serial.NewReader(data)
	s.Bus.Load(r)
	s.PSG.Load(r)
	s.AY.Load(r)
	s.VDP.Load(r)
	s.CPU.Load(r)
	return r.Err()
}
