// Package mixer sums the two PSG output streams and resamples the result
// to a host-chosen output rate, treating the resampler itself as the
// narrow black box the core is specified against: a rate, a quality
// knob, and a mono stream.
//
// Licensed under the GNU General Public License v3.0 or later.
package mixer

import "errors"

// ErrBadSampleRate is returned by SetHostRate when asked for a rate the
// resampler was not specified against.
var ErrBadSampleRate = errors.New("mixer: unsupported host sample rate")

// SampleRate is a host output rate the resampler supports.
type SampleRate int

const (
	Rate44100  SampleRate = 44100
	Rate48000  SampleRate = 48000
	Rate96000  SampleRate = 96000
	Rate192000 SampleRate = 192000
)

// Valid reports whether r is one of the four supported host rates.
func (r SampleRate) Valid() bool {
	switch r {
	case Rate44100, Rate48000, Rate96000, Rate192000:
		return true
	}
	return false
}

// Mixer sums the SN76489 and AY-3-8910 streams into an internal scratch
// buffer and resamples to the host rate. Quality 0 selects nearest-neighbor;
// every quality from 1 to 10 selects the same plain linear interpolation,
// with no oversampling.
type Mixer struct {
	nativeRate float64 // PSG samples per second at the chip's divided clock
	hostRate   float64
	quality    int

	resamplePos float64
	scratch     []int16
}

// New returns a Mixer configured for the given native PSG sample rate,
// host output rate, and resampler quality (0-10).
func New(nativeRate float64, hostRate SampleRate, quality int) *Mixer {
	if quality < 0 {
		quality = 0
	}
	if quality > 10 {
		quality = 10
	}
	return &Mixer{nativeRate: nativeRate, hostRate: float64(hostRate), quality: quality}
}

// SetHostRate changes the output rate without resetting interpolation phase.
// It rejects any rate outside the four supported host rates.
func (m *Mixer) SetHostRate(r SampleRate) error {
	if !r.Valid() {
		return ErrBadSampleRate
	}
	m.hostRate = float64(r)
	return nil
}

// SetNativeRate changes the input rate (e.g. on NTSC/PAL region switch).
func (m *Mixer) SetNativeRate(r float64) { m.nativeRate = r }

// Mix sums psg and sgm into the mixer's scratch buffer (neither input slice
// is modified), then resamples the combined stream into out, returning the
// number of samples written. psg and sgm need not be
// the same length; the shorter is zero-extended.
func (m *Mixer) Mix(psg, sgm []int16, out []int16) int {
	n := len(psg)
	if len(sgm) > n {
		n = len(sgm)
	}
	if cap(m.scratch) < n {
		m.scratch = make([]int16, n)
	}
	combined := m.scratch[:n]
	for i := 0; i < n; i++ {
		var a, b int32
		if i < len(psg) {
			a = int32(psg[i])
		}
		if i < len(sgm) {
			b = int32(sgm[i])
		}
		combined[i] = saturate(a + b)
	}
	return m.resample(combined, out)
}

func saturate(v int32) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// resample converts in (at m.nativeRate) to out (at m.hostRate) with a
// linear interpolator, carrying fractional phase across calls so pitch
// stays stable across frame boundaries.
func (m *Mixer) resample(in []int16, out []int16) int {
	if len(in) == 0 || m.nativeRate <= 0 || m.hostRate <= 0 {
		return 0
	}
	step := m.nativeRate / m.hostRate
	produced := 0
	pos := m.resamplePos
	for produced < len(out) {
		i0 := int(pos)
		if i0 >= len(in)-1 {
			break
		}
		frac := pos - float64(i0)
		if m.quality == 0 {
			out[produced] = in[i0]
		} else {
			s0, s1 := float64(in[i0]), float64(in[i0+1])
			out[produced] = int16(s0 + (s1-s0)*frac)
		}
		produced++
		pos += step
	}
	// in is always the next contiguous chunk of the native stream, so the
	// leftover phase carries forward relative to the end of this buffer.
	newPos := pos - float64(len(in))
	if newPos < 0 {
		newPos = 0
	}
	m.resamplePos = newPos
	return produced
}
