package psg

import (
	"testing"

	"github.com/colecovision-core/cvcore/internal/serial"
)

func TestResetSilencesAttenuators(t *testing.T) {
	p := New()
	for i, a := range p.attenuator {
		if a != 0x0F {
			t.Fatalf("attenuator[%d] = %#x after reset, want 0x0F (silent)", i, a)
		}
	}
}

func TestToneFrequencyLatchThenData(t *testing.T) {
	p := New()
	// LATCH byte for channel 0 tone: 1 00 0 nnnn
	p.Write(0x80 | 0x05)
	// DATA byte supplies the high 6 bits.
	p.Write(0x3F)
	want := uint16(0x3F)<<4 | 0x05
	if p.frequency[0] != want {
		t.Fatalf("frequency[0] = %#x, want %#x", p.frequency[0], want)
	}
}

func TestAttenuatorLatch(t *testing.T) {
	p := New()
	p.Write(0x80 | 0x10 | 0x07) // LATCH channel 0 attenuator = 7
	if p.attenuator[0] != 7 {
		t.Fatalf("attenuator[0] = %d, want 7", p.attenuator[0])
	}
}

func TestVolumeTableSilenceAtMax(t *testing.T) {
	if volumeTable[0x0F] != 0 {
		t.Fatalf("volumeTable[0x0F] = %d, want 0 (silence)", volumeTable[0x0F])
	}
	if volumeTable[0] == 0 {
		t.Fatalf("volumeTable[0] = 0, want max volume")
	}
}

// Periodic-noise period: with a fixed noise shift rate and attenuation,
// the LFSR-driven output sequence must repeat with period 15 (§8).
func TestPeriodicNoisePeriod15(t *testing.T) {
	p := New()
	p.Write(0x80 | 0x60 | 0x00) // LATCH noise (channel 3) register: shift rate 0, periodic

	shifts := make([]uint16, 0, 60)
	prev := p.lfsr
	for len(shifts) < 60 {
		p.Clock()
		if p.lfsr != prev {
			shifts = append(shifts, p.lfsr)
			prev = p.lfsr
		}
	}

	const period = 15
	for i := 0; i+period < len(shifts); i++ {
		if shifts[i] != shifts[i+period] {
			t.Fatalf("LFSR sequence did not repeat with period %d at shift %d: %#x != %#x",
				period, i, shifts[i], shifts[i+period])
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := New()
	p.Write(0x80 | 0x05)
	p.Write(0x3F)
	p.Write(0x80 | 0x10 | 0x03)
	for i := 0; i < 7; i++ {
		p.Clock()
	}

	w := serial.NewWriter(StateSize)
	p.Save(w)
	if w.Len() != StateSize {
		t.Fatalf("Save wrote %d bytes, want StateSize=%d", w.Len(), StateSize)
	}

	p2 := New()
	p2.Load(serial.NewReader(w.Finish()))

	if p2.frequency != p.frequency || p2.attenuator != p.attenuator ||
		p2.counter != p.counter || p2.output != p.output ||
		p2.freqff != p.freqff || p2.noiseReg != p.noiseReg || p2.lfsr != p.lfsr ||
		p2.latchChannel != p.latchChannel || p2.latchIsAtten != p.latchIsAtten {
		t.Fatalf("round trip mismatch: got %+v, want %+v", p2, p)
	}
}

// Writing the volume register with max then min attenuation selects a peak
// level and silence from the volume table, distinct from each other (the
// level pair the PCM trick scenario from §8 alternates between).
func TestDCPCMAlternation(t *testing.T) {
	p := New()
	// Drive the channel-0 polarity to its "high" half directly, then vary
	// only the attenuator, the way a DC-PCM trick plays samples through
	// the volume register while holding the tone generator fixed.
	p.output[0] = volumeTable[0]
	p.freqff = 0

	p.Write(0x90) // channel 0 attenuator = 0 (max volume)
	peak := volumeTable[p.attenuator[0]]
	p.Write(0x9F) // channel 0 attenuator = 0x0F (silence)
	silent := volumeTable[p.attenuator[0]]

	if peak == silent {
		t.Fatalf("expected distinct peak/silent volume levels, got %d and %d", peak, silent)
	}
	if silent != 0 {
		t.Fatalf("attenuator 0x0F should be silence, got %d", silent)
	}
}
