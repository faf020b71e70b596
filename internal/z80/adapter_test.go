package z80

import (
	"testing"

	"github.com/colecovision-core/cvcore/internal/serial"
)

func TestStepCyclesMatchesCyclesDelta(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{0x00}) // NOP
	got := rig.cpu.StepCycles()
	if got <= 0 {
		t.Fatalf("StepCycles = %d, want > 0", got)
	}
}

func TestPulseIRQIsOneShot(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{0x00, 0x00, 0x00, 0x00})
	rig.cpu.IFF1 = true
	rig.cpu.IM = 1
	rig.cpu.PulseIRQ(0xFF)

	rig.cpu.StepCycles() // services the IRQ (or the pending NOP, then IRQ on next boundary)
	for i := 0; i < 4 && rig.cpu.irqLine; i++ {
		rig.cpu.StepCycles()
	}
	if rig.cpu.irqLine {
		t.Fatal("PulseIRQ did not clear after being serviced")
	}
}

func TestPulseNMISetsPending(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.cpu.PulseNMI()
	if !rig.cpu.nmiPending {
		t.Fatal("PulseNMI did not set nmiPending")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.cpu.A = 0x42
	rig.cpu.PC = 0x1234
	rig.cpu.IFF1 = true
	rig.cpu.Cycles = 999

	snap := rig.cpu.Snapshot()

	rig2 := newCPUZ80TestRig()
	rig2.cpu.Restore(snap)

	if rig2.cpu.A != 0x42 || rig2.cpu.PC != 0x1234 || !rig2.cpu.IFF1 || rig2.cpu.Cycles != 999 {
		t.Fatalf("Restore mismatch: A=%#x PC=%#x IFF1=%v Cycles=%d",
			rig2.cpu.A, rig2.cpu.PC, rig2.cpu.IFF1, rig2.cpu.Cycles)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.cpu.B = 0x11
	rig.cpu.SP = 0xFFFE
	rig.cpu.IM = 2

	w := serial.NewWriter(StateSize)
	rig.cpu.Save(w)
	if w.Len() != StateSize {
		t.Fatalf("Save wrote %d bytes, want StateSize=%d", w.Len(), StateSize)
	}

	rig2 := newCPUZ80TestRig()
	rig2.cpu.Load(serial.NewReader(w.Finish()))

	if rig2.cpu.B != 0x11 || rig2.cpu.SP != 0xFFFE || rig2.cpu.IM != 2 {
		t.Fatalf("Load mismatch: B=%#x SP=%#x IM=%d", rig2.cpu.B, rig2.cpu.SP, rig2.cpu.IM)
	}
}
