//go:build headless

// frontend_headless.go - a terminal-driven stand-in for the GUI frontend,
// for CI and remote sessions with no display or audio device. It still
// runs real frames and accepts input; it just never touches a window.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/colecovision-core/cvcore/internal/bus"
	"github.com/colecovision-core/cvcore/internal/system"
)

type headlessFrontend struct {
	sys *system.System
	cfg Config

	mu    sync.Mutex
	input uint16
}

func newFrontend(sys *system.System, cfg Config) (frontend, error) {
	f := &headlessFrontend{sys: sys, cfg: cfg}
	sys.SetInput(func(port int) uint16 {
		if port == 1 {
			return bus.KeypadBaseline
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		return bus.KeypadBaseline | f.input
	})
	return f, nil
}

func (f *headlessFrontend) Run() error {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, old)
			_ = syscall.SetNonblock(fd, true)
			go f.readStdin(fd)
		}
	}

	frame := 0
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for range ticker.C {
		f.sys.FrameExec()
		f.mu.Lock()
		f.input = 0 // one-frame pulse per keystroke; no key-up event over a raw tty
		f.mu.Unlock()
		frame++
		if frame%300 == 0 {
			fmt.Fprintf(os.Stderr, "frame %d\n", frame)
		}
	}
	return nil
}

// readStdin translates WASD + space into the same joystick bits the
// ebiten build maps from the arrow keys, so both binaries share a
// controller-poll contract driven from the same key semantics.
func (f *headlessFrontend) readStdin(fd int) {
	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(fd, buf)
		if n > 0 {
			f.mu.Lock()
			switch buf[0] {
			case 'w':
				f.input |= bus.JoyNorth
			case 's':
				f.input |= bus.JoySouth
			case 'a':
				f.input |= bus.JoyWest
			case 'd':
				f.input |= bus.JoyEast
			case ' ':
				f.input |= bus.LeftFire
			case 0x03: // Ctrl+C
				f.mu.Unlock()
				os.Exit(0)
			}
			f.mu.Unlock()
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}
