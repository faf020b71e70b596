// frontend.go - the common frontend contract, implemented once for an
// interactive ebiten/oto build and once for a headless terminal build,
// selected by the `headless` build tag.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

// frontend owns the host loop: video/audio/input on a GUI build, or a
// terminal-driven stand-in for CI and remote sessions.
type frontend interface {
	Run() error
}

// newFrontend is implemented per build tag in frontend_ebiten.go and
// frontend_headless.go.
