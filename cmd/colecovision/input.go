//go:build !headless

// input.go - keyboard-as-controller mapping for the ebiten frontend.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/colecovision-core/cvcore/internal/bus"
)

var keypadKeys = map[ebiten.Key]byte{
	ebiten.Key0: bus.Keypad0,
	ebiten.Key1: bus.Keypad1,
	ebiten.Key2: bus.Keypad2,
	ebiten.Key3: bus.Keypad3,
	ebiten.Key4: bus.Keypad4,
	ebiten.Key5: bus.Keypad5,
	ebiten.Key6: bus.Keypad6,
	ebiten.Key7: bus.Keypad7,
	ebiten.Key8: bus.Keypad8,
	ebiten.Key9: bus.Keypad9,
	ebiten.KeyMinus: bus.KeypadStar,
	ebiten.KeyEqual: bus.KeypadHash,
}

// keyboardJoystick samples the current keyboard state and packs it into the
// same 16-bit shape the controller-poll callback must return (minus the
// 0x8080 baseline, which the caller ORs in).
func keyboardJoystick() uint16 {
	var v uint16
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v |= bus.JoyNorth
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v |= bus.JoySouth
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v |= bus.JoyWest
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v |= bus.JoyEast
	}
	if ebiten.IsKeyPressed(ebiten.KeyZ) {
		v |= bus.LeftFire
	}
	if ebiten.IsKeyPressed(ebiten.KeyX) {
		v |= bus.RightFire
	}
	for key, code := range keypadKeys {
		if ebiten.IsKeyPressed(key) {
			v |= uint16(code)
		}
	}
	return v
}
