// savestate.go - save state persistence to disk and the system clipboard.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/colecovision-core/cvcore/internal/system"
)

func loadStateFile(sys *system.System, path string) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	return sys.LoadState(data)
}

func saveStateFile(sys *system.System, path string) error {
	if err := os.WriteFile(path, sys.SaveState(), 0o644); err != nil {
		return fmt.Errorf("colecovision: writing save state: %w", err)
	}
	return nil
}

// encodeState and decodeState move a save state through the clipboard as
// base64 text, since golang.design/x/clipboard only carries text and image
// formats, not raw binary.
func encodeState(sys *system.System) []byte {
	return []byte(base64.StdEncoding.EncodeToString(sys.SaveState()))
}

func decodeState(sys *system.System, clip []byte) error {
	data, err := base64.StdEncoding.DecodeString(string(clip))
	if err != nil {
		return fmt.Errorf("colecovision: clipboard does not hold a save state: %w", err)
	}
	return sys.LoadState(data)
}
