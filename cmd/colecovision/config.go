// config.go - flag parsing and startup configuration for the colecovision binary.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/colecovision-core/cvcore/internal/mixer"
	"github.com/colecovision-core/cvcore/internal/system"
)

// ErrNoROM is a configuration error: the frontend has nothing to run.
var ErrNoROM = errors.New("colecovision: -rom is required")

// Config holds every flag the frontend needs to bring a System up.
type Config struct {
	ROMPath    string
	BIOSPath   string
	StatePath  string
	Region     system.Region
	SampleQ    mixer.SampleRate
	Scale      int
	Fullscreen bool
}

func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("colecovision", flag.ContinueOnError)
	rom := fs.String("rom", "", "path to a cartridge ROM image (required)")
	bios := fs.String("bios", "bios.rom", "path to the 8KB ColecoVision BIOS image")
	state := fs.String("state", "", "path to a save state to load at startup")
	region := fs.String("region", "ntsc", "television region: ntsc or pal")
	rate := fs.Int("rate", 44100, "host audio sample rate: 44100, 48000, 96000, or 192000")
	scale := fs.Int("scale", 2, "integer window scale factor (1-4)")
	fullscreen := fs.Bool("fullscreen", false, "start in fullscreen")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ROMPath:    *rom,
		BIOSPath:   *bios,
		StatePath:  *state,
		SampleQ:    mixer.SampleRate(*rate),
		Scale:      *scale,
		Fullscreen: *fullscreen,
	}
	if cfg.ROMPath == "" {
		return Config{}, ErrNoROM
	}
	switch *region {
	case "ntsc":
		cfg.Region = system.NTSC
	case "pal":
		cfg.Region = system.PAL
	default:
		return Config{}, fmt.Errorf("colecovision: unknown -region %q (want ntsc or pal)", *region)
	}
	if !cfg.SampleQ.Valid() {
		return Config{}, mixer.ErrBadSampleRate
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	if cfg.Scale > 4 {
		cfg.Scale = 4
	}
	return cfg, nil
}

// quickSavePath is where F5/F9 save and load a state when -state wasn't given.
func (c Config) quickSavePath() string {
	if c.StatePath != "" {
		return c.StatePath
	}
	return "quicksave.sav"
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("colecovision: %w", err)
	}
	return data, nil
}
