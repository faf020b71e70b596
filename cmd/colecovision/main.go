// main.go - entry point for the colecovision reference frontend: wires a
// System to a host video/audio/input backend and runs it.
//
// Licensed under the GNU General Public License v3.0 or later.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/colecovision-core/cvcore/internal/system"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	bios, err := readFile(cfg.BIOSPath)
	if err != nil {
		log.Fatal(err)
	}
	rom, err := readFile(cfg.ROMPath)
	if err != nil {
		log.Fatal(err)
	}

	sys := system.New(cfg.Region)
	if err := sys.LoadBIOS(bios); err != nil {
		log.Fatal(err)
	}
	if err := sys.LoadROM(rom); err != nil {
		log.Fatal(err)
	}
	if err := sys.SetSampleRate(cfg.SampleQ); err != nil {
		log.Fatal(err)
	}

	if cfg.StatePath != "" {
		if err := loadStateFile(sys, cfg.StatePath); err != nil {
			log.Fatal(err)
		}
	}

	fe, err := newFrontend(sys, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := fe.Run(); err != nil {
		log.Fatal(err)
	}
}
