package bus

import "errors"

const (
	BIOSSize  = 0x2000
	megaMagic1 = 0xAA55
	megaMagic2 = 0x55AA
)

var (
	ErrBadBIOSSize = errors.New("bus: BIOS image must be exactly 8192 bytes")
	ErrBadROMMagic = errors.New("bus: ROM header magic is not 0xAA55/0x55AA")
)

// LoadBIOS installs an 8192-byte BIOS image. It is a format error,
// signaled by a non-nil return, for the image to be any other size.
func (b *Bus) LoadBIOS(data []byte) error {
	if len(data) != BIOSSize {
		return ErrBadBIOSSize
	}
	copy(b.bios[:], data)
	return nil
}

// LoadROM installs a cartridge image and classifies it as a Mega Cart or
// a plain cart per §4.9, initializing the 8 KB page table accordingly.
func (b *Bus) LoadROM(data []byte) error {
	size := len(data)

	if size > 32*1024 {
		tailOff := size - 0x4000
		magic := uint16(data[tailOff])<<8 | uint16(data[tailOff+1])
		if magic == megaMagic1 || magic == megaMagic2 {
			b.rom = data
			b.megacart = true
			b.romPages[2] = 0
			b.romPages[3] = 0x2000
			b.romPages[0] = uint32(size - 0x4000)
			b.romPages[1] = uint32(size - 0x2000)
			return nil
		}
	}

	magic := uint16(data[0])<<8 | uint16(data[1])
	if magic != megaMagic1 && magic != megaMagic2 {
		return ErrBadROMMagic
	}
	b.rom = data
	b.megacart = false
	pages := size / 0x2000
	for i := 0; i < 4; i++ {
		if i < pages {
			b.romPages[i] = uint32(i * 0x2000)
		} else {
			b.romPages[i] = uint32((i % max(pages, 1)) * 0x2000)
		}
	}
	return nil
}
