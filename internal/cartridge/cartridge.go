// Package cartridge provides cartridge header parsing, ROM and external
// RAM storage, the real-time clock, and the family of memory bank
// controllers (MBC1/2/3/5, plus plain ROM carts) that decode writes to the
// 0x0000-0x7FFF window as banking control signals.
package cartridge

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Cartridge is a loaded ROM image plus its decoded header and memory bank
// controller. It satisfies MemoryBankController by embedding one.
type Cartridge struct {
	MemoryBankController
	header *Header
	raw    []byte
}

// Load parses rom's header and constructs the appropriate memory bank
// controller. ramSink, if non-nil, is the battery-backed save sidecar
// (already opened by the caller) with its current length in ramSinkLen.
func Load(rom []byte, ramSink Sink, ramSinkLen int64) (*Cartridge, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("%w: rom too small to contain a header (%d bytes)", ErrInvalidValue, len(rom))
	}

	header, err := parseHeader(rom[0x100:0x150])
	if err != nil {
		return nil, err
	}

	if header.CartridgeType.HasBattery() && ramSink == nil {
		return nil, fmt.Errorf("%w: %s cartridge requires a battery save sink", ErrInvalidState, header.CartridgeType)
	}

	mbc, err := New(rom, header, ramSink, ramSinkLen)
	if err != nil {
		return nil, err
	}

	return &Cartridge{
		MemoryBankController: mbc,
		header:               header,
		raw:                  rom,
	}, nil
}

// NewBlank returns a cartridge with no backing ROM image: a 32 KiB
// 0xFF-filled ROM-only cart, used when no ROM file is loaded yet.
func NewBlank() *Cartridge {
	rom := make([]byte, 32*1024)
	for i := range rom {
		rom[i] = 0xFF
	}
	header := &Header{CartridgeType: ROM, ROMBanks: 2}
	mbc, _ := New(rom, header, nil, 0)
	return &Cartridge{MemoryBankController: mbc, header: header, raw: rom}
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() *Header { return c.header }

// Title returns the cartridge's declared title.
func (c *Cartridge) Title() string { return c.header.Title }

// Fingerprint returns a stable, non-cryptographic hash of the full ROM
// image, an identity for the cartridge's contents (cmd/gbcart prints it).
// Sidecar paths are not derived from it; romfile.SidecarPath works from
// the ROM's file path. xxhash is chosen over the teacher's MD5 purely for speed; it
// has no adversarial-input exposure here (the "attacker" would just be
// shipping their own ROM file to their own emulator).
func (c *Cartridge) Fingerprint() uint64 {
	return xxhash.Sum64(c.raw)
}

// VerifyHeaderChecksum reports whether the cartridge's stored header
// checksum matches the bytes actually present in the ROM image.
func (c *Cartridge) VerifyHeaderChecksum() bool {
	var raw [0x50]byte
	copy(raw[:], c.raw[0x100:0x150])
	return c.header.VerifyHeaderChecksum(raw)
}
