// Package boot provides the optional boot ROM overlay: a small blob mapped
// at 0x0000-0x00FF (and, for CGB, 0x0200-0x08FF) until software disables it
// by writing to the boot-ROM-disable register.
package boot

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// ROM is a loaded boot ROM image plus its identifying checksum.
type ROM struct {
	raw      []byte
	checksum string
}

// Load wraps a boot ROM image. Valid lengths are 256 bytes (DMG/MGB/SGB)
// or 2304 bytes (CGB); any other length fails with ErrInvalidValue.
func Load(raw []byte) (*ROM, error) {
	if len(raw) != 256 && len(raw) != 2304 {
		return nil, fmt.Errorf("%w: invalid boot rom length: %d", ErrInvalidValue, len(raw))
	}
	sum := md5.Sum(raw)
	return &ROM{raw: raw, checksum: hex.EncodeToString(sum[:])}, nil
}

// Read returns the byte at addr, relative to the boot ROM's own address
// space (the caller has already determined addr falls within the overlay).
func (b *ROM) Read(addr uint16) uint8 {
	if int(addr) >= len(b.raw) {
		return 0xFF
	}
	return b.raw[addr]
}

// Len reports the size of the boot ROM image in bytes.
func (b *ROM) Len() int { return len(b.raw) }

// Checksum returns the MD5 checksum of the boot ROM image.
func (b *ROM) Checksum() string { return b.checksum }

// Model resolves the checksum to a known boot ROM variant, or "unknown"
// if unrecognized. Purely informational; has no effect on emulation.
func (b *ROM) Model() string {
	if model, ok := knownBootROMChecksums[b.checksum]; ok {
		return model
	}
	return "unknown"
}

// knownBootROMChecksums maps well-known public boot ROM MD5 sums (as
// widely catalogued by the emulation community) to a human-readable model
// name. The ROM bytes themselves are never embedded here; callers supply
// their own dump via Load.
var knownBootROMChecksums = map[string]string{
	"a8f84a0ac44da5d3f0ee19f9cea80a8c": "Game Boy (DMG-0)",
	"32fbbd84168d3482956eb3c5051637f5": "Game Boy (DMG-01)",
	"71a378e71ff30b2d8a1f02bf5c7896aa": "Game Boy Pocket (MGB)",
	"d574d4f9c12f305074798f54c091a8b4": "Super Game Boy",
	"e0430bca9925fb9882148fd2dc2418c1": "Super Game Boy 2",
	"7c773f3c0b01cb73bca8e83227287b7f": "Game Boy Color (CGB-0)",
	"dbfce9db9deaa2567f6a84fde55f9680": "Game Boy Color (CGB-A/B/C/D/E)",
	"e6cefb5f7d352fab6681989763917c73": "Game Boy Advance (AGB-001)",
}
