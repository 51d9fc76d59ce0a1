// Package vram implements Game Boy video RAM: one 8 KiB bank on DMG, or
// two 8 KiB banks on CGB selected via the 0xFF4F register.
package vram

const bankSize = 0x2000

// VRAM is the video RAM store addressed at 0x8000-0x9FFF.
type VRAM struct {
	banks      [2][bankSize]byte
	activeBank uint8 // 0 or 1; always 0 on DMG
	cgb        bool
}

// New returns a VRAM store with bank 0 active.
func New(cgb bool) *VRAM {
	return &VRAM{cgb: cgb}
}

// Read returns the byte at addr (0x8000..=0x9FFF) in the active bank.
func (vr *VRAM) Read(addr uint16) uint8 {
	return vr.banks[vr.activeBank][addr-0x8000]
}

// Write stores b at addr in the active bank.
func (vr *VRAM) Write(addr uint16, b uint8) {
	vr.banks[vr.activeBank][addr-0x8000] = b
}

// Bank returns the raw 8 KiB contents of bank index i (0 or 1), for
// components (the PPU tile fetcher) that need direct access rather than
// windowed reads.
func (vr *VRAM) Bank(i uint8) *[bankSize]byte {
	return &vr.banks[i&1]
}

// SetBank selects the active bank on CGB; ignored on DMG.
func (vr *VRAM) SetBank(bank uint8) {
	if !vr.cgb {
		return
	}
	vr.activeBank = bank & 1
}

// ActiveBank returns the currently selected bank index.
func (vr *VRAM) ActiveBank() uint8 { return vr.activeBank }

// BankRegister returns the value read back from 0xFF4F: the active bank
// index with all unused upper bits set.
func (vr *VRAM) BankRegister() uint8 {
	return vr.activeBank | 0xFE
}
