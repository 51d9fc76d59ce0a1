// Package joypad implements the byte store behind the 0xFF00 register:
// the two select lines chosen by bits 4/5 gate which half of the held
// button mask is visible on bits 0-3, a held line reading back as 0.
// Electrical matrix-scanning is out of scope (spec.md's joypad is an
// external collaborator); button state arrives pre-decoded via
// SetButtons rather than being derived from a physical input source.
package joypad

import "github.com/halfcarry/gbcore/pkg/bits"

// Button identifies one of the eight physical buttons as its bit in the
// held-button mask.
type Button = uint8

const (
	A      Button = 0x01
	B      Button = 0x02
	Select Button = 0x04
	Start  Button = 0x08
	Right  Button = 0x10
	Left   Button = 0x20
	Up     Button = 0x40
	Down   Button = 0x80
)

// Joypad is the 0xFF00 register plus the held-button mask it reads back
// through.
type Joypad struct {
	reg  uint8
	held Button
}

// New returns a Joypad with both select lines released (0xFF00 reads as
// all buttons unpressed) and no buttons held.
func New() *Joypad {
	return &Joypad{reg: 0x3F}
}

// Read returns the register value visible to the CPU: bits 0-3 report
// the held state of whichever button group a clear select line (bit 4 or
// 5) currently exposes, inverted (0 = pressed). With both lines set, no
// group is selected and the low nibble reads as all-ones.
func (j *Joypad) Read() uint8 {
	switch {
	case j.reg&0x10 == 0: // direction line selected
		return j.reg &^ (j.held >> 4)
	case j.reg&0x20 == 0: // action line selected
		return j.reg &^ (j.held & 0x0F)
	default:
		return j.reg | 0x0F
	}
}

// Write stores the select-line bits (4 and 5); the held-button bits are
// read-only from the CPU's side and can only change via SetButtons.
func (j *Joypad) Write(v uint8) {
	j.reg = j.reg&0xCF | v&0x30
}

// ButtonEdges batches the buttons that became pressed or released since
// the last SetButtons call.
type ButtonEdges struct {
	Pressed, Released []Button
}

// SetButtons applies a batch of button transitions and reports whether a
// newly-pressed button should raise the joypad interrupt: it fires only
// on the release-to-press edge, and only for a button whose group's
// select line is currently active.
func (j *Joypad) SetButtons(edges ButtonEdges) bool {
	interrupt := false
	for _, btn := range edges.Pressed {
		if j.press(btn) {
			interrupt = true
		}
	}
	for _, btn := range edges.Released {
		j.held &^= btn
	}
	return interrupt
}

func (j *Joypad) press(btn Button) bool {
	wasHeld := j.held&btn != 0
	j.held |= btn

	listening := false
	if btn <= Start && !bits.Test(j.reg, 5) {
		listening = true
	} else if btn > Start && !bits.Test(j.reg, 4) {
		listening = true
	}

	return !wasHeld && listening
}
