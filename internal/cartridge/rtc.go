package cartridge

import "fmt"

// RTC registers, as selected by the 0x4000-0x5FFF write on an MBC3 cart
// that has a timer.
const (
	RTCSeconds   uint8 = 0x08
	RTCMinutes   uint8 = 0x09
	RTCHours     uint8 = 0x0A
	RTCDayLow    uint8 = 0x0B
	RTCDayHigh   uint8 = 0x0C
)

// rtcSidecarSize is the on-disk layout: 5 live registers, 5 latched
// registers, and the last-seen latch-write byte, one byte each.
const rtcSidecarSize = 11

// RTC models the MBC3 real-time clock: five live registers (seconds,
// minutes, hours, day-low, day-high), a latched shadow copy software reads
// through the 0xA000-0xBFFF window, and a last-latch-write value used to
// detect the 0->1 transition that performs the latch.
type RTC struct {
	seconds, minutes, hours, dayLow, dayHigh uint8
	latchedS, latchedM, latchedH             uint8
	latchedDL, latchedDH                     uint8
	lastLatchWrite                           uint8
	selected                                 uint8
}

// NewRTC returns a zeroed RTC with register 0x08 (seconds) selected.
func NewRTC() *RTC {
	return &RTC{selected: RTCSeconds}
}

// Select chooses which register the 0xA000-0xBFFF window exposes.
// Unrecognized codes are ignored; a subsequent Read/Write behaves as
// whatever was last validly selected.
func (r *RTC) Select(reg uint8) {
	switch reg {
	case RTCSeconds, RTCMinutes, RTCHours, RTCDayLow, RTCDayHigh:
		r.selected = reg
	}
}

// Latch copies the live registers into the shadow copy on a 0->1 transition
// of v relative to the previous call's value. Reads always return the
// shadow, so software sees a torn-free snapshot of the clock.
func (r *RTC) Latch(v uint8) {
	if r.lastLatchWrite == 0x00 && v == 0x01 {
		r.latchedS = r.seconds
		r.latchedM = r.minutes
		r.latchedH = r.hours
		r.latchedDL = r.dayLow
		r.latchedDH = r.dayHigh
	}
	r.lastLatchWrite = v
}

// Read returns the latched value of the currently selected register.
func (r *RTC) Read() uint8 {
	switch r.selected {
	case RTCSeconds:
		return r.latchedS
	case RTCMinutes:
		return r.latchedM
	case RTCHours:
		return r.latchedH
	case RTCDayLow:
		return r.latchedDL
	case RTCDayHigh:
		return r.latchedDH
	default:
		return 0xFF
	}
}

// Write stores v into the currently selected live register, masked to the
// bits that register implements. DayHigh bit 6 is halt; bit 7 is the
// day-counter overflow flag.
func (r *RTC) Write(v uint8) {
	switch r.selected {
	case RTCSeconds:
		r.seconds = v & 0x3F
	case RTCMinutes:
		r.minutes = v & 0x3F
	case RTCHours:
		r.hours = v & 0x1F
	case RTCDayLow:
		r.dayLow = v
	case RTCDayHigh:
		r.dayHigh = v & 0xC1
	}
}

// Halted reports whether the clock's halt bit (DH bit 6) is set.
func (r *RTC) Halted() bool {
	return r.dayHigh&0x40 != 0
}

// Tick advances the live clock by the given number of elapsed seconds,
// rolling seconds into minutes, minutes into hours, hours into the 9-bit
// day counter, and setting the day-counter-overflow flag (DH bit 7) when
// the day counter wraps past 511. A halted clock does not advance.
func (r *RTC) Tick(elapsedSeconds uint64) {
	if r.Halted() || elapsedSeconds == 0 {
		return
	}
	total := uint64(r.seconds) + uint64(r.minutes)*60 + uint64(r.hours)*3600
	total += elapsedSeconds

	days := uint64(r.dayLow) | uint64(r.dayHigh&0x01)<<8
	days += total / 86400
	total %= 86400

	r.hours = uint8(total / 3600)
	total %= 3600
	r.minutes = uint8(total / 60)
	r.seconds = uint8(total % 60)

	if days > 511 {
		days %= 512
		r.dayHigh |= 0x80
	}
	r.dayLow = uint8(days & 0xFF)
	r.dayHigh = (r.dayHigh &^ 0x01) | uint8((days>>8)&0x01)
}

// Marshal serializes the RTC state to the sidecar byte layout: live
// registers, latched registers, then the last latch-write byte.
func (r *RTC) Marshal() []byte {
	buf := make([]byte, rtcSidecarSize)
	buf[0] = r.seconds
	buf[1] = r.minutes
	buf[2] = r.hours
	buf[3] = r.dayLow
	buf[4] = r.dayHigh
	buf[5] = r.latchedS
	buf[6] = r.latchedM
	buf[7] = r.latchedH
	buf[8] = r.latchedDL
	buf[9] = r.latchedDH
	buf[10] = r.lastLatchWrite
	return buf
}

// Unmarshal restores RTC state previously produced by Marshal.
func (r *RTC) Unmarshal(buf []byte) error {
	if len(buf) != rtcSidecarSize {
		return fmt.Errorf("%w: rtc sidecar must be %d bytes, got %d", ErrInvalidValue, rtcSidecarSize, len(buf))
	}
	r.seconds = buf[0]
	r.minutes = buf[1]
	r.hours = buf[2]
	r.dayLow = buf[3]
	r.dayHigh = buf[4]
	r.latchedS = buf[5]
	r.latchedM = buf[6]
	r.latchedH = buf[7]
	r.latchedDL = buf[8]
	r.latchedDH = buf[9]
	r.lastLatchWrite = buf[10]
	return nil
}
