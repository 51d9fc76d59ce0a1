// Package bus implements the Game Boy memory bus: the single address
// decoder that dispatches 16-bit CPU reads/writes to ROM/MBC, VRAM, work
// RAM, OAM, the I/O register file, high RAM, and the interrupt-enable
// register, and drives the timer and PPU status ticker once per step.
package bus

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/halfcarry/gbcore/internal/boot"
	"github.com/halfcarry/gbcore/internal/cartridge"
	"github.com/halfcarry/gbcore/internal/interrupts"
	"github.com/halfcarry/gbcore/internal/joypad"
	"github.com/halfcarry/gbcore/internal/ppu"
	"github.com/halfcarry/gbcore/internal/timer"
	"github.com/halfcarry/gbcore/internal/vram"
	"github.com/halfcarry/gbcore/internal/wram"
)

// VideoBus is the subset of PPU functionality the bus delegates OAM
// access to. The full pixel pipeline is out of scope; a minimal
// implementation (or a stub) satisfies this during testing.
type VideoBus interface {
	ReadOAM(addr uint16) uint8
	WriteOAM(addr uint16, v uint8)
}

// Interrupt identifies one of the five interrupt sources the bus tracks.
type Interrupt uint8

const (
	VBlank Interrupt = iota
	LcdStat
	Timer
	Serial
	Joypad
)

// Bus is the sole mutator of every Game Boy memory sub-component.
type Bus struct {
	Cart *cartridge.Cartridge

	wram *wram.WRAM
	vram *vram.VRAM
	hram [0x7F]byte

	Timer  *timer.Timer
	PPU    *ppu.Status
	Joypad *joypad.Joypad
	Int    *interrupts.Controller

	OAM VideoBus

	bootROM      *boot.ROM
	bootDisabled bool

	cgb bool

	serialData  uint8
	serialCtrl  uint8
	key1        uint8
	speedArmed  bool
	soundStub   [48]byte // 0xFF10-0xFF3F, including wave RAM, stubbed
	cycle       uint64
	cycleTimeNS uint32
	rtcNanos    uint64 // accumulated real time not yet folded into the RTC

	Log *logrus.Logger
}

// New constructs a Bus for the given cartridge. bootROM may be nil (no
// boot overlay; execution starts directly at cartridge entry).
func New(cart *cartridge.Cartridge, bootROM *boot.ROM, oam VideoBus) *Bus {
	cgb := cart.Header().CGB()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	log.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	}

	b := &Bus{
		Cart:        cart,
		wram:        wram.New(cgb),
		vram:        vram.New(cgb),
		Timer:       timer.New(),
		PPU:         ppu.New(),
		Joypad:      joypad.New(),
		Int:         interrupts.NewService(),
		OAM:         oam,
		bootROM:     bootROM,
		cgb:         cgb,
		cycleTimeNS: 238,
		Log:         log,
	}
	if bootROM == nil {
		b.bootDisabled = true
	}
	return b
}

// Read returns the byte at addr, dispatching by address range per the
// precedence table: boot ROM overlay / cartridge, VRAM, cartridge RAM/RTC,
// work RAM (+ echo), OAM, unusable, I/O file, high RAM, interrupt enable.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		if !b.bootDisabled && b.inBootROMWindow(addr) {
			return b.bootROM.Read(b.bootROMOffset(addr))
		}
		return b.Cart.Read(addr)
	case addr <= 0x9FFF:
		return b.vram.Read(addr)
	case addr <= 0xBFFF:
		return b.Cart.Read(addr)
	case addr <= 0xFDFF:
		return b.wram.Read(addr)
	case addr <= 0xFE9F:
		if b.OAM != nil {
			return b.OAM.ReadOAM(addr)
		}
		return 0xFF
	case addr <= 0xFEFF:
		return 0xFF
	case addr == 0xFFFF:
		return b.Int.Read(addr)
	case addr >= 0xFF80:
		return b.hram[addr-0xFF80]
	default:
		return b.readIO(addr)
	}
}

// Write stores v at addr, applying the same dispatch as Read.
func (b *Bus) Write(addr uint16, v uint8) {
	switch {
	case addr <= 0x7FFF:
		if err := b.Cart.Write(addr, v); err != nil {
			b.Log.WithError(err).Debug("bus: cartridge write failed")
		}
	case addr <= 0x9FFF:
		b.vram.Write(addr, v)
	case addr <= 0xBFFF:
		if err := b.Cart.Write(addr, v); err != nil {
			b.Log.WithError(err).Debug("bus: cartridge write failed")
		}
	case addr <= 0xFDFF:
		b.wram.Write(addr, v)
	case addr <= 0xFE9F:
		if b.OAM != nil {
			b.OAM.WriteOAM(addr, v)
		}
	case addr <= 0xFEFF:
		// Unusable region; writes are ignored.
	case addr == 0xFFFF:
		b.Int.Write(addr, v)
	case addr >= 0xFF80:
		b.hram[addr-0xFF80] = v
	default:
		b.writeIO(addr, v)
	}
}

// Write16 decomposes a 16-bit little-endian write into two byte writes, to
// addr and addr+1.
func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, uint8(v&0xFF))
	b.Write(addr+1, uint8(v>>8))
}

// Read16 composes a 16-bit little-endian read from addr and addr+1.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (b *Bus) inBootROMWindow(addr uint16) bool {
	if addr < 0x100 {
		return true
	}
	return b.cgb && addr >= 0x200 && addr < 0x900
}

func (b *Bus) bootROMOffset(addr uint16) uint16 {
	if addr < 0x100 {
		return addr
	}
	return addr
}

// Step advances the timer and PPU status ticker by the elapsed cycles and
// returns the set of interrupts that fired this step. The map itself is
// unordered; the delivery order (VBlank, LcdStat, Timer, Serial, Joypad)
// is the numeric order of the Interrupt constants.
func (b *Bus) Step(cyclesTaken uint32, cycleTimeNS uint32) map[Interrupt]bool {
	b.cycle += uint64(cyclesTaken)
	b.cycleTimeNS = cycleTimeNS

	pending := make(map[Interrupt]bool)

	ppuResult := b.PPU.Step(b.cycle, cycleTimeNS)
	if ppuResult.VBlank {
		pending[VBlank] = true
		b.Int.Request(interrupts.VBlankFlag)
	}
	if ppuResult.Stat {
		pending[LcdStat] = true
		b.Int.Request(interrupts.LcdStatFlag)
	}

	if b.Timer.Step(b.cycle) {
		pending[Timer] = true
		b.Int.Request(interrupts.TimerFlag)
	}

	b.tickRTC(cyclesTaken, cycleTimeNS)

	return pending
}

// tickRTC folds the wall-clock time elapsed this step into the
// cartridge's RTC, if it has one. The RTC advances in whole seconds, so
// sub-second remainders carry over to the next step.
func (b *Bus) tickRTC(cyclesTaken uint32, cycleTimeNS uint32) {
	rtc := b.Cart.RTC()
	if rtc == nil {
		return
	}
	b.rtcNanos += uint64(cyclesTaken) * uint64(cycleTimeNS)
	elapsedSeconds := b.rtcNanos / 1_000_000_000
	if elapsedSeconds == 0 {
		return
	}
	b.rtcNanos -= elapsedSeconds * 1_000_000_000
	rtc.Tick(elapsedSeconds)
}

// TriggerInterrupt directly requests the given interrupt kind, for
// components outside the bus's own Step (e.g. the joypad on a button
// press, serial on transfer completion).
func (b *Bus) TriggerInterrupt(kind Interrupt) {
	switch kind {
	case VBlank:
		b.Int.Request(interrupts.VBlankFlag)
	case LcdStat:
		b.Int.Request(interrupts.LcdStatFlag)
	case Timer:
		b.Int.Request(interrupts.TimerFlag)
	case Serial:
		b.Int.Request(interrupts.SerialFlag)
	case Joypad:
		b.Int.Request(interrupts.JoypadFlag)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == 0xFF00:
		return b.Joypad.Read()
	case addr == 0xFF01:
		return b.serialData
	case addr == 0xFF02:
		return b.serialCtrl | 0x7E
	case addr == timer.DividerRegister, addr == timer.CounterRegister,
		addr == timer.ModuloRegister, addr == timer.ControlRegister:
		return b.Timer.Read(addr)
	case addr == interrupts.FlagRegister:
		return b.Int.Read(addr)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		return b.soundStub[addr-0xFF10]
	case addr == ppu.LYRegister, addr == ppu.LYCRegister, addr == ppu.STATRegister:
		return b.PPU.Read(addr)
	case addr == 0xFF4D:
		if b.cgb {
			return b.key1 | 0x7E
		}
		return 0xFF
	case addr == 0xFF4F:
		if b.cgb {
			return b.vram.BankRegister()
		}
		return 0xFF
	case addr == 0xFF50:
		if b.bootDisabled {
			return 0xFF
		}
		return 0x00
	case addr == 0xFF70:
		if b.cgb {
			return b.wram.ActiveBank() | 0xF8
		}
		return 0xFF
	case addr >= 0xFF51 && addr <= 0xFF55:
		// HDMA registers; VRAM DMA is out of scope, stubbed open-bus.
		return 0xFF
	case addr >= 0xFF68 && addr <= 0xFF6B:
		// CGB palette RAM is out of scope, stubbed open-bus.
		return 0xFF
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == 0xFF00:
		b.Joypad.Write(v)
	case addr == 0xFF01:
		b.serialData = v
	case addr == 0xFF02:
		b.serialCtrl = v
		if v == 0x81 {
			b.TriggerInterrupt(Serial)
		}
	case addr == timer.DividerRegister:
		b.Timer.Write(addr, v, b.cycle)
	case addr == timer.CounterRegister, addr == timer.ModuloRegister, addr == timer.ControlRegister:
		b.Timer.Write(addr, v, b.cycle)
	case addr == interrupts.FlagRegister:
		b.Int.Write(addr, v)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.soundStub[addr-0xFF10] = v
	case addr == ppu.LYRegister, addr == ppu.LYCRegister, addr == ppu.STATRegister:
		b.PPU.Write(addr, v)
	case addr == 0xFF4D:
		if b.cgb {
			b.speedArmed = v&0x01 != 0
			b.key1 = b.key1&0xFE | v&0x01
		}
	case addr == 0xFF4F:
		b.vram.SetBank(v)
	case addr == 0xFF50:
		if v != 0 {
			b.bootDisabled = true
		}
	case addr == 0xFF70:
		if b.cgb {
			b.wram.SetBank(v)
		}
	case addr >= 0xFF51 && addr <= 0xFF55:
		// HDMA stubbed: accept the write, perform no transfer.
	case addr >= 0xFF68 && addr <= 0xFF6B:
		// CGB palette RAM stubbed.
	default:
		b.Log.WithField("addr", fmt.Sprintf("0x%04X", addr)).Debug("bus: unimplemented io write")
	}
}

// ApplySpeedSwitch toggles the CGB double-speed flag if armed, called by
// the CPU when executing STOP. Returns the new speed flag (bit 7 of KEY1).
func (b *Bus) ApplySpeedSwitch() uint8 {
	if !b.cgb || !b.speedArmed {
		return b.key1
	}
	b.speedArmed = false
	b.key1 ^= 0x80
	b.key1 &^= 0x01
	return b.key1
}

// Cycle returns the bus's absolute cycle counter.
func (b *Bus) Cycle() uint64 { return b.cycle }
