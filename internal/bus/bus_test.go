package bus

import (
	"testing"

	"github.com/halfcarry/gbcore/internal/boot"
	"github.com/halfcarry/gbcore/internal/cartridge"
)

// fakeOAM is a minimal VideoBus stub for tests that don't exercise sprite
// data directly.
type fakeOAM struct {
	data [0xA0]byte
}

func (o *fakeOAM) ReadOAM(addr uint16) uint8  { return o.data[addr-0xFE00] }
func (o *fakeOAM) WriteOAM(addr uint16, v uint8) { o.data[addr-0xFE00] = v }

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cart := cartridge.NewBlank()
	return New(cart, nil, &fakeOAM{})
}

func TestReadWriteWRAMAndEcho(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	if got := b.Read(0xC010); got != 0x42 {
		t.Errorf("Read(0xC010) = 0x%02X, want 0x42", got)
	}
	if got := b.Read(0xE010); got != 0x42 {
		t.Errorf("Read(0xE010) = 0x%02X, want 0x42 (echo of work RAM)", got)
	}
}

func TestReadWriteHRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF90, 0x99)
	if got := b.Read(0xFF90); got != 0x99 {
		t.Errorf("Read(0xFF90) = 0x%02X, want 0x99", got)
	}
}

func TestWrite16DecomposesLittleEndian(t *testing.T) {
	b := newTestBus(t)
	b.Write16(0xC000, 0xBEEF)
	if got := b.Read(0xC000); got != 0xEF {
		t.Errorf("Read(0xC000) = 0x%02X, want 0xEF (low byte)", got)
	}
	if got := b.Read(0xC001); got != 0xBE {
		t.Errorf("Read(0xC001) = 0x%02X, want 0xBE (high byte)", got)
	}
	if got := b.Read16(0xC000); got != 0xBEEF {
		t.Errorf("Read16(0xC000) = 0x%04X, want 0xBEEF", got)
	}
}

func TestOAMDelegation(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFE10, 0x77)
	if got := b.Read(0xFE10); got != 0x77 {
		t.Errorf("Read(0xFE10) = 0x%02X, want 0x77", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFEA0, 0x11) // ignored
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Errorf("Read(0xFEA0) = 0x%02X, want 0xFF (unusable region)", got)
	}
}

func TestInterruptEnableRegister(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Errorf("Read(0xFFFF) = 0x%02X, want 0x1F", got)
	}
}

func TestStepRaisesTimerInterrupt(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF06, 0xFE) // TMA
	b.Write(0xFF07, 0x05) // enabled, rate index 1 -> 16 cycles/tick
	b.Write(0xFF05, 0xFF) // TIMA

	pending := b.Step(16, 238)
	if !pending[Timer] {
		t.Fatal("Step did not report a Timer interrupt on TIMA overflow")
	}
	if got := b.Int.Read(0xFF0F); got&0x04 == 0 {
		t.Error("IF register's Timer bit (bit 2) not set after a timer overflow")
	}
}

func TestSerialTransferRequestsInterrupt(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF02, 0x81)
	if got := b.Int.Read(0xFF0F); got&0x08 == 0 {
		t.Error("IF register's Serial bit (bit 3) not set after a 0x81 write to SC")
	}
}

func TestBootROMOverlayThenPermanentUnmap(t *testing.T) {
	bootBytes := make([]byte, 256)
	bootBytes[0] = 0xAB
	bootROM, err := boot.Load(bootBytes)
	if err != nil {
		t.Fatalf("boot.Load: %v", err)
	}

	cart := cartridge.NewBlank()
	b := New(cart, bootROM, &fakeOAM{})

	if got := b.Read(0x0000); got != 0xAB {
		t.Errorf("Read(0x0000) with boot overlay active = 0x%02X, want 0xAB", got)
	}

	b.Write(0xFF50, 0x01) // disable boot rom, permanently
	if got := b.Read(0x0000); got == 0xAB {
		t.Error("Read(0x0000) after disabling the boot rom still returns the overlay byte")
	}
}

// memSink is a minimal in-memory cartridge.Sink for the battery-backed
// RTC test below.
type memSink struct{ buf []byte }

func (s *memSink) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, s.buf[off:]), nil
}
func (s *memSink) WriteAt(p []byte, off int64) (int, error) {
	if end := int(off) + len(p); end > len(s.buf) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	return copy(s.buf[off:], p), nil
}
func (s *memSink) Truncate(size int64) error {
	s.buf = make([]byte, size)
	return nil
}

// headerChecksum replicates the cartridge header's checksum algorithm
// (sum -= b+1 over bytes 0x34..0x4C) for building a test ROM image.
func headerChecksum(hdr [0x50]byte) uint8 {
	var sum uint8
	for _, b := range hdr[0x34:0x4D] {
		sum = sum - b - 1
	}
	return sum
}

func buildMBC3TimerROM() []byte {
	rom := make([]byte, 2*16*1024) // 32 KiB, 2 ROM banks
	var hdr [0x50]byte
	copy(hdr[0x34:], "RTC")
	hdr[0x47] = 0x0F // MBC3+TIMER+BATTERY
	hdr[0x48] = 0x00 // 32 KiB ROM
	hdr[0x49] = 0x00 // no RAM
	hdr[0x4D] = headerChecksum(hdr)
	copy(rom[0x100:0x150], hdr[:])
	return rom
}

func TestStepDrivesCartridgeRTCForward(t *testing.T) {
	rom := buildMBC3TimerROM()
	sink := &memSink{}
	cart, err := cartridge.Load(rom, sink, 0)
	if err != nil {
		t.Fatalf("cartridge.Load: %v", err)
	}

	b := New(cart, nil, &fakeOAM{})

	// About 4,201,681 steps of 1 cycle at 238ns/cycle make 1 real second;
	// 4,210,000 steps (~1.002s) cross that boundary.
	for i := 0; i < 4_210_000; i++ {
		b.Step(1, 238)
	}

	rtc := cart.RTC()
	if rtc == nil {
		t.Fatal("Cart.RTC() = nil, want a live RTC for an MBC3+TIMER cartridge")
	}
	rtc.Select(cartridge.RTCSeconds)
	rtc.Latch(0)
	rtc.Latch(1)
	if got := rtc.Read(); got == 0 {
		t.Error("RTC seconds register = 0 after >1s of elapsed bus steps, want nonzero")
	}
}

func TestVRAMBankSelectCGBOnly(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF4F, 0x01) // DMG cartridge: bank select has no effect
	if got := b.Read(0xFF4F); got != 0xFF {
		t.Errorf("Read(0xFF4F) on a DMG-mode bus = 0x%02X, want 0xFF", got)
	}
}
