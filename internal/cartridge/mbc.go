package cartridge

// MemoryBankController is the common interface every cartridge family
// implements. It owns the ROM store and, where applicable, the RAM store
// and RTC, and decodes writes to 0x0000-0x7FFF as bank/enable/mode control
// rather than as stores.
type MemoryBankController interface {
	// Read returns the byte visible at addr, which must be in
	// 0x0000..=0x7FFF or 0xA000..=0xBFFF.
	Read(addr uint16) uint8
	// Write decodes or stores v at addr, which must be in the same two
	// ranges as Read.
	Write(addr uint16, v uint8) error
	// Header returns the parsed cartridge header.
	Header() *Header
	// RAM returns the attached cartridge RAM store, or nil if this
	// cartridge has none.
	RAM() *RAM
	// RTC returns the attached real-time clock, or nil if this cartridge
	// has none.
	RTC() *RTC
}

// New constructs the MemoryBankController appropriate for the cartridge
// type recorded in the header, wiring a RAM store and/or RTC when the
// type calls for them. rom is the full ROM image (header already parsed
// from it); ramSink, if non-nil, is attached as the battery write-through
// target when the type has a battery and ramSinkLen is the sink's current
// length in bytes.
func New(rom []byte, header *Header, ramSink Sink, ramSinkLen int64) (MemoryBankController, error) {
	romStore := NewROM(rom)

	var ramStore *RAM
	if header.RAMSize > 0 {
		ramStore = NewRAM(header.RAMSize)
		if header.CartridgeType.HasBattery() && ramSink != nil {
			if err := ramStore.AttachSink(ramSink, ramSinkLen); err != nil {
				return nil, err
			}
		}
	} else if header.CartridgeType.HasBattery() && ramSink == nil {
		return nil, ErrInvalidState
	}

	var rtc *RTC
	if header.CartridgeType.HasRTC() {
		rtc = NewRTC()
	}

	switch header.CartridgeType.Family() {
	case FamilyNone:
		return newROMOnly(romStore, ramStore, header), nil
	case FamilyMBC1:
		return newMBC1(romStore, ramStore, header), nil
	case FamilyMBC2:
		return newMBC2(romStore, ramStore, header), nil
	case FamilyMBC3:
		return newMBC3(romStore, ramStore, rtc, header), nil
	case FamilyMBC5:
		return newMBC5(romStore, ramStore, header), nil
	default:
		// Recognized but unsupported type codes (MMM01, HuC1/3, Pocket
		// Camera, Bandai TAMA5) fall back to plain ROM-only behavior: the
		// bank-0/bank-1 windows still work, and any RAM the header declares
		// is read and written with no enable gate. These cartridges'
		// special banking behavior is a non-goal.
		return newROMOnly(romStore, ramStore, header), nil
	}
}
