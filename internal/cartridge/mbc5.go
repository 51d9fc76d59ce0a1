package cartridge

// mbc5 implements the MBC5 family: a 9-bit ROM bank select split across
// two write ranges, a 4-bit RAM bank select, and (for rumble variants) a
// motor-control bit borrowed from the top of the RAM-bank register.
type mbc5 struct {
	rom    *ROM
	ram    *RAM
	header *Header

	ramEnabled bool
	rumble     bool
	// RumbleCallback, if set, is invoked on every RAM-bank write of a
	// rumble cartridge, with the motor state taken from bit 3.
	RumbleCallback func(on bool)
}

func newMBC5(rom *ROM, ram *RAM, header *Header) *mbc5 {
	return &mbc5{
		rom:    rom,
		ram:    ram,
		header: header,
		rumble: header.CartridgeType.HasRumble(),
	}
}

func (m *mbc5) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return m.rom.Read(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ram == nil || !m.ramEnabled {
			return 0xFF
		}
		return m.ram.Read(addr)
	default:
		return 0xFF
	}
}

func (m *mbc5) Write(addr uint16, v uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.ramEnabled = v == 0x0A

	case addr <= 0x2FFF:
		cur := uint(m.rom.BankHigh()) &^ 0xFF
		return m.rom.SetBankHigh(cur | uint(v))

	case addr <= 0x3FFF:
		cur := uint(m.rom.BankHigh()) & 0xFF
		return m.rom.SetBankHigh(cur | (uint(v&0x01) << 8))

	case addr <= 0x5FFF:
		bank := v & 0x0F
		if m.rumble {
			if m.RumbleCallback != nil {
				m.RumbleCallback(v&0x08 != 0)
			}
			bank &= 0x07
		}
		if m.ram != nil {
			m.ram.SetBank(bank)
		}

	case addr >= 0xA000 && addr <= 0xBFFF:
		if m.ram == nil || !m.ramEnabled {
			return nil
		}
		return m.ram.Write(addr, v)
	}
	return nil
}

func (m *mbc5) Header() *Header { return m.header }
func (m *mbc5) RAM() *RAM       { return m.ram }
func (m *mbc5) RTC() *RTC       { return nil }
