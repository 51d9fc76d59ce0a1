package cartridge

// mbc3 implements the MBC3 family: a 7-bit ROM bank select, a 4-bit
// selector shared between RAM banks 0-3 and RTC registers 8-C, and an RTC
// latch triggered by a 0->1 write transition on 0x6000-0x7FFF.
type mbc3 struct {
	rom    *ROM
	ram    *RAM
	rtc    *RTC
	header *Header

	enabled   bool // gates both RAM and RTC register access
	rtcActive bool // true after selecting an RTC register; false after selecting a RAM bank
}

func newMBC3(rom *ROM, ram *RAM, rtc *RTC, header *Header) *mbc3 {
	return &mbc3{rom: rom, ram: ram, rtc: rtc, header: header}
}

func (m *mbc3) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x7FFF:
		return m.rom.Read(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.enabled {
			return 0xFF
		}
		if m.rtcActive {
			if m.rtc == nil {
				return 0xFF
			}
			return m.rtc.Read()
		}
		if m.ram == nil {
			return 0xFF
		}
		return m.ram.Read(addr)
	default:
		return 0xFF
	}
}

func (m *mbc3) Write(addr uint16, v uint8) error {
	switch {
	case addr <= 0x1FFF:
		m.enabled = v == 0x0A

	case addr <= 0x3FFF:
		bank := v & 0x7F
		if bank == 0 {
			bank = 1
		}
		return m.rom.SetBankHigh(uint(bank))

	case addr <= 0x5FFF:
		sel := v & 0x0F
		switch {
		case sel <= 0x03:
			if m.ram != nil {
				m.ram.SetBank(sel)
			}
			m.rtcActive = false
		case sel >= 0x08 && sel <= 0x0C:
			if m.rtc != nil {
				m.rtc.Select(sel)
			}
			m.rtcActive = true
		}

	case addr <= 0x7FFF:
		if m.rtc != nil {
			m.rtc.Latch(v)
		}

	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.enabled {
			return nil
		}
		if m.rtcActive {
			if m.rtc != nil {
				m.rtc.Write(v)
			}
			return nil
		}
		if m.ram == nil {
			return nil
		}
		return m.ram.Write(addr, v)
	}
	return nil
}

func (m *mbc3) Header() *Header { return m.header }
func (m *mbc3) RAM() *RAM       { return m.ram }
func (m *mbc3) RTC() *RTC       { return m.rtc }
