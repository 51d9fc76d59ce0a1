// Package cartridge implements Game Boy cartridge header parsing, ROM and
// external RAM storage, the real-time clock, and the family of memory bank
// controllers (MBC1/2/3/5, plus plain ROM carts) that decode writes to the
// 0x0000-0x7FFF window as banking control signals.
package cartridge

import (
	"fmt"
	"unicode/utf8"
)

// GBMode describes the level of Game Boy Color support a cartridge declares.
type GBMode uint8

const (
	// ModeDMGOnly is an original Game Boy cartridge with no CGB awareness.
	ModeDMGOnly GBMode = iota
	// ModeCGBSupported runs on CGB with enhancements, but is backwards compatible.
	ModeCGBSupported
	// ModeCGBOnly only boots on a Game Boy Color.
	ModeCGBOnly
)

// Type is the cartridge-type byte at header offset 0x0147. It is a closed
// set of known MBC/RAM/battery/RTC/rumble combinations.
type Type uint8

const (
	ROM               Type = 0x00
	MBC1              Type = 0x01
	MBC1RAM           Type = 0x02
	MBC1RAMBattery    Type = 0x03
	MBC2              Type = 0x05
	MBC2Battery       Type = 0x06
	ROMRAM            Type = 0x08
	ROMRAMBattery     Type = 0x09
	MMM01             Type = 0x0B
	MMM01RAM          Type = 0x0C
	MMM01RAMBattery   Type = 0x0D
	MBC3TimerBattery  Type = 0x0F
	MBC3TimerRAMBatt  Type = 0x10
	MBC3              Type = 0x11
	MBC3RAM           Type = 0x12
	MBC3RAMBattery    Type = 0x13
	MBC5              Type = 0x19
	MBC5RAM           Type = 0x1A
	MBC5RAMBattery    Type = 0x1B
	MBC5Rumble        Type = 0x1C
	MBC5RumbleRAM     Type = 0x1D
	MBC5RumbleRAMBatt Type = 0x1E
	PocketCamera      Type = 0xFC
	BandaiTAMA5       Type = 0xFD
	HudsonHuC3        Type = 0xFE
	HudsonHuC1        Type = 0xFF
)

// Family identifies which memory bank controller implementation a Type maps
// to, independent of RAM/battery/RTC/rumble variants.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyMBC1
	FamilyMBC2
	FamilyMBC3
	FamilyMBC5
	FamilyOther
)

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(0x%02X)", uint8(t))
}

var typeNames = map[Type]string{
	ROM:               "ROM",
	MBC1:              "MBC1",
	MBC1RAM:           "MBC1+RAM",
	MBC1RAMBattery:    "MBC1+RAM+BATTERY",
	MBC2:              "MBC2",
	MBC2Battery:       "MBC2+BATTERY",
	ROMRAM:            "ROM+RAM",
	ROMRAMBattery:     "ROM+RAM+BATTERY",
	MMM01:             "MMM01",
	MMM01RAM:          "MMM01+RAM",
	MMM01RAMBattery:   "MMM01+RAM+BATTERY",
	MBC3TimerBattery:  "MBC3+TIMER+BATTERY",
	MBC3TimerRAMBatt:  "MBC3+TIMER+RAM+BATTERY",
	MBC3:              "MBC3",
	MBC3RAM:           "MBC3+RAM",
	MBC3RAMBattery:    "MBC3+RAM+BATTERY",
	MBC5:              "MBC5",
	MBC5RAM:           "MBC5+RAM",
	MBC5RAMBattery:    "MBC5+RAM+BATTERY",
	MBC5Rumble:        "MBC5+RUMBLE",
	MBC5RumbleRAM:     "MBC5+RUMBLE+RAM",
	MBC5RumbleRAMBatt: "MBC5+RUMBLE+RAM+BATTERY",
	PocketCamera:      "POCKET CAMERA",
	BandaiTAMA5:       "BANDAI TAMA5",
	HudsonHuC3:        "HUDSON HuC-3",
	HudsonHuC1:        "HUDSON HuC-1",
}

// Family returns which MBC implementation this cartridge type requires.
func (t Type) Family() Family {
	switch t {
	case ROM, ROMRAM, ROMRAMBattery:
		return FamilyNone
	case MBC1, MBC1RAM, MBC1RAMBattery:
		return FamilyMBC1
	case MBC2, MBC2Battery:
		return FamilyMBC2
	case MBC3, MBC3RAM, MBC3RAMBattery, MBC3TimerBattery, MBC3TimerRAMBatt:
		return FamilyMBC3
	case MBC5, MBC5RAM, MBC5RAMBattery, MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		return FamilyMBC5
	default:
		return FamilyOther
	}
}

// HasBattery reports whether this cartridge type retains RAM (and/or RTC
// state) across power loss.
func (t Type) HasBattery() bool {
	switch t {
	case MBC1RAMBattery, MBC2Battery, ROMRAMBattery, MMM01RAMBattery,
		MBC3TimerBattery, MBC3TimerRAMBatt, MBC3RAMBattery,
		MBC5RAMBattery, MBC5RumbleRAMBatt:
		return true
	}
	return false
}

// HasRTC reports whether this cartridge type exposes a real-time clock.
func (t Type) HasRTC() bool {
	return t == MBC3TimerBattery || t == MBC3TimerRAMBatt
}

// HasRumble reports whether this cartridge type drives a rumble motor.
func (t Type) HasRumble() bool {
	switch t {
	case MBC5Rumble, MBC5RumbleRAM, MBC5RumbleRAMBatt:
		return true
	}
	return false
}

// knownTypes lists every Type recognized by parseHeader; codes outside this
// set fail header parsing with ErrInvalidValue.
var knownTypes = func() map[Type]bool {
	m := make(map[Type]bool, len(typeNames))
	for t := range typeNames {
		m[t] = true
	}
	return m
}()

// romBankCounts maps the header's ROM-size code (0x0148) to a bank count.
// ROMSize = 32KiB * (1 << code), and each bank is 16KiB.
var romBankCounts = map[uint8]uint{
	0x00: 2, 0x01: 4, 0x02: 8, 0x03: 16, 0x04: 32, 0x05: 64,
	0x06: 128, 0x07: 256, 0x08: 512,
	0x52: 72, 0x53: 80, 0x54: 96,
}

// ramSizeBytes maps the header's RAM-size code (0x0149) to a byte count.
var ramSizeBytes = map[uint8]uint{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// oldLicenseeCodes maps the 0x014B byte to a publisher name, used whenever
// OldLicenseeCode != 0x33.
var oldLicenseeCodes = map[uint8]string{
	0x00: "None", 0x01: "Nintendo", 0x08: "Capcom", 0x09: "Hot-B",
	0x0A: "Jaleco", 0x0B: "Coconuts Japan", 0x0C: "Elite Systems",
	0x13: "Electronic Arts", 0x18: "Hudson Soft", 0x19: "ITC Entertainment",
	0x1A: "Yanoman", 0x1D: "Japan Clary", 0x1F: "Virgin Games",
	0x24: "PCM Complete", 0x25: "San-X", 0x28: "Kotobuki Systems",
	0x29: "Seta", 0x30: "Infogrames", 0x31: "Nintendo", 0x32: "Bandai",
	0x34: "Konami", 0x35: "HectorSoft", 0x38: "Capcom", 0x39: "Banpresto",
	0x3C: "Entertainment Interactive", 0x3E: "Gremlin", 0x41: "Ubi Soft",
	0x42: "Atlus", 0x44: "Malibu", 0x46: "Angel", 0x47: "Spectrum HoloByte",
	0x49: "Irem", 0x4A: "Virgin Games", 0x4D: "Malibu", 0x4F: "U.S. Gold",
	0x50: "Absolute", 0x51: "Acclaim", 0x52: "Activision",
	0x53: "American Sammy", 0x54: "GameTek", 0x55: "Park Place",
	0x56: "LJN", 0x57: "Matchbox", 0x59: "Milton Bradley",
	0x5A: "Mindscape", 0x5B: "Romstar", 0x5C: "Naxat Soft", 0x5D: "Tradewest",
	0x60: "Titus", 0x61: "Virgin Games", 0x67: "Ocean Software",
	0x69: "Electronic Arts", 0x6E: "Elite Systems", 0x6F: "Electro Brain",
	0x70: "Infogrames", 0x71: "Interplay", 0x72: "Broderbund",
	0x73: "Sculptured Software", 0x75: "The Sales Curve",
	0x78: "T*HQ", 0x79: "Accolade", 0x7A: "Triffix Entertainment",
	0x7C: "MicroProse", 0x7F: "Kemco", 0x80: "Misawa Entertainment",
	0x83: "Lozc", 0x86: "Tokuma Shoten", 0x8B: "Bullet-Proof Software",
	0x8C: "Vic Tokai", 0x8E: "Ape", 0x8F: "I'Max", 0x91: "Chunsoft",
	0x92: "Video System", 0x93: "Tsubaraya Productions", 0x95: "Varie",
	0x96: "Yonezawa/S'Pal", 0x97: "Kaneko", 0x99: "Arc",
	0x9A: "Nihon Bussan", 0x9B: "Tecmo", 0x9C: "Imagineer", 0x9D: "Banpresto",
	0x9F: "Nova", 0xA1: "Hori Electric", 0xA2: "Bandai", 0xA4: "Konami",
	0xA6: "Kawada", 0xA7: "Takara", 0xA9: "Technos Japan",
	0xAA: "Broderbund", 0xAC: "Toei Animation", 0xAD: "Toho",
	0xAF: "Namco", 0xB0: "Acclaim", 0xB1: "ASCII or Nexsoft",
	0xB2: "Bandai", 0xB4: "Square Enix", 0xB6: "HAL Laboratory",
	0xB7: "SNK", 0xB9: "Pony Canyon", 0xBA: "Culture Brain",
	0xBB: "Sunsoft", 0xBD: "Sony Imagesoft", 0xBF: "Sammy",
	0xC0: "Taito", 0xC2: "Kemco", 0xC3: "Square", 0xC4: "Tokuma Shoten",
	0xC5: "Data East", 0xC6: "Tonkin House", 0xC8: "Koei",
	0xC9: "UFL", 0xCA: "Ultra", 0xCB: "Vap", 0xCC: "Use Corporation",
	0xCD: "Meldac", 0xCE: "Pony Canyon", 0xCF: "Angel",
	0xD0: "Taito", 0xD1: "Sofel", 0xD2: "Quest", 0xD3: "Sigma Enterprises",
	0xD4: "ASK Kodansha", 0xD6: "Naxat Soft", 0xD7: "Copya Systems",
	0xD9: "Banpresto", 0xDA: "Tomy", 0xDB: "LJN", 0xDD: "NCS",
	0xDE: "Human", 0xDF: "Altron", 0xE0: "Jaleco", 0xE1: "Towa Chiki",
	0xE2: "Yutaka", 0xE3: "Varie", 0xE5: "Epcoh", 0xE6: "Athena",
	0xE7: "Asmik Ace Entertainment", 0xE8: "Natsume", 0xE9: "King Records",
	0xEA: "Atlus", 0xEB: "Epic/Sony Records", 0xEC: "Igs",
	0xEE: "IGS", 0xF0: "A Wave", 0xF3: "Extreme Entertainment",
	0xFF: "LJN",
}

// newLicenseeCodes maps the 2-character 0x0144-0x0145 code to a publisher
// name, used when OldLicenseeCode == 0x33.
var newLicenseeCodes = map[string]string{
	"00": "None", "01": "Nintendo", "08": "Capcom", "13": "Electronic Arts",
	"18": "Hudson Soft", "19": "B-AI", "20": "KSS", "22": "POW",
	"24": "PCM Complete", "25": "San-X", "28": "Kemco", "29": "SETA",
	"30": "Viacom", "31": "Nintendo", "32": "Bandai", "33": "Ocean/Acclaim",
	"34": "Konami", "35": "HectorSoft", "37": "Taito", "38": "Hudson",
	"39": "Banpresto", "41": "Ubi Soft", "42": "Atlus", "44": "Malibu",
	"46": "Angel", "47": "Bullet-Proof Software", "49": "Irem",
	"50": "Absolute", "51": "Acclaim", "52": "Activision",
	"53": "American Sammy", "54": "Konami", "55": "Hi Tech Entertainment",
	"56": "LJN", "57": "Matchbox", "58": "Mattel", "59": "Milton Bradley",
	"60": "Titus", "61": "Virgin Games", "64": "LucasArts",
	"67": "Ocean Software", "69": "Electronic Arts", "70": "Infogrames",
	"71": "Interplay", "72": "Broderbund", "73": "Sculptured Software",
	"75": "The Sales Curve", "78": "T*HQ", "79": "Accolade", "80": "Misawa",
	"83": "Lozc", "86": "Tokuma Shoten", "87": "Tsukuda Original",
	"91": "Chunsoft", "92": "Video System", "93": "Ocean/Acclaim",
	"95": "Varie", "96": "Yonezawa/S'Pal", "97": "Kaneko", "99": "Pack-In-Video",
	"9H": "Bottom Up", "A4": "Konami (Yu-Gi-Oh!)", "BL": "MTO",
	"DK": "Kodansha",
}

// Header is the parsed 0x50-byte region at ROM offset 0x0100-0x014F.
type Header struct {
	Title            string
	ManufacturerCode string
	NewLicenseeCode  string
	CGBFlag          GBMode
	SGBFlag          bool
	CartridgeType    Type
	ROMBanks         uint
	RAMSize          uint
	DestinationCode  uint8
	OldLicenseeCode  uint8
	MaskROMVersion   uint8
	HeaderChecksum   uint8
	GlobalChecksum   uint16
}

// ROMSize returns the total ROM size in bytes implied by the header.
func (h *Header) ROMSize() uint {
	return h.ROMBanks * 16 * 1024
}

// CGB reports whether the cartridge declares any Game Boy Color support.
func (h *Header) CGB() bool {
	return h.CGBFlag == ModeCGBSupported || h.CGBFlag == ModeCGBOnly
}

// SGB reports whether the cartridge declares Super Game Boy support.
// Per the hardware, the SGB flag is only honored when the old licensee
// code is 0x33 (i.e. the cartridge also carries a new licensee code).
func (h *Header) SGB() bool {
	return h.SGBFlag && h.OldLicenseeCode == 0x33
}

// Licensee resolves the old or new licensee code to a publisher name.
func (h *Header) Licensee() string {
	if h.OldLicenseeCode == 0x33 {
		if name, ok := newLicenseeCodes[h.NewLicenseeCode]; ok {
			return name
		}
		return "Unknown"
	}
	if name, ok := oldLicenseeCodes[h.OldLicenseeCode]; ok {
		return name
	}
	return "Unknown"
}

func (h *Header) String() string {
	return fmt.Sprintf("%s (%s) | %s | ROM: %dKiB RAM: %dKiB",
		h.Title, h.Licensee(), h.CartridgeType, h.ROMSize()/1024, h.RAMSize/1024)
}

// VerifyHeaderChecksum recomputes the header checksum over the raw header
// bytes 0x34..=0x4C (relative to ROM offset 0x100) and compares it to the
// checksum byte the cartridge stored at 0x4D.
func (h *Header) VerifyHeaderChecksum(raw [0x50]byte) bool {
	return computeHeaderChecksum(raw) == h.HeaderChecksum
}

func computeHeaderChecksum(raw [0x50]byte) uint8 {
	var sum uint8
	for _, b := range raw[0x34:0x4D] {
		sum = sum - b - 1
	}
	return sum
}

// parseHeader parses the 0x50-byte header region starting at ROM offset
// 0x100. raw must be exactly 0x50 bytes.
func parseHeader(raw []byte) (*Header, error) {
	if len(raw) != 0x50 {
		return nil, fmt.Errorf("%w: header must be 0x50 bytes, got %d", ErrInvalidValue, len(raw))
	}
	var buf [0x50]byte
	copy(buf[:], raw)

	h := &Header{}

	switch buf[0x43] {
	case 0x80:
		h.CGBFlag = ModeCGBSupported
	case 0xC0:
		h.CGBFlag = ModeCGBOnly
	default:
		h.CGBFlag = ModeDMGOnly
	}

	titleEnd := 0x44
	if h.CGBFlag != ModeDMGOnly {
		titleEnd = 0x43
	}
	title, err := decodeHeaderString(buf[0x34:titleEnd])
	if err != nil {
		return nil, err
	}
	h.Title = title

	mfr, err := decodeHeaderString(buf[0x3F:0x43])
	if err != nil {
		return nil, err
	}
	h.ManufacturerCode = mfr

	h.NewLicenseeCode = string(buf[0x44:0x46])
	h.SGBFlag = buf[0x46] == 0x03
	h.CartridgeType = Type(buf[0x47])
	if !knownTypes[h.CartridgeType] {
		return nil, fmt.Errorf("%w: unrecognized cartridge type 0x%02X", ErrInvalidValue, buf[0x47])
	}

	banks, ok := romBankCounts[buf[0x48]]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized ROM size code 0x%02X", ErrInvalidValue, buf[0x48])
	}
	h.ROMBanks = banks

	ramSize, ok := ramSizeBytes[buf[0x49]]
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized RAM size code 0x%02X", ErrInvalidValue, buf[0x49])
	}
	h.RAMSize = ramSize
	if h.CartridgeType == MBC2 || h.CartridgeType == MBC2Battery {
		// MBC2 carries its own 512x4-bit RAM array; the header byte is
		// meaningless for this type.
		h.RAMSize = 512
	}

	h.DestinationCode = buf[0x4A]
	h.OldLicenseeCode = buf[0x4B]
	h.MaskROMVersion = buf[0x4C]
	h.HeaderChecksum = buf[0x4D]
	h.GlobalChecksum = uint16(buf[0x4E])<<8 | uint16(buf[0x4F])

	return h, nil
}

// decodeHeaderString trims trailing zero padding from a fixed-width header
// field and validates it as UTF-8 (ASCII, in practice).
func decodeHeaderString(b []byte) (string, error) {
	end := len(b)
	for end > 0 && b[end-1] == 0x00 {
		end--
	}
	s := string(b[:end])
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%w: header field is not valid UTF-8", ErrUTF8)
	}
	return s, nil
}
