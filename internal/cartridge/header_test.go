package cartridge

import (
	"errors"
	"testing"
)

// buildHeader returns a 0x50-byte raw header region (ROM offset
// 0x100-0x14F) with a valid checksum, for the given type/ROM/RAM codes.
func buildHeader(title string, cartType uint8, romCode, ramCode uint8) [0x50]byte {
	var buf [0x50]byte
	copy(buf[0x34:], title)
	buf[0x47] = cartType
	buf[0x48] = romCode
	buf[0x49] = ramCode
	buf[0x4A] = 0x00
	buf[0x4B] = 0x01
	buf[0x4C] = 0x00
	buf[0x4D] = computeHeaderChecksum(buf)
	return buf
}

func TestParseHeaderRoundTrip(t *testing.T) {
	raw := buildHeader("TESTGAME", uint8(MBC1RAMBattery), 0x01, 0x02)

	h, err := parseHeader(raw[:])
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}

	if h.Title != "TESTGAME" {
		t.Errorf("Title = %q, want TESTGAME", h.Title)
	}
	if h.CartridgeType != MBC1RAMBattery {
		t.Errorf("CartridgeType = %v, want MBC1RAMBattery", h.CartridgeType)
	}
	if h.ROMBanks != 4 {
		t.Errorf("ROMBanks = %d, want 4", h.ROMBanks)
	}
	if h.RAMSize != 8*1024 {
		t.Errorf("RAMSize = %d, want 8192", h.RAMSize)
	}
	if !h.VerifyHeaderChecksum(raw) {
		t.Error("VerifyHeaderChecksum = false, want true for a correctly computed checksum")
	}
}

func TestParseHeaderCorruptChecksumFailsVerify(t *testing.T) {
	raw := buildHeader("TESTGAME", uint8(MBC1), 0x00, 0x00)
	raw[0x4D] ^= 0xFF // corrupt the checksum byte only; parsing itself doesn't validate it

	h, err := parseHeader(raw[:])
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.VerifyHeaderChecksum(raw) {
		t.Error("VerifyHeaderChecksum = true, want false after corrupting the checksum byte")
	}
}

func TestParseHeaderUnknownCartridgeType(t *testing.T) {
	raw := buildHeader("X", 0xEF, 0x00, 0x00) // 0xEF is not in knownTypes

	_, err := parseHeader(raw[:])
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
}

func TestParseHeaderMBC2RAMSizeOverride(t *testing.T) {
	raw := buildHeader("MBC2GAME", uint8(MBC2Battery), 0x00, 0x00)

	h, err := parseHeader(raw[:])
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.RAMSize != 512 {
		t.Errorf("RAMSize = %d, want 512 (MBC2 built-in RAM, ignoring header byte)", h.RAMSize)
	}
}

func TestTypeFamily(t *testing.T) {
	cases := []struct {
		t    Type
		want Family
	}{
		{ROM, FamilyNone},
		{MBC1RAMBattery, FamilyMBC1},
		{MBC2Battery, FamilyMBC2},
		{MBC3TimerRAMBatt, FamilyMBC3},
		{MBC5RumbleRAMBatt, FamilyMBC5},
		{PocketCamera, FamilyOther},
	}
	for _, c := range cases {
		if got := c.t.Family(); got != c.want {
			t.Errorf("%v.Family() = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestTypeHasRTC(t *testing.T) {
	if !MBC3TimerBattery.HasRTC() {
		t.Error("MBC3TimerBattery.HasRTC() = false, want true")
	}
	if MBC3RAMBattery.HasRTC() {
		t.Error("MBC3RAMBattery.HasRTC() = true, want false (no timer variant)")
	}
}

func TestLicenseeOldVsNew(t *testing.T) {
	raw := buildHeader("G", uint8(ROM), 0x00, 0x00)
	raw[0x4B] = 0x01 // old licensee: Nintendo
	raw[0x4D] = computeHeaderChecksum(raw)
	h, err := parseHeader(raw[:])
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h.Licensee() != "Nintendo" {
		t.Errorf("Licensee() = %q, want Nintendo", h.Licensee())
	}

	raw2 := buildHeader("G", uint8(ROM), 0x00, 0x00)
	raw2[0x4B] = 0x33
	copy(raw2[0x44:0x46], "01")
	raw2[0x4D] = computeHeaderChecksum(raw2)
	h2, err := parseHeader(raw2[:])
	if err != nil {
		t.Fatalf("parseHeader: %v", err)
	}
	if h2.Licensee() != "Nintendo" {
		t.Errorf("Licensee() = %q, want Nintendo (new licensee path)", h2.Licensee())
	}
}
