package cartridge

import (
	"bytes"
	"testing"
)

// memSink is an in-memory Sink for tests.
type memSink struct {
	buf []byte
}

func (m *memSink) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, m.buf[off:]), nil
}

func (m *memSink) WriteAt(p []byte, off int64) (int, error) {
	if int(off)+len(p) > len(m.buf) {
		t := make([]byte, int(off)+len(p))
		copy(t, m.buf)
		m.buf = t
	}
	return copy(m.buf[off:], p), nil
}

func (m *memSink) Truncate(size int64) error {
	t := make([]byte, size)
	copy(t, m.buf)
	m.buf = t
	return nil
}

func TestRAMReadWrite(t *testing.T) {
	r := NewRAM(8 * 1024)
	if err := r.Write(0xA000, 0x42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := r.Read(0xA000); got != 0x42 {
		t.Errorf("Read(0xA000) = 0x%02X, want 0x42", got)
	}
}

func TestRAMSetBankMaskedOnSingleBank(t *testing.T) {
	r := NewRAM(8 * 1024) // one bank
	r.SetBank(5)
	if r.ActiveBank() != 0 {
		t.Errorf("ActiveBank() = %d after SetBank(5) on a single-bank store, want 0", r.ActiveBank())
	}
}

func TestRAMSetBankMultiBank(t *testing.T) {
	r := NewRAM(32 * 1024) // four banks
	r.SetBank(3)
	if r.ActiveBank() != 3 {
		t.Fatalf("ActiveBank() = %d, want 3", r.ActiveBank())
	}
	r.Write(0xA000, 0x7F)
	r.SetBank(0)
	if got := r.Read(0xA000); got == 0x7F {
		t.Error("bank 0 read back bank 3's byte; banks are not independently addressed")
	}
	r.SetBank(3)
	if got := r.Read(0xA000); got != 0x7F {
		t.Errorf("Read(0xA000) on bank 3 after re-selecting it = 0x%02X, want 0x7F", got)
	}
}

func TestRAMAttachSinkLoadsMatchingLength(t *testing.T) {
	sink := &memSink{buf: bytes.Repeat([]byte{0xAB}, 8*1024)}
	r := NewRAM(8 * 1024)
	if err := r.AttachSink(sink, int64(len(sink.buf))); err != nil {
		t.Fatalf("AttachSink: %v", err)
	}
	if got := r.Read(0xA000); got != 0xAB {
		t.Errorf("Read(0xA000) after loading sink = 0x%02X, want 0xAB", got)
	}
}

func TestRAMAttachSinkResizesMismatchedLength(t *testing.T) {
	sink := &memSink{buf: []byte{1, 2, 3}}
	r := NewRAM(8 * 1024)
	if err := r.AttachSink(sink, int64(len(sink.buf))); err != nil {
		t.Fatalf("AttachSink: %v", err)
	}
	if len(sink.buf) != 8*1024 {
		t.Fatalf("sink length after AttachSink = %d, want 8192", len(sink.buf))
	}
}

func TestRAMWriteThroughToSink(t *testing.T) {
	sink := &memSink{buf: make([]byte, 8*1024)}
	r := NewRAM(8 * 1024)
	if err := r.AttachSink(sink, int64(len(sink.buf))); err != nil {
		t.Fatalf("AttachSink: %v", err)
	}
	if err := r.Write(0xA005, 0x99); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sink.buf[5] != 0x99 {
		t.Errorf("sink.buf[5] = 0x%02X after Write, want 0x99 (write-through)", sink.buf[5])
	}
}
