package cartridge

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const ramBankSize = 8 * 1024

// Sink is the write-through target for a battery-backed RAM store. Any
// byte-addressable backing with these three methods works: an os.File, an
// in-memory buffer type in tests, or a future network-backed store. ReadAt/WriteAt match os.File's
// signature so *os.File satisfies Sink directly.
type Sink interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	Truncate(size int64) error
}

// RAM is a flat byte store for cartridge RAM, partitioned into 8 KiB banks.
// When sink is non-nil, every successful Write is mirrored to it at the
// same byte offset.
type RAM struct {
	data       []byte
	numBanks   uint
	activeBank uint
	sink       Sink
}

// NewRAM allocates a RAM store of size bytes. size may be 0 (no cartridge
// RAM), in which case Read/Write are never called by a correctly wired MBC.
func NewRAM(size uint) *RAM {
	banks := uint(1)
	if size > ramBankSize {
		banks = size / ramBankSize
	}
	return &RAM{
		data:     make([]byte, size),
		numBanks: banks,
	}
}

// AttachSink wires a battery-backed sink, loading its contents into memory
// if its length already matches the store size, otherwise resizing it to
// match (zero-filled).
func (r *RAM) AttachSink(sink Sink, currentLen int64) error {
	r.sink = sink
	want := int64(len(r.data))
	if currentLen == want {
		if _, err := sink.ReadAt(r.data, 0); err != nil {
			return fmt.Errorf("%w: loading battery ram: %v", ErrIo, err)
		}
		return nil
	}
	if err := sink.Truncate(want); err != nil {
		return fmt.Errorf("%w: resizing battery ram: %v", ErrIo, err)
	}
	if _, err := sink.WriteAt(r.data, 0); err != nil {
		return fmt.Errorf("%w: zero-filling battery ram: %v", ErrIo, err)
	}
	return nil
}

// Read returns the byte at addr (0xA000..=0xBFFF) in the active bank.
func (r *RAM) Read(addr uint16) uint8 {
	off := r.activeBank*ramBankSize + uint(addr-0xA000)
	if off >= uint(len(r.data)) {
		return 0xFF
	}
	return r.data[off]
}

// Write stores v at addr in the active bank and write-throughs to the sink
// if attached. A sink I/O failure is returned to the caller; the in-memory
// write has already taken effect and is never rolled back.
func (r *RAM) Write(addr uint16, v uint8) error {
	off := r.activeBank*ramBankSize + uint(addr-0xA000)
	if off >= uint(len(r.data)) {
		return nil
	}
	r.data[off] = v
	if r.sink != nil {
		if _, err := r.sink.WriteAt([]byte{v}, int64(off)); err != nil {
			return fmt.Errorf("%w: battery write-through: %v", ErrIo, err)
		}
	}
	return nil
}

// SetBank selects the RAM bank visible at 0xA000-0xBFFF. On a single-bank
// store, a nonzero request is masked to 0 and logged rather than rejected,
// matching cartridges that tie the bank-select lines low.
func (r *RAM) SetBank(bank uint8) {
	masked := uint(bank) & (r.numBanks - 1)
	if r.numBanks == 1 && bank != 0 {
		logrus.WithFields(logrus.Fields{
			"requested": bank,
			"numBanks":  r.numBanks,
		}).Debug("cartridge: ram bank select masked to 0 on single-bank ram")
	}
	r.activeBank = masked
}

// ActiveBank returns the currently selected RAM bank index.
func (r *RAM) ActiveBank() uint { return r.activeBank }

// NumBanks reports the number of 8 KiB RAM banks.
func (r *RAM) NumBanks() uint { return r.numBanks }

// Size reports the total RAM size in bytes.
func (r *RAM) Size() int { return len(r.data) }
