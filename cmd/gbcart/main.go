// Command gbcart loads a Game Boy ROM image, prints its decoded header,
// verifies its header checksum, and optionally walks its ROM banks.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/halfcarry/gbcore/internal/cartridge"
	"github.com/halfcarry/gbcore/internal/romfile"
	"github.com/halfcarry/gbcore/pkg/log"
)

var cli struct {
	ROM      string `arg:"" help:"Path to the ROM image (.gb/.gbc, optionally .zip/.gz/.7z packaged)."`
	SaveFile string `help:"Path to the battery-save sidecar (created if missing)." optional:""`
	Dump     bool   `help:"Walk every ROM bank and print a checksum per bank."`
}

func main() {
	logger := log.New()
	kong.Parse(&cli, kong.Description("Inspect a Game Boy cartridge's header and bank layout."))

	data, err := romfile.Load(cli.ROM)
	if err != nil {
		logger.Errorf("gbcart: %v", err)
		os.Exit(1)
	}

	var sink cartridge.Sink
	var sinkLen int64
	if cli.SaveFile != "" {
		f, err := os.OpenFile(cli.SaveFile, os.O_RDWR|os.O_CREATE, 0o644)
		if err != nil {
			logger.Errorf("gbcart: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		if fi, err := f.Stat(); err == nil {
			sinkLen = fi.Size()
		}
		sink = f
	}

	cart, err := cartridge.Load(data, sink, sinkLen)
	if err != nil {
		logger.Errorf("gbcart: %v", err)
		os.Exit(1)
	}

	h := cart.Header()
	fmt.Printf("Title:            %s\n", h.Title)
	fmt.Printf("Cartridge type:   %s\n", h.CartridgeType)
	fmt.Printf("ROM size:         %d bytes (%d banks)\n", h.ROMSize(), h.ROMBanks)
	fmt.Printf("RAM size:         %d bytes\n", h.RAMSize)
	fmt.Printf("CGB support:      %v\n", h.CGB())
	fmt.Printf("SGB support:      %v\n", h.SGB())
	fmt.Printf("Licensee:         %s\n", h.Licensee())
	fmt.Printf("Header checksum:  0x%02X (valid: %v)\n", h.HeaderChecksum, cart.VerifyHeaderChecksum())
	fmt.Printf("Global checksum:  0x%04X\n", h.GlobalChecksum)
	fmt.Printf("Fingerprint:      %016x\n", cart.Fingerprint())

	if cartridge.DetectMultiCart(data) {
		fmt.Println("Multicart:        detected (banking not emulated)")
	}

	if cli.Dump {
		dumpBanks(data, h.ROMBanks)
	}
}

func dumpBanks(data []byte, banks uint) {
	const bankSize = 0x4000
	fmt.Println()
	fmt.Println("bank  checksum")
	for i := uint(0); i < banks; i++ {
		start := int(i) * bankSize
		end := start + bankSize
		if end > len(data) {
			end = len(data)
		}
		if start >= len(data) {
			break
		}
		var sum uint32
		for _, b := range data[start:end] {
			sum += uint32(b)
		}
		fmt.Printf("%4d  %08x\n", i, sum)
	}
}
