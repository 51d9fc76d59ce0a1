// Package romfile loads cartridge ROM images from disk, transparently
// decompressing .zip/.gz/.7z-packaged distributions and passing raw
// .gb/.gbc images and boot ROM .bin blobs through unchanged.
package romfile

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// ErrEmptyArchive is returned when a .zip/.7z archive contains no entries.
var ErrEmptyArchive = errors.New("romfile: archive contains no entries")

// Load reads filename and returns its decompressed contents. Plain
// .gb/.gbc images and boot ROM .bin blobs (256 or 2304 bytes) are
// returned as-is; .gz/.zip/.7z archives are transparently decompressed,
// reading the first entry in the archive.
func Load(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("romfile: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("romfile: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".gb", ".gbc", ".bin":
		return data, nil
	case ".gz":
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("romfile: %w", err)
		}
		return decompressGzip(f)
	case ".zip":
		return decompressZip(f, int64(len(data)))
	case ".7z":
		return decompressSevenZip(f, int64(len(data)))
	default:
		return data, nil
	}
}

func decompressGzip(f *os.File) ([]byte, error) {
	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("romfile: gzip: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("romfile: gzip: %w", err)
	}
	return out, nil
}

func decompressZip(f *os.File, size int64) ([]byte, error) {
	zr, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("romfile: zip: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("romfile: zip: %w", ErrEmptyArchive)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romfile: zip: %w", err)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("romfile: zip: %w", err)
	}
	return out, nil
}

func decompressSevenZip(f *os.File, size int64) ([]byte, error) {
	zr, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("romfile: 7z: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, fmt.Errorf("romfile: 7z: %w", ErrEmptyArchive)
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romfile: 7z: %w", err)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("romfile: 7z: %w", err)
	}
	return out, nil
}

// SidecarPath returns the path of the battery-save sidecar for a loaded
// ROM at romPath, replacing its extension with ext (e.g. ".sav", ".rtc").
func SidecarPath(romPath, ext string) string {
	base := strings.TrimSuffix(romPath, filepath.Ext(romPath))
	return base + ext
}
