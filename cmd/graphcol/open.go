package main

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// openChunk maps a chunk file read-only and returns its bytes together with
// a release function. Empty files cannot be mapped, so they are returned as
// an empty slice with a no-op release.
func openChunk(path string) ([]byte, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if fi.Size() == 0 {
		f.Close()
		return []byte{}, func() {}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	release := func() {
		m.Unmap()
		f.Close()
	}

	return m, release, nil
}
