// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bmmap memory-maps a file read-only and hands back the raw
// bytes, the way datafile.NewMMapReaderWithPath does for bit's data
// files. BdatFile.OpenFile uses it to give the mapped accessor (spec
// §4.6) a genuine zero-copy, file-backed buffer instead of a read()'d
// copy.
package bmmap

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// ReaderAt is a read-only mmap'd region. The zero value is not usable;
// construct with Open.
type ReaderAt struct {
	data []byte
	f    *os.File
}

// Open maps path read-only for the lifetime of the returned ReaderAt.
// Callers must call Close when done to unmap and release the file
// descriptor.
func Open(path string) (*ReaderAt, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bmmap: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("bmmap: stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("bmmap: %s is empty", path)
	}

	data, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("bmmap: mmap %s: %w", path, err)
	}

	// Best-effort hint; a failure here doesn't affect correctness, only
	// the kernel's readahead heuristics, so it's non-fatal -- mirroring
	// datafile.go's NewMMapReaderWithPath.
	_ = unix.Madvise(data, unix.MADV_RANDOM)

	return &ReaderAt{data: data, f: f}, nil
}

// Data returns the mapped bytes. The slice is only valid until Close.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Len returns the size of the mapped region.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Close unmaps the region and closes the underlying file descriptor.
func (r *ReaderAt) Close() error {
	var err error
	if r.data != nil {
		err = syscall.Munmap(r.data)
		r.data = nil
	}
	if cerr := r.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
