// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import (
	"fmt"
	"os"

	"github.com/xb-tools/bdat/internal/bmmap"
	"github.com/xb-tools/bdat/internal/legacy"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/modern"
)

// File is a sniffed, dialect-resolved handle onto one or more BDAT
// tables sharing a buffer. The wire bytes alone can't tell XC2 apart
// from Definitive Edition -- their table headers are identical -- so
// Dialect reports XC2 for that case; the codec behaves identically for
// both anyway (same header size, same endianness, same float encoding).
type File struct {
	Dialect    Dialect
	Endianness Endianness

	buf     []byte
	mapped  *bmmap.ReaderAt // non-nil when opened from a path; closed by Close
	offsets []int64         // table directory entries, file-relative
	tables  []*Table        // decoded lazily, parallel to offsets
}

// Open sniffs buf's dialect and byte order and parses its table
// directory. buf continues to back the returned File; callers that need
// to retain data past Close should copy it out first.
func Open(buf []byte) (*File, error) {
	dir, err := sniff(buf)
	if err != nil {
		return nil, err
	}
	return &File{
		Dialect:    dir.dialect,
		Endianness: dir.endi,
		buf:        buf,
		offsets:    dir.tabOffsets,
		tables:     make([]*Table, len(dir.tabOffsets)),
	}, nil
}

// OpenFile memory-maps path read-only and sniffs it. The mapping is
// released by Close.
func OpenFile(path string) (*File, error) {
	r, err := bmmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bdat.OpenFile(%s): %w", path, err)
	}
	f, err := Open(r.Data())
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	f.mapped = r
	return f, nil
}

// ReadFile reads path into memory and opens it without mapping, useful
// for small files or when the caller plans to mutate the bytes
// afterward.
func ReadFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bdat.ReadFile(%s): %w", path, err)
	}
	return Open(buf)
}

func (f *File) decodeAt(i int) (*Table, error) {
	if f.tables[i] != nil {
		return f.tables[i], nil
	}
	off := f.offsets[i]
	if off < 0 || off >= int64(len(f.buf)) {
		return nil, model.NewDecodeError(model.ErrTruncated, "bdat table offset", off)
	}
	sub := f.buf[off:]
	var t *Table
	var err error
	if f.Dialect.IsLegacy() {
		t, err = legacy.Decode(sub, f.Dialect, f.Endianness)
	} else {
		t, err = modern.Decode(sub, f.Endianness)
	}
	if err != nil {
		return nil, err
	}
	f.tables[i] = t
	return t, nil
}

// Tables returns the name of every table in this file, in declared
// order (spec §6: BdatFile.tables()). Scrambled legacy tables are the
// one case where this still pays for a full decode, since their names
// live in the scrambled range.
func (f *File) Tables() ([]string, error) {
	names := make([]string, len(f.offsets))
	for i, off := range f.offsets {
		sub := f.buf[off:]
		if f.Dialect.IsLegacy() && isScrambled(sub, f.Endianness) {
			names[i] = peekLegacyName(sub, f.Dialect, f.Endianness).String()
			continue
		}
		mt, err := newMappedTable(sub, f.Dialect, f.Endianness)
		if err != nil {
			return nil, err
		}
		names[i] = mt.Name().String()
	}
	return names, nil
}

// GetTable fully decodes and returns the named table (spec §6:
// BdatFile.get_table).
func (f *File) GetTable(name string) (*Table, error) {
	want := ParseLabel(name, false)
	for i := range f.offsets {
		t, err := f.decodeAt(i)
		if err != nil {
			return nil, err
		}
		if t.Name.Equal(want) {
			return t, nil
		}
	}
	return nil, model.NewDecodeError(model.ErrNoSuchTable, name, 0)
}

// MapTable returns a zero-copy accessor over the named table (spec §6:
// BdatFile.map_table). It fails with ErrWouldRequireCopy for a
// scrambled legacy table, since scrambling makes the buffer not
// directly readable in place. Matching by name parses each unscrambled
// candidate table's header and schema (and, for a modern table, its
// row-id map) but never decodes its rows; a scrambled legacy candidate
// is fully decoded to recover its name.
func (f *File) MapTable(name string) (*MappedTable, error) {
	want := ParseLabel(name, false)
	for _, off := range f.offsets {
		sub := f.buf[off:]
		if f.Dialect.IsLegacy() && isScrambled(sub, f.Endianness) {
			if peekLegacyName(sub, f.Dialect, f.Endianness).Equal(want) {
				return nil, model.NewDecodeError(model.ErrWouldRequireCopy, name, off)
			}
			continue
		}
		mt, err := newMappedTable(sub, f.Dialect, f.Endianness)
		if err != nil {
			return nil, err
		}
		if !mt.name.Equal(want) {
			continue
		}
		return mt, nil
	}
	return nil, model.NewDecodeError(model.ErrNoSuchTable, name, 0)
}

// peekLegacyName resolves a scrambled table's name. Its string pool sits
// inside the scrambled range, so there's no way to read it cheaper than
// a full decode -- which is fine, since MapTable can't serve a scrambled
// table either way and only needs the name to report the right error.
func peekLegacyName(buf []byte, dialect Dialect, endi Endianness) Label {
	t, err := legacy.Decode(buf, dialect, endi)
	if err != nil {
		return Label{}
	}
	return t.Name
}

// Close releases the memory mapping backing f, if any. Files opened with
// Open (rather than OpenFile) don't need closing.
func (f *File) Close() error {
	if f.mapped != nil {
		return f.mapped.Close()
	}
	return nil
}
