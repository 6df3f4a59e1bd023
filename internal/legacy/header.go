// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package legacy implements the legacy BDAT dialect: the scrambled,
// closed-addressing-hash-table family used across Wii, 3DS, XCX, XC2 and
// Definitive Edition (spec §4.4).
package legacy

import (
	"fmt"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

const (
	magicBDAT = "BDAT"
	magicTADB = "TADB"

	// headerSizeLong is the table header size for the XCX+ variants,
	// which carry a separate column-node section.
	headerSizeLong = 64
	// headerSizeShort is the table header size for Wii/3DS, which inline
	// column nodes into the name table instead.
	headerSizeShort = 32

	flagScrambled = 1 << 1

	columnInfoSize = 14

	defaultHashFactor = 61
)

// tableHeader is the parsed form of a legacy table header (spec §4.4,
// §6). checksum doubles as the scramble key when the table is scrambled.
type tableHeader struct {
	flags         uint8
	rowStride     int
	offsetHashes  int
	hashesLen     int
	offsetRows    int
	rowCount      int
	checksum      uint16
	baseID        int
	offsetNames   int
	offsetStrings int
	stringsLen    int
	offsetColumns int // 0 for Wii/3DS (inline column nodes)
	columnCount   int
}

func (h *tableHeader) scrambled() bool {
	return h.flags&flagScrambled != 0
}

func (h *tableHeader) hashFactor() int {
	if h.hashesLen <= 0 {
		return 0
	}
	return h.hashesLen / 2
}

// readMagic reports which orientation (if any) buf's 4 bytes match, per
// spec §4.4/§4.7: the literal ASCII bytes are compared directly, not
// interpreted as an endian-dependent integer.
func readMagic(buf []byte) (isTADB bool, ok bool) {
	if len(buf) < 4 {
		return false, false
	}
	switch string(buf[:4]) {
	case magicBDAT:
		return false, true
	case magicTADB:
		return true, true
	default:
		return false, false
	}
}

func readHeader(cur *bio.Cursor, dialect model.Dialect) (*tableHeader, error) {
	size := headerSizeLong
	if dialect.HasShortHeader() {
		size = headerSizeShort
	}
	if cur.Len() < int64(size) {
		return nil, model.NewDecodeError(model.ErrTruncated, "legacy table header", cur.Pos())
	}

	magic, err := cur.PeekBytes(cur.Pos(), 4)
	if err != nil {
		return nil, model.NewDecodeError(model.ErrTruncated, "legacy table header magic", cur.Pos())
	}
	if _, ok := readMagic(magic); !ok {
		return nil, model.NewDecodeError(model.ErrInvalidFormat, "legacy table header magic", cur.Pos())
	}
	cur.Skip(4)

	flagsWord, err := cur.U16()
	if err != nil {
		return nil, model.NewDecodeError(model.ErrTruncated, "legacy table header flags", cur.Pos())
	}
	h := &tableHeader{flags: uint8(flagsWord)}

	readU16 := func(dst *int) error {
		v, err := cur.U16()
		if err != nil {
			return err
		}
		*dst = int(v)
		return nil
	}

	if err := readU16(&h.offsetNames); err != nil {
		return nil, wrapTrunc("offset_names", cur.Pos())
	}
	if err := readU16(&h.rowStride); err != nil {
		return nil, wrapTrunc("row_stride", cur.Pos())
	}
	if err := readU16(&h.offsetHashes); err != nil {
		return nil, wrapTrunc("offset_hashes", cur.Pos())
	}
	if err := readU16(&h.hashesLen); err != nil {
		return nil, wrapTrunc("hashes_len", cur.Pos())
	}
	if err := readU16(&h.offsetRows); err != nil {
		return nil, wrapTrunc("offset_rows", cur.Pos())
	}
	if err := readU16(&h.rowCount); err != nil {
		return nil, wrapTrunc("row_count", cur.Pos())
	}
	checksum, err := cur.U16()
	if err != nil {
		return nil, wrapTrunc("checksum", cur.Pos())
	}
	h.checksum = checksum
	if err := readU16(&h.baseID); err != nil {
		return nil, wrapTrunc("base_id", cur.Pos())
	}
	cur.Skip(2) // reserved
	if err := readU16(&h.offsetStrings); err != nil {
		return nil, wrapTrunc("offset_strings", cur.Pos())
	}
	stringsLen, err := cur.U32()
	if err != nil {
		return nil, wrapTrunc("strings_len", cur.Pos())
	}
	h.stringsLen = int(stringsLen)

	if dialect.HasShortHeader() {
		cc, err := cur.U16()
		if err != nil {
			return nil, wrapTrunc("column_count", cur.Pos())
		}
		h.columnCount = int(cc)
	} else {
		oc, err := cur.U32()
		if err != nil {
			return nil, wrapTrunc("offset_columns", cur.Pos())
		}
		h.offsetColumns = int(oc)
		cc, err := cur.U16()
		if err != nil {
			return nil, wrapTrunc("column_count", cur.Pos())
		}
		h.columnCount = int(cc)
	}

	cur.Seek(int64(size))
	return h, nil
}

func wrapTrunc(field string, pos int64) error {
	return model.NewDecodeError(model.ErrTruncated, fmt.Sprintf("legacy table header field %s", field), pos)
}

// writeHeader emits a table header in dialect's layout, reserving
// checksum's slot for the caller to patch in once the scramble key or
// checksum is known (patchHeaderTail).
func writeHeader(w *bio.Writer, dialect model.Dialect, h *tableHeader) {
	// Every variant writes "BDAT"; "TADB" only shows up as an alternate
	// orientation some titles ship, never as something this encoder needs
	// to produce.
	w.WriteBytes([]byte(magicBDAT))
	w.WriteU16(uint16(h.flags))
	w.WriteU16(uint16(h.offsetNames))
	w.WriteU16(uint16(h.rowStride))
	w.WriteU16(uint16(h.offsetHashes))
	w.WriteU16(uint16(h.hashesLen))
	w.WriteU16(uint16(h.offsetRows))
	w.WriteU16(uint16(h.rowCount))
	w.WriteU16(h.checksum)
	w.WriteU16(uint16(h.baseID))
	w.WriteU16(0) // reserved
	w.WriteU16(uint16(h.offsetStrings))
	w.WriteU32(uint32(h.stringsLen))

	if dialect.HasShortHeader() {
		w.WriteU16(uint16(h.columnCount))
	} else {
		w.WriteU32(uint32(h.offsetColumns))
		w.WriteU16(uint16(h.columnCount))
	}
	w.PadTo(headerSize(dialect))
}

func headerSize(dialect model.Dialect) int {
	if dialect.HasShortHeader() {
		return headerSizeShort
	}
	return headerSizeLong
}
