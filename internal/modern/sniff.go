// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package modern

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

// Probe reports whether buf looks like a modern table header, and in
// which byte order. XC3 ships little-endian only, but both orders are
// checked for robustness since nothing else in the header pins one down.
func Probe(buf []byte) (model.Endianness, bool) {
	if len(buf) < 4 || string(buf[:4]) != magic {
		return 0, false
	}
	for _, endi := range []model.Endianness{model.LittleEndian, model.BigEndian} {
		if plausible(buf, endi) {
			return endi, true
		}
	}
	return 0, false
}

func plausible(buf []byte, endi model.Endianness) bool {
	cur := bio.NewCursor(buf, endi)
	h, err := readHeader(cur)
	if err != nil {
		return false
	}
	if h.columnCount < 0 || h.columnCount > 4096 {
		return false
	}
	if h.rowCount < 0 || h.rowCount > 1<<20 {
		return false
	}
	if int64(h.offsetColumnInfo) < int64(headerSize) {
		return false
	}
	colInfoEnd := int64(h.offsetColumnInfo) + int64(h.columnCount)*columnInfoSize
	if colInfoEnd > int64(len(buf)) {
		return false
	}
	if int64(h.offsetRowMap) < colInfoEnd {
		return false
	}
	rowMapEnd := int64(h.offsetRowMap) + int64(h.rowCount)*rowMapEntrySize
	if rowMapEnd < int64(h.offsetRowMap) || rowMapEnd > int64(len(buf)) {
		return false
	}
	rowsEnd := int64(h.offsetRows) + int64(h.rowCount)*int64(h.rowStride)
	if rowsEnd < int64(h.offsetRows) || rowsEnd > int64(len(buf)) {
		return false
	}
	stringsEnd := int64(h.offsetStrings) + int64(h.stringsLen)
	if stringsEnd < int64(h.offsetStrings) || stringsEnd > int64(len(buf)) {
		return false
	}
	return true
}
