// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

// candidate pairs a legacy hardware variant with the byte order it's
// always observed in (spec §4.4: "Wii, XCX: big-endian; 3DS, XC2, DE:
// little-endian").
type candidate struct {
	dialect model.Dialect
	endi    model.Endianness
}

// Probe tries to identify which legacy variant and byte order buf's
// table header was written in, by trial-parsing candidates and checking
// the resulting section offsets are self-consistent and fit inside buf.
// It does not attempt to tell XC2 and Definitive Edition apart -- their
// headers are byte-for-byte identical -- and reports XC2 for that case.
func Probe(buf []byte) (model.Dialect, model.Endianness, bool) {
	isTADB, ok := readMagic(buf)
	if !ok {
		return 0, 0, false
	}
	if isTADB {
		if plausible(buf, model.DialectLegacy3DS, model.LittleEndian) {
			return model.DialectLegacy3DS, model.LittleEndian, true
		}
		return 0, 0, false
	}
	for _, c := range []candidate{
		{model.DialectLegacyWii, model.BigEndian},
		{model.DialectLegacyXCX, model.BigEndian},
		{model.DialectLegacyXC2, model.LittleEndian},
	} {
		if plausible(buf, c.dialect, c.endi) {
			return c.dialect, c.endi, true
		}
	}
	return 0, 0, false
}

func plausible(buf []byte, dialect model.Dialect, endi model.Endianness) bool {
	cur := bio.NewCursor(buf, endi)
	h, err := readHeader(cur, dialect)
	if err != nil {
		return false
	}
	if h.columnCount <= 0 || h.columnCount > 4096 {
		return false
	}
	if h.rowCount < 0 || h.rowCount > 1<<20 {
		return false
	}

	lo := computeLayout(h, dialect)
	if lo.colInfoOff < int64(headerSize(dialect)) || lo.nodesOff < lo.colInfoOff {
		return false
	}
	if lo.namesTextOff < lo.nodesOff || lo.hashHeadOff < lo.namesTextOff {
		return false
	}
	hashEnd := lo.hashHeadOff + lo.hashHeadLen
	if hashEnd < 0 || hashEnd > int64(len(buf)) {
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
