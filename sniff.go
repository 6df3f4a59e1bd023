// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import (
	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/legacy"
	"github.com/xb-tools/bdat/internal/model"
	"github.com/xb-tools/bdat/internal/modern"
)

// directory is the result of sniffing buf: which dialect and byte order
// it's in, and the file-relative offset of each table it holds.
type directory struct {
	dialect    Dialect
	endi       Endianness
	tabOffsets []int64
}

// sniff identifies buf's dialect, byte order and table layout (spec
// §4.7). A bare single-table buffer is tried before a multi-table
// container, since both a modern table header and a modern container
// header start with the same "BDAT" magic and the single-table case is
// the common one for files extracted from a game's archive.
func sniff(buf []byte) (*directory, error) {
	if endi, ok := modern.Probe(buf); ok {
		return &directory{dialect: DialectModern, endi: endi, tabOffsets: []int64{0}}, nil
	}
	if d, endi, ok := legacy.Probe(buf); ok {
		return &directory{dialect: d, endi: endi, tabOffsets: []int64{0}}, nil
	}
	if dir, ok := sniffModernContainer(buf); ok {
		return dir, nil
	}
	if dir, ok := sniffLegacyContainer(buf); ok {
		return dir, nil
	}
	return nil, model.NewDecodeError(model.ErrInvalidFormat, "bdat signature", 0)
}

// isScrambled peeks a legacy table's flags word without fully decoding
// the header, so Tables and MapTable can send a scrambled table to a full
// decode (peekLegacyName) instead of the mapped schema parse, which
// refuses it.
func isScrambled(buf []byte, endi Endianness) bool {
	flags, err := bio.NewCursor(buf, endi).PeekU16(4)
	if err != nil {
		return false
	}
	return flags&(1<<1) != 0
}

// sniffModernContainer recognizes a multi-table modern file: magic
// "BDAT", a version/reserved word, a table count, a total file size, and
// that many 32-bit table offsets (spec §6).
func sniffModernContainer(buf []byte) (*directory, bool) {
	if len(buf) < 16 || string(buf[:4]) != "BDAT" {
		return nil, false
	}
	for _, endi := range []Endianness{LittleEndian, BigEndian} {
		cur := bio.NewCursor(buf, endi)
		cur.Seek(8) // past magic + version/reserved word
		count, err := cur.U32()
		if err != nil {
			continue
		}
		fileSize, err := cur.U32()
		if err != nil || int64(fileSize) != int64(len(buf)) {
			continue
		}
		hdrLen := int64(16) + int64(count)*4
		if count == 0 || hdrLen > int64(len(buf)) {
			continue
		}
		offsets := make([]int64, count)
		ok := true
		for i := range offsets {
			v, err := cur.U32()
			if err != nil || int64(v) < hdrLen || int64(v) >= int64(len(buf)) {
				ok = false
				break
			}
			offsets[i] = int64(v)
		}
		if !ok {
			continue
		}
		if tblEndi, probeOK := modern.Probe(buf[offsets[0]:]); probeOK && tblEndi == endi {
			return &directory{dialect: DialectModern, endi: endi, tabOffsets: offsets}, true
		}
	}
	return nil, false
}

// sniffLegacyContainer recognizes a multi-table legacy file: no magic of
// its own, just a table count, a total file size, and that many 16-bit
// file-relative table offsets (spec §6).
func sniffLegacyContainer(buf []byte) (*directory, bool) {
	for _, endi := range []Endianness{BigEndian, LittleEndian} {
		cur := bio.NewCursor(buf, endi)
		count, err := cur.U32()
		if err != nil {
			continue
		}
		fileSize, err := cur.U32()
		if err != nil || int64(fileSize) != int64(len(buf)) {
			continue
		}
		hdrLen := int64(8) + int64(count)*2
		if count == 0 || hdrLen > int64(len(buf)) {
			continue
		}
		offsets := make([]int64, count)
		ok := true
		for i := range offsets {
			v, err := cur.U16()
			if err != nil || int64(v) < hdrLen || int64(v) >= int64(len(buf)) {
				ok = false
				break
			}
			offsets[i] = int64(v)
		}
		if !ok {
			continue
		}
		d, tblEndi, probeOK := legacy.Probe(buf[offsets[0]:])
		if !probeOK || tblEndi != endi {
			continue
		}
		return &directory{dialect: d, endi: endi, tabOffsets: offsets}, true
	}
	return nil, false
}
