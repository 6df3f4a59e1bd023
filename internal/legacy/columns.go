// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"fmt"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

// columnInfo is the fixed-size, per-column record holding everything
// except the name (spec §4.4). One entry per column, stored as a flat
// array in declared order.
type columnInfo struct {
	cellType   uint8
	valueType  uint8
	rowOffset  uint16
	arity      uint16
	flagShift  uint8
	flagMask   uint32
	parentIdx  uint16
}

func readColumnInfo(cur *bio.Cursor, off int64) (columnInfo, error) {
	var ci columnInfo
	b, err := cur.PeekBytes(off, columnInfoSize)
	if err != nil {
		return ci, model.NewDecodeError(model.ErrTruncated, "legacy column info", off)
	}
	sub := bio.NewCursor(b, cur.Endianness())
	ci.cellType, _ = sub.U8()
	ci.valueType, _ = sub.U8()
	v16, _ := sub.U16()
	ci.rowOffset = v16
	v16, _ = sub.U16()
	ci.arity = v16
	ci.flagShift, _ = sub.U8()
	_, _ = sub.U8() // pad
	v32, _ := sub.U32()
	ci.flagMask = v32
	v16, _ = sub.U16()
	ci.parentIdx = v16
	return ci, nil
}

func writeColumnInfo(w *bio.Writer, ci columnInfo) {
	w.WriteU8(ci.cellType)
	w.WriteU8(ci.valueType)
	w.WriteU16(ci.rowOffset)
	w.WriteU16(ci.arity)
	w.WriteU8(ci.flagShift)
	w.WriteU8(0) // pad
	w.WriteU32(ci.flagMask)
	w.WriteU16(ci.parentIdx)
}

// cellTypeFromShape and its inverse translate between the model's
// CellShape and the on-disk single-byte cell-type tag; kept local to
// this package since the wire tag values are a legacy-only convention.
const (
	wireCellScalar uint8 = 0
	wireCellList   uint8 = 1
	wireCellFlag   uint8 = 2
)

func cellTypeFromShape(shape model.CellShape) (uint8, error) {
	switch shape {
	case model.Scalar:
		return wireCellScalar, nil
	case model.List:
		return wireCellList, nil
	case model.Flag:
		return wireCellFlag, nil
	default:
		return 0, fmt.Errorf("legacy: unknown cell shape %v", shape)
	}
}

func shapeFromCellType(t uint8) (model.CellShape, error) {
	switch t {
	case wireCellScalar:
		return model.Scalar, nil
	case wireCellList:
		return model.List, nil
	case wireCellFlag:
		return model.Flag, nil
	default:
		return 0, fmt.Errorf("legacy: unrecognized wire cell type %d", t)
	}
}
