// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xb-tools/bdat/internal/model"
)

func sampleTable() *model.Table {
	return &model.Table{
		Name:   model.StringLabel("BTL_EN_Data"),
		BaseID: 1,
		Schema: model.Schema{
			{Name: model.StringLabel("Name"), Shape: model.Scalar, Type: model.String, Offset: 0, Arity: 1},
			{Name: model.StringLabel("HP"), Shape: model.Scalar, Type: model.UShort, Offset: 4, Arity: 1},
			{Name: model.StringLabel("Level"), Shape: model.Scalar, Type: model.UByte, Offset: 6, Arity: 1},
			{Name: model.StringLabel("IsBoss"), Shape: model.Flag, Type: model.UByte, FlagParent: 2, FlagShift: 0, FlagMask: 1},
		},
		Rows: []model.Row{
			{ID: 1, Cells: []model.Cell{
				{Values: []model.Value{model.NewString("Metal Face")}},
				{Values: []model.Value{model.NewUShort(5000)}},
				{Values: []model.Value{model.NewUByte(99)}},
				{Values: []model.Value{model.NewUInt(1)}},
			}},
			{ID: 2, Cells: []model.Cell{
				{Values: []model.Value{model.NewString("Xord")}},
				{Values: []model.Value{model.NewUShort(2500)}},
				{Values: []model.Value{model.NewUByte(30)}},
				{Values: []model.Value{model.NewUInt(0)}},
			}},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, dialect := range []model.Dialect{
		model.DialectLegacyWii,
		model.DialectLegacy3DS,
		model.DialectLegacyXC2,
	} {
		endi := dialect.DefaultEndianness()
		tbl := sampleTable()
		buf, err := Encode(tbl, dialect, endi, false)
		require.NoError(t, err)

		got, err := Decode(buf, dialect, endi)
		require.NoError(t, err)
		require.True(t, got.Name.Equal(tbl.Name))
		require.Len(t, got.Rows, 2)

		row, err := got.RowByID(1)
		require.NoError(t, err)
		v, err := got.Get(row, model.StringLabel("Name"))
		require.NoError(t, err)
		single, err := v.Single()
		require.NoError(t, err)
		s, err := single.AsString()
		require.NoError(t, err)
		require.Equal(t, "Metal Face", s)

		flagCell, err := got.Get(row, model.StringLabel("IsBoss"))
		require.NoError(t, err)
		flagVal, err := flagCell.Single()
		require.NoError(t, err)
		u, err := flagVal.UInt()
		require.NoError(t, err)
		require.EqualValues(t, 1, u)
	}
}

func TestScrambledRoundTrip(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.DialectLegacyWii, model.BigEndian, true)
	require.NoError(t, err)

	got, err := Decode(buf, model.DialectLegacyWii, model.BigEndian)
	require.NoError(t, err)
	require.True(t, got.Name.Equal(tbl.Name))
	require.Len(t, got.Rows, 2)
}

func TestFixedPointFloatRoundTripsThroughXCX(t *testing.T) {
	tbl := &model.Table{
		Name:   model.StringLabel("BTL_Float"),
		BaseID: 0,
		Schema: model.Schema{
			{Name: model.StringLabel("Multiplier"), Shape: model.Scalar, Type: model.Float, Offset: 0, Arity: 1},
		},
		Rows: []model.Row{
			{ID: 0, Cells: []model.Cell{{Values: []model.Value{model.NewFloat(2.5)}}}},
		},
	}
	buf, err := Encode(tbl, model.DialectLegacyXCX, model.BigEndian, false)
	require.NoError(t, err)

	got, err := Decode(buf, model.DialectLegacyXCX, model.BigEndian)
	require.NoError(t, err)
	row, err := got.RowByID(0)
	require.NoError(t, err)
	cell, err := got.Get(row, model.StringLabel("Multiplier"))
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	f, err := v.Float32()
	require.NoError(t, err)
	require.Equal(t, float32(2.5), f)
}

func TestProbeDetectsDialectAndEndianness(t *testing.T) {
	// Probe only tries Wii/XCX/XC2 against the plain BDAT magic; 3DS is
	// reached solely through the TADB magic branch, so it's excluded here.
	tbl := sampleTable()
	for _, dialect := range []model.Dialect{model.DialectLegacyWii, model.DialectLegacyXC2} {
		endi := dialect.DefaultEndianness()
		buf, err := Encode(tbl, dialect, endi, false)
		require.NoError(t, err)

		gotDialect, gotEndi, ok := Probe(buf)
		require.True(t, ok)
		require.Equal(t, endi, gotEndi)
		require.Equal(t, dialect, gotDialect)
	}
}

func TestParseSchemaRejectsScrambled(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.DialectLegacyWii, model.BigEndian, true)
	require.NoError(t, err)

	_, err = ParseSchema(buf, model.DialectLegacyWii, model.BigEndian)
	require.ErrorIs(t, err, model.ErrWouldRequireCopy)
}

func TestParseSchemaAndDecodeCellMatchDecode(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.DialectLegacyXC2, model.LittleEndian, false)
	require.NoError(t, err)

	info, err := ParseSchema(buf, model.DialectLegacyXC2, model.LittleEndian)
	require.NoError(t, err)
	require.True(t, info.Name.Equal(tbl.Name))
	require.Equal(t, tbl.BaseID, info.BaseID)

	rowOff := info.OffsetRows + int64(2-info.BaseID)*int64(info.RowStride)
	cell, err := DecodeCell(buf, model.LittleEndian, info.Pool, info.Schema, model.DialectLegacyXC2, 3, rowOff)
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	u, err := v.UInt()
	require.NoError(t, err)
	require.EqualValues(t, 0, u) // row id 2's IsBoss flag
}
