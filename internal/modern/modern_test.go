// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package modern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xb-tools/bdat/internal/model"
)

func sampleTable() *model.Table {
	return &model.Table{
		Name:   model.StringLabel("FLD_NpcResource"),
		BaseID: 1,
		Schema: model.Schema{
			{Name: model.StringLabel("Name"), Shape: model.Scalar, Type: model.String, Offset: 0, Arity: 1},
			{Name: model.StringLabel("HP"), Shape: model.Scalar, Type: model.UShort, Offset: 4, Arity: 1},
		},
		Rows: []model.Row{
			{ID: 4, Cells: []model.Cell{
				{Values: []model.Value{model.NewString("Noah")}},
				{Values: []model.Value{model.NewUShort(999)}},
			}},
			{ID: 3, Cells: []model.Cell{
				{Values: []model.Value{model.NewString("Mio")}},
				{Values: []model.Value{model.NewUShort(888)}},
			}},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.LittleEndian, true)
	require.NoError(t, err)

	got, err := Decode(buf, model.LittleEndian)
	require.NoError(t, err)
	require.True(t, got.Name.Equal(tbl.Name))
	require.Equal(t, 3, got.BaseID) // min row id, regardless of encode order
	require.Len(t, got.Rows, 2)

	row, err := got.RowByID(4)
	require.NoError(t, err)
	v, err := got.Get(row, model.StringLabel("Name"))
	require.NoError(t, err)
	single, err := v.Single()
	require.NoError(t, err)
	s, err := single.AsString()
	require.NoError(t, err)
	require.Equal(t, "Noah", s)
}

func TestEncodeDecodeGapInRowMapFails(t *testing.T) {
	tbl := sampleTable()
	tbl.Rows[0].ID = 5 // id 3 and 5 leave a gap at 4
	buf, err := Encode(tbl, model.LittleEndian, true)
	require.NoError(t, err)

	_, err = Decode(buf, model.LittleEndian)
	require.ErrorIs(t, err, model.ErrInvalidFormat)
}

func TestEncodeHashedNamesOmitsPlainText(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.LittleEndian, false)
	require.NoError(t, err)

	got, err := Decode(buf, model.LittleEndian)
	require.NoError(t, err)
	require.True(t, got.Schema[0].Name.IsHash())
	require.Equal(t, model.MurmurLabel("Name"), got.Schema[0].Name.Hash())
}

func TestEmptyTableRoundTrip(t *testing.T) {
	tbl := &model.Table{
		Name:   model.StringLabel("EMPTY"),
		BaseID: 0,
		Schema: model.Schema{
			{Name: model.StringLabel("V"), Shape: model.Scalar, Type: model.UInt, Offset: 0, Arity: 1},
		},
	}
	buf, err := Encode(tbl, model.LittleEndian, true)
	require.NoError(t, err)

	got, err := Decode(buf, model.LittleEndian)
	require.NoError(t, err)
	require.True(t, got.Name.Equal(tbl.Name))
	require.Empty(t, got.Rows)
}

func TestProbeDetectsEndianness(t *testing.T) {
	tbl := sampleTable()
	for _, endi := range []model.Endianness{model.LittleEndian, model.BigEndian} {
		buf, err := Encode(tbl, endi, true)
		require.NoError(t, err)

		got, ok := Probe(buf)
		require.True(t, ok)
		require.Equal(t, endi, got)
	}
}

func TestParseSchemaMatchesDecode(t *testing.T) {
	tbl := sampleTable()
	buf, err := Encode(tbl, model.LittleEndian, true)
	require.NoError(t, err)

	info, err := ParseSchema(buf, model.LittleEndian)
	require.NoError(t, err)
	require.True(t, info.Name.Equal(tbl.Name))
	require.Equal(t, tbl.BaseID, info.BaseID)
	require.Equal(t, len(tbl.Rows), info.RowCount)

	off, ok := info.RowMap[4]
	require.True(t, ok)
	cell, err := DecodeCell(buf, model.LittleEndian, info.Pool, info.Schema, 0, off)
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "Noah", s)
}
