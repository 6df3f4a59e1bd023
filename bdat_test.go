// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bdat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTable(name string) *Table {
	return &Table{
		Name:   StringLabel(name),
		BaseID: 1,
		Schema: Schema{
			{Name: StringLabel("Name"), Shape: Scalar, Type: String, Arity: 1},
			{Name: StringLabel("HP"), Shape: Scalar, Type: UShort, Offset: 4, Arity: 1},
		},
		Rows: []Row{
			{ID: 1, Cells: []Cell{
				{Values: []Value{NewString("Shulk")}},
				{Values: []Value{NewUShort(300)}},
			}},
			{ID: 2, Cells: []Cell{
				{Values: []Value{NewString("Reyn")}},
				{Values: []Value{NewUShort(420)}},
			}},
		},
	}
}

func TestWriteFileModernRoundTrip(t *testing.T) {
	tbl := sampleTable("BTL_PC1")
	buf, err := WriteFile([]*Table{tbl}, DialectModern, LittleEndian)
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, DialectModern, f.Dialect)
	require.Equal(t, LittleEndian, f.Endianness)

	got, err := f.GetTable("BTL_PC1")
	require.NoError(t, err)
	require.True(t, got.Name.Equal(tbl.Name))
	require.Len(t, got.Rows, 2)

	row, err := got.RowByID(1)
	require.NoError(t, err)
	cell, err := got.Get(row, StringLabel("Name"))
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "Shulk", s)
}

func TestWriteFileLegacyRoundTrip(t *testing.T) {
	tbl := sampleTable("BTL_EN1")
	buf, err := WriteFile([]*Table{tbl}, DialectLegacyXC2, LittleEndian)
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)
	require.Equal(t, DialectLegacyXC2, f.Dialect)

	got, err := f.GetTable("BTL_EN1")
	require.NoError(t, err)
	require.True(t, got.Name.Equal(tbl.Name))

	row, err := got.RowByID(2)
	require.NoError(t, err)
	cell, err := got.Get(row, StringLabel("HP"))
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	hp, err := v.UShort()
	require.NoError(t, err)
	require.EqualValues(t, 420, hp)
}

func TestWriteFileLegacyScrambled(t *testing.T) {
	tbl := sampleTable("BTL_EN2")
	buf, err := WriteFile([]*Table{tbl}, DialectLegacyWii, BigEndian, WithScrambled(true))
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)

	_, err = f.MapTable("BTL_EN2")
	require.ErrorIs(t, err, ErrWouldRequireCopy)

	got, err := f.GetTable("BTL_EN2")
	require.NoError(t, err)
	require.Equal(t, 2, got.RowCount())
}

func TestMapTableZeroCopy(t *testing.T) {
	tbl := sampleTable("BTL_PC2")
	buf, err := WriteFile([]*Table{tbl}, DialectModern, LittleEndian)
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)

	mt, err := f.MapTable("BTL_PC2")
	require.NoError(t, err)
	require.Equal(t, 2, mt.RowCount())

	row, err := mt.Row(2)
	require.NoError(t, err)
	require.Equal(t, 2, row.ID())

	v, err := row.Value(StringLabel("Name"))
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "Reyn", s)

	_, err = mt.Row(99)
	require.ErrorIs(t, err, ErrNoSuchRow)
}

func TestWriteFileMultiTableContainer(t *testing.T) {
	a := sampleTable("BTL_PC1")
	b := sampleTable("BTL_PC2")
	buf, err := WriteFile([]*Table{a, b}, DialectModern, LittleEndian)
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)

	names, err := f.Tables()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"BTL_PC1", "BTL_PC2"}, names)
}

func TestWriteFileLegacySortsByName(t *testing.T) {
	z := sampleTable("ZZZ")
	a := sampleTable("AAA")
	buf, err := WriteFile([]*Table{z, a}, DialectLegacyXC2, LittleEndian)
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)
	names, err := f.Tables()
	require.NoError(t, err)
	require.Equal(t, []string{"AAA", "ZZZ"}, names)
}

func TestOpenUnrecognizedBuffer(t *testing.T) {
	_, err := Open([]byte("not a bdat file at all"))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestWriteFileNoTables(t *testing.T) {
	_, err := WriteFile(nil, DialectModern, LittleEndian)
	require.Error(t, err)
}

func TestWriteFileModernHashedNames(t *testing.T) {
	tbl := sampleTable("BTL_PC3")
	buf, err := WriteFile([]*Table{tbl}, DialectModern, LittleEndian, WithPlainNames(false))
	require.NoError(t, err)

	f, err := Open(buf)
	require.NoError(t, err)

	got, err := f.GetTable("BTL_PC3")
	require.NoError(t, err)
	require.True(t, got.Name.Equal(StringLabel("BTL_PC3")))

	row, err := got.RowByID(1)
	require.NoError(t, err)
	// Column labels round-trip as hashes, but IndexOf still resolves a
	// plain-text lookup against them by comparing hash values.
	cell, err := got.Get(row, StringLabel("Name"))
	require.NoError(t, err)
	v, err := cell.Single()
	require.NoError(t, err)
	s, err := v.AsString()
	require.NoError(t, err)
	require.Equal(t, "Shulk", s)
}
