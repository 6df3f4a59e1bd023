// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLabelBracketHex(t *testing.T) {
	l := ParseLabel("<DEADBEEF>", false)
	require.True(t, l.IsHash())
	require.EqualValues(t, 0xDEADBEEF, l.Hash())
	require.Equal(t, "<DEADBEEF>", l.String())
}

func TestParseLabelPlainText(t *testing.T) {
	l := ParseLabel("HP", false)
	require.False(t, l.IsHash())
	require.Equal(t, "HP", l.String())
}

func TestParseLabelForceHash(t *testing.T) {
	l := ParseLabel("HP", true)
	require.True(t, l.IsHash())
	require.Equal(t, MurmurLabel("HP"), l.Hash())
}

func TestLabelEqualCrossesStringAndHash(t *testing.T) {
	s := StringLabel("HP")
	h := HashLabel(MurmurLabel("HP"))
	require.True(t, s.Equal(h))
	require.True(t, h.Equal(s))
	require.False(t, s.Equal(HashLabel(MurmurLabel("HP") + 1)))
}

func TestLabelCompareHashesSortAfterStrings(t *testing.T) {
	s := StringLabel("ZZZ")
	h := HashLabel(0)
	require.Equal(t, -1, s.Compare(h))
	require.Equal(t, 1, h.Compare(s))
}

func TestLabelCompareStringsLexicographic(t *testing.T) {
	require.True(t, StringLabel("AAA").Compare(StringLabel("ZZZ")) < 0)
	require.Equal(t, 0, StringLabel("AAA").Compare(StringLabel("AAA")))
}
