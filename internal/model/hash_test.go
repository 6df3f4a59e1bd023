// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMurmurLabelIsDeterministic(t *testing.T) {
	require.Equal(t, MurmurLabel("BTL_PC1"), MurmurLabel("BTL_PC1"))
	require.NotEqual(t, MurmurLabel("BTL_PC1"), MurmurLabel("BTL_PC2"))
}

func TestMurmurLabelEmptyString(t *testing.T) {
	require.Equal(t, MurmurLabel(""), MurmurLabel(""))
}

func TestLegacyNameHashEmptyIsZero(t *testing.T) {
	require.EqualValues(t, 0, LegacyNameHash(""))
}

func TestLegacyNameHashTruncatesAtEightBytes(t *testing.T) {
	require.Equal(t, LegacyNameHash("12345678"), LegacyNameHash("12345678ignored"))
}

func TestLegacyHashSlotWithinRange(t *testing.T) {
	const mod = 61
	for _, name := range []string{"Name", "HP", "BTL_EN1", ""} {
		slot := LegacyHashSlot(name, mod)
		require.Less(t, slot, uint32(mod))
	}
}

func TestLegacyHashSlotZeroModIsZero(t *testing.T) {
	require.EqualValues(t, 0, LegacyHashSlot("anything", 0))
}
