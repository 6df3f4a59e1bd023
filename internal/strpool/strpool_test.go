// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package strpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xb-tools/bdat/internal/bio"
	"github.com/xb-tools/bdat/internal/model"
)

func TestBuilderDedupesRepeats(t *testing.T) {
	b := NewBuilder(false)
	off1 := b.Intern("HP")
	off2 := b.Intern("MP")
	off3 := b.Intern("HP")
	require.Equal(t, off1, off3)
	require.NotEqual(t, off1, off2)
}

func TestBuilderHashedReservesLeadingByte(t *testing.T) {
	b := NewBuilder(true)
	require.Equal(t, 1, b.Len())
	off := b.Intern("DebugLabel")
	require.Equal(t, 1, off)
}

func TestPoolRoundTrip(t *testing.T) {
	b := NewBuilder(false)
	b.Intern("Shulk")
	off := b.Intern("Reyn")

	cur := bio.NewCursor(b.Bytes(), model.LittleEndian)
	p := NewPool(cur, 0, int64(b.Len()))

	s, err := p.Get(0)
	require.NoError(t, err)
	require.Equal(t, "Shulk", s)

	s, err = p.Get(int64(off))
	require.NoError(t, err)
	require.Equal(t, "Reyn", s)
}

func TestPoolContains(t *testing.T) {
	p := NewPool(nil, 10, 5)
	require.True(t, p.Contains(10))
	require.True(t, p.Contains(14))
	require.False(t, p.Contains(15))
	require.False(t, p.Contains(9))
}

func TestIsHashedMarker(t *testing.T) {
	require.True(t, IsHashedMarker([]byte{0, 1, 2}, 0))
	require.False(t, IsHashedMarker([]byte{1, 2, 3}, 0))
	require.False(t, IsHashedMarker([]byte{1, 2, 3}, 5))
}
