// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedPointRoundTrip(t *testing.T) {
	for _, v := range []float32{0, 1, -1, 3.5, -12.25, 100.75} {
		raw := Float32ToFixed(v)
		require.Equal(t, v, FixedToFloat32(raw))
	}
}

func TestFixedPointRawValues(t *testing.T) {
	require.EqualValues(t, 4096, Float32ToFixed(1.0))
	require.EqualValues(t, 2048, Float32ToFixed(0.5))
	require.Equal(t, float32(1.0), FixedToFloat32(4096))
}
