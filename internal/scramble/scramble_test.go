// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package scramble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, key := range []uint16{0, 1, 0xBEEF, 0xFFFF} {
		original := []byte("some legacy column names and hash table bytes!!!")
		data := append([]byte(nil), original...)

		require.NoError(t, Encrypt(data, key))
		require.NotEqual(t, original, data)

		require.NoError(t, Decrypt(data, key))
		require.Equal(t, original, data)
	}
}

func TestOddLengthRejected(t *testing.T) {
	require.Error(t, Encrypt([]byte("odd"), 1))
	require.Error(t, Decrypt([]byte("odd"), 1))
}

func TestEmptyRangeIsNoop(t *testing.T) {
	require.NoError(t, Encrypt(nil, 0x1234))
	require.NoError(t, Decrypt(nil, 0x1234))
}
