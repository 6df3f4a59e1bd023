// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package model

import "math/bits"

const murmur3Seed = 0

// MurmurLabel hashes s the same way the modern dialect hashes column and
// table names into 32-bit symbol labels.
func MurmurLabel(s string) uint32 {
	return murmur3([]byte(s), murmur3Seed)
}

func murmur3(data []byte, seed uint32) uint32 {
	const c1 = 0xcc9e2d51
	const c2 = 0x1b873593

	h := seed
	n := len(data)
	chunks := n / 4
	for i := 0; i < chunks; i++ {
		k := uint32(data[i*4]) | uint32(data[i*4+1])<<8 | uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
		k *= c1
		k = bits.RotateLeft32(k, 15)
		k *= c2
		h ^= k
		h = bits.RotateLeft32(h, 13)
		h = h*5 + 0xe6546b64
	}

	tail := data[chunks*4:]
	if len(tail) > 0 {
		var buf [4]byte
		copy(buf[:], tail)
		k := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		k *= c1
		k = bits.RotateLeft32(k, 15)
		k *= c2
		h ^= k
	}

	h ^= uint32(n)
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return h
}

// LegacyNameHash reproduces the closed-addressing hash used by the legacy
// dialect's column-name hash table: the first character seeds the
// accumulator, then up to 7 more bytes are folded in with a *7+ch
// recurrence. An empty name hashes to 0.
func LegacyNameHash(name string) uint32 {
	if len(name) == 0 {
		return 0
	}
	h := uint32(name[0])
	end := len(name)
	if end > 8 {
		end = 8
	}
	for i := 1; i < end; i++ {
		h = h*7 + uint32(name[i])
	}
	return h
}

// LegacyHashSlot folds a name hash into a slot index for a hash table of
// hashMod slots.
func LegacyHashSlot(name string, hashMod uint32) uint32 {
	if hashMod == 0 {
		return 0
	}
	return LegacyNameHash(name) % hashMod
}
