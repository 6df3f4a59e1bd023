// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package legacy

// FixedToFloat32 converts the XCX dialect's 20.12 fixed-point
// representation (raw/4096.0) into a plain float32 (spec §3).
func FixedToFloat32(raw uint32) float32 {
	return float32(float64(int32(raw)) / 4096.0)
}

// Float32ToFixed is the inverse of FixedToFloat32.
func Float32ToFixed(v float32) uint32 {
	return uint32(int32(float64(v) * 4096.0))
}
