// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package bytesutil holds small allocation-free helpers for picking apart
// byte slices.
package bytesutil

// Uint24 decodes a 3-byte little-endian unsigned integer.
func Uint24(b []byte) uint32 {
	// bounds check elimination
	_ = b[2]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// Uint decodes a little-endian unsigned integer of len(b) bytes.  len(b)
// must be at most 4.
func Uint(b []byte) uint32 {
	if len(b) > 4 {
		panic("bytesutil.Uint: more than 4 bytes")
	}
	var n uint32
	for i, c := range b {
		n |= uint32(c) << (8 * i)
	}
	return n
}
