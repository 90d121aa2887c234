// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bytesutil

import (
	"bytes"
)

// CutNul slices s around the first NUL byte, returning the bytes before it
// and the bytes after it.  ok is false if s holds no NUL, in which case l and
// r are nil.
//
// CutNul returns slices of the original slice s, not copies.
func CutNul(s []byte) (l []byte, r []byte, ok bool) {
	if i := bytes.IndexByte(s, 0); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return nil, nil, false
}
