// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bytesutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutNul(t *testing.T) {
	for _, testcase := range []string{
		"",
		"a\x00b",
		"\x00a\x00b\x00",
		"a\x00b\x00",
		"no terminator",
	} {
		input := []byte(testcase)
		expected := bytes.SplitN(input, []byte{0}, 2)
		var actualL, actualR []byte
		var ok bool
		allocs := testing.AllocsPerRun(1, func() {
			actualL, actualR, ok = CutNul(input)
		})
		require.Zero(t, allocs)
		require.True(t, len(expected) <= 2)
		if len(expected) < 2 {
			require.False(t, ok)
			require.Nil(t, actualL)
			require.Nil(t, actualR)
		} else {
			require.True(t, ok)
			require.Equal(t, expected[0], actualL)
			require.Equal(t, expected[1], actualR)
		}
	}
}
