// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package mmap

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data")
	contents := []byte("\x01\x02\x03\xff\xff\xff\x01")
	require.NoError(t, os.WriteFile(path, contents, 0444))

	r, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, len(contents), r.Len())
	require.Equal(t, contents, r.Data())

	require.NoError(t, r.Close())
	require.Nil(t, r.Data())
	// closing twice is a no-op
	require.NoError(t, r.Close())
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0444))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "doesn't exist"))
	require.Error(t, err)
	require.True(t, errors.Is(err, fs.ErrNotExist))
}
