// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package testdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRecord(t *testing.T) {
	b, err := EncodeRecord(Record{
		Country:   3,
		City:      "x",
		Latitude:  0,
		Longitude: -180,
		Combo:     0x010203,
		HasCombo:  true,
	})
	require.NoError(t, err)
	// country, empty region, "x" city, empty postal, then latitude
	// 1800000, longitude 0 and the combo
	expected := []byte{
		3,
		0,
		'x', 0,
		0,
		0x40, 0x77, 0x1b,
		0, 0, 0,
		3, 2, 1,
	}
	require.Equal(t, expected, b)

	_, err = EncodeRecord(Record{Latitude: 180})
	require.Error(t, err)
	_, err = EncodeRecord(Record{City: "a\x00b"})
	require.Error(t, err)
}

func TestBuilderLayout(t *testing.T) {
	b := New(CityRev1)
	require.NoError(t, b.Add("128.0.0.0/1", Record{Country: 1}))
	data, err := b.Bytes()
	require.NoError(t, err)

	// one node, so one segment: left child is "no record" (== segments),
	// right child is the first record just past the pad byte
	require.Equal(t, []byte{1, 0, 0, 2, 0, 0}, data[:6])
	require.Equal(t, byte(0), data[6])
	require.Equal(t, []byte{0xff, 0xff, 0xff, CityRev1, 1, 0, 0}, data[len(data)-7:])
}

func TestBuilderErrors(t *testing.T) {
	b := New(CityRev1)
	require.NoError(t, b.Add("10.0.0.0/8", Record{}))
	require.ErrorIs(t, b.Add("10.1.0.0/16", Record{}), errOverlap)
	require.ErrorIs(t, b.Add("10.0.0.0/8", Record{}), errOverlap)
	require.NoError(t, b.Add("128.0.0.0/1", Record{}))
	require.Error(t, b.Add("::/1", Record{}))
	require.Error(t, b.Add("0.0.0.0/0", Record{}))
	require.Error(t, b.Add("nonsense", Record{}))

	_, err := New(RegionRev0).Bytes()
	require.ErrorIs(t, err, errRegionEdition)

	c := New(Country)
	require.NoError(t, c.Add("10.0.0.0/8", Record{}))
	_, err = c.Bytes()
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	b := New(Country, WithLegacyCode())
	require.NoError(t, b.Add("0.0.0.0/1", Record{Country: 5}))
	expected, err := b.Bytes()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "country.dat")
	require.NoError(t, b.WriteFile(path))

	actual, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
	require.Equal(t, []byte{0xff, 0xff, 0xff, Country + legacyCodeOffset}, actual[len(actual)-4:])

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0444), fi.Mode().Perm())
}
