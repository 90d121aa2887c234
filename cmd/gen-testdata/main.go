// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata writes a small city (rev1) database, suitable for trying
// out the geoip package without a commercial database.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/bpowers/geoip"
	"github.com/bpowers/geoip/internal/testdb"
)

type sample struct {
	prefix  string
	country string
	region  string
	city    string
	postal  string
	lat     float64
	lon     float64
	// dma*1000 + area, US only
	combo uint32
}

var samples = []sample{
	{"8.8.8.0/24", "US", "CA", "Mountain View", "94043", 37.386, -122.0838, 807650},
	{"4.2.2.0/24", "US", "CO", "Broomfield", "80021", 39.8854, -105.1139, 751303},
	{"24.24.24.0/24", "US", "NY", "Syracuse", "13202", 43.0481, -76.1474, 555315},
	{"81.2.69.0/24", "GB", "H9", "London", "", 51.5142, -0.0931, 0},
	{"85.214.0.0/15", "DE", "16", "Berlin", "10178", 52.5167, 13.4, 0},
	{"133.242.0.0/16", "JP", "40", "Tokyo", "", 35.685, 139.7514, 0},
	{"200.160.0.0/20", "BR", "27", "São Paulo", "", -23.5475, -46.6361, 0},
	{"1.0.0.0/24", "AU", "", "", "", -27, 133, 0},
}

func main() {
	out := flag.String("out", "testdata.dat", "path to write the database to")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := generate(*out); err != nil {
		logger.Error("generating database", "path", *out, "err", err)
		os.Exit(1)
	}
	logger.Info("wrote database", "path", *out, "records", len(samples))
}

func generate(path string) error {
	b := testdb.New(testdb.CityRev1)
	for _, s := range samples {
		idx, ok := geoip.CountryIndex(s.country)
		if !ok {
			return fmt.Errorf("unknown country %q", s.country)
		}
		rec := testdb.Record{
			Country:   idx,
			Region:    s.region,
			City:      s.city,
			Postal:    s.postal,
			Latitude:  s.lat,
			Longitude: s.lon,
			Combo:     s.combo,
			HasCombo:  s.country == "US",
		}
		if err := b.Add(s.prefix, rec); err != nil {
			return fmt.Errorf("b.Add(%s): %w", s.prefix, err)
		}
	}
	if err := b.WriteFile(path); err != nil {
		return fmt.Errorf("b.WriteFile: %w", err)
	}

	// read it back as a sanity check
	db, err := geoip.Open(path)
	if err != nil {
		return fmt.Errorf("geoip.Open: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if _, ok, err := db.Lookup("8.8.8.8"); err != nil || !ok {
		return fmt.Errorf("db.Lookup(8.8.8.8): ok=%t err=%v", ok, err)
	}
	return nil
}
