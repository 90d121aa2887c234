// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package geoip looks up IPv4 addresses in legacy GeoIP (.dat) databases.
// The database is memory-mapped read-only and never copied; lookups walk
// the file's bytes directly and are safe to run concurrently.
//
// A database file generally looks like:
//
//	┌───────────────────┐
//	│ binary trie       │ segments × 2 children, each 3 or 4 bytes
//	│                   │
//	├───────────────────┤
//	│ records           │ variable length, see below
//	│                   │
//	├───────────────────┤
//	│ FF FF FF          │ trailer delimiter
//	│ edition           │ 1 byte
//	│ segments          │ 3 bytes, city/org/isp/asnum editions only
//	└───────────────────┘
//
// The trie has one level per address bit, most significant first.  A child
// value below the segment count is the index of the next node; any other
// value is a terminal.  A terminal equal to the segment count means there
// is no record for the address, and anything larger points into the record
// region.
//
// Records look like:
//
//	┌─────────┬────────┬──────┬────────┬───────────┬───────────┬───────────┐
//	│ country │ region │ city │ postal │ latitude  │ longitude │ dma+area  │
//	│ 1 byte  │ NUL-terminated strings │ 3 bytes   │ 3 bytes   │ 3 bytes   │
//	└─────────┴────────┴──────┴────────┴───────────┴───────────┴───────────┘
//
// Coordinates are stored as (degrees+180)*10000.  The combined DMA and area
// code is only present for US records in city (rev1) databases.
//
// Typical use:
//
//	db, err := geoip.Open("GeoLiteCity.dat")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	rec, ok, err := db.Lookup("8.8.8.8")
package geoip
