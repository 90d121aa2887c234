// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/bpowers/geoip/internal/bytesutil"
)

const (
	// upper bound on the encoded size of a single record
	fullRecordLength = 50

	coordinateScale  = 10000.0
	coordinateOffset = 180
	// raw coordinates at or above this decode outside [-180, 180)
	maxRawCoordinate = 2 * coordinateOffset * coordinateScale
)

// Record is the location found for an address.  String fields are empty
// when the database has no value for them.
type Record struct {
	CountryCode  string  `json:"country_code,omitempty"`
	CountryCode3 string  `json:"country_code3,omitempty"`
	CountryName  string  `json:"country_name,omitempty"`
	Region       string  `json:"region_name,omitempty"`
	City         string  `json:"city_name,omitempty"`
	PostalCode   string  `json:"postal_code,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	// DMACode and AreaCode are only set for US records in city (rev1)
	// databases, and are 0 otherwise.
	DMACode  int `json:"dma_code"`
	AreaCode int `json:"area_code"`
}

// recordReader consumes a record window front to back.  Every read is
// checked against the window, so a truncated or corrupt record turns into
// an error rather than a read of whatever follows it.
type recordReader struct {
	buf     []byte
	off     uint64
	charset Charset
}

func (r *recordReader) readByte() (uint8, error) {
	if len(r.buf) < 1 {
		return 0, fmt.Errorf("%w: record at %d truncated", ErrCorruptDatabase, r.off)
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b, nil
}

func (r *recordReader) uint24() (uint32, error) {
	if len(r.buf) < 3 {
		return 0, fmt.Errorf("%w: record at %d truncated", ErrCorruptDatabase, r.off)
	}
	n := bytesutil.Uint24(r.buf[:3])
	r.buf = r.buf[3:]
	return n, nil
}

func (r *recordReader) cstring() (string, error) {
	s, rest, ok := bytesutil.CutNul(r.buf)
	if !ok {
		return "", fmt.Errorf("%w: unterminated string in record at %d", ErrCorruptDatabase, r.off)
	}
	r.buf = rest
	if len(s) == 0 {
		return "", nil
	}
	return decodeString(s, r.charset)
}

func (r *recordReader) coordinate() (float64, error) {
	raw, err := r.uint24()
	if err != nil {
		return 0, err
	}
	if raw >= maxRawCoordinate {
		return 0, fmt.Errorf("%w: coordinate %d out of range in record at %d", ErrCorruptDatabase, raw, r.off)
	}
	return float64(raw)/coordinateScale - coordinateOffset, nil
}

func decodeString(b []byte, charset Charset) (string, error) {
	switch charset {
	case CharsetISO88591:
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("charmap.ISO8859_1: %w", err)
		}
		return string(s), nil
	default:
		return strings.ToValidUTF8(string(b), "\uFFFD"), nil
	}
}

// decodeRecord decodes the record that trie terminal t points at.  ok is
// false when t is the "no record" terminal.
func decodeRecord(data []byte, md Metadata, t uint32, charset Charset) (rec Record, ok bool, err error) {
	if t == md.Segments {
		return Record{}, false, nil
	}

	width := uint64(md.RecordWidth)
	off := uint64(t) + (2*width-1)*uint64(md.Segments)
	dataLen := uint64(len(data))
	if off >= dataLen {
		return Record{}, false, fmt.Errorf("%w: record off %d beyond bounds (%d)", ErrCorruptDatabase, off, dataLen)
	}
	end := off + fullRecordLength
	if end > dataLen {
		end = dataLen
	}

	r := recordReader{buf: data[off:end], off: off, charset: charset}

	idx, err := r.readByte()
	if err != nil {
		return Record{}, false, err
	}
	rec.CountryCode, rec.CountryCode3, rec.CountryName = countryAt(idx)

	if rec.Region, err = r.cstring(); err != nil {
		return Record{}, false, err
	}
	if rec.City, err = r.cstring(); err != nil {
		return Record{}, false, err
	}
	if rec.PostalCode, err = r.cstring(); err != nil {
		return Record{}, false, err
	}

	if rec.Latitude, err = r.coordinate(); err != nil {
		return Record{}, false, err
	}
	if rec.Longitude, err = r.coordinate(); err != nil {
		return Record{}, false, err
	}

	if md.Edition == EditionCityRev1 && rec.CountryCode == "US" {
		combo, err := r.uint24()
		if err != nil {
			return Record{}, false, err
		}
		rec.DMACode = int(combo / 1000)
		rec.AreaCode = int(combo % 1000)
	}

	return rec, true, nil
}
