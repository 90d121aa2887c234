// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package testdb builds small legacy GeoIP databases for tests and
// fixtures.  It is not a general purpose database writer: records are
// always encoded in the city layout, and region editions (whose segment
// boundary is a large fixed constant) are not supported.
package testdb

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/netip"
	"os"
	"path/filepath"
)

// Edition codes, as written to the trailer.
const (
	Country    = 1
	CityRev1   = 2
	RegionRev1 = 3
	ISP        = 4
	Org        = 5
	CityRev0   = 6
	RegionRev0 = 7
	ASNum      = 9

	legacyCodeOffset = 105
)

const (
	maxRawCoordinate = 3600000
	maxCombo         = 1<<24 - 1
)

var (
	errRegionEdition = errors.New("region editions are not supported")
	errOverlap       = errors.New("overlapping prefixes")
)

// Record is a record to encode.  Country is an index into the country
// tables.
type Record struct {
	Country   uint8
	Region    string
	City      string
	Postal    string
	Latitude  float64
	Longitude float64
	// Combo is written after the coordinates when HasCombo is set.
	Combo    uint32
	HasCombo bool
}

// EncodeRecord returns the on-disk form of r.
func EncodeRecord(r Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(r.Country)
	for _, s := range []string{r.Region, r.City, r.Postal} {
		if bytes.IndexByte([]byte(s), 0) >= 0 {
			return nil, fmt.Errorf("string %q contains NUL", s)
		}
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	for _, deg := range []float64{r.Latitude, r.Longitude} {
		raw := math.Round((deg + 180) * 10000)
		if raw < 0 || raw >= maxRawCoordinate {
			return nil, fmt.Errorf("coordinate %v out of range", deg)
		}
		putUint(&buf, uint32(raw), 3)
	}
	if r.HasCombo {
		if r.Combo > maxCombo {
			return nil, fmt.Errorf("combo %d doesn't fit in 3 bytes", r.Combo)
		}
		putUint(&buf, r.Combo, 3)
	}
	return buf.Bytes(), nil
}

func putUint(buf *bytes.Buffer, n uint32, width int) {
	for i := 0; i < width; i++ {
		buf.WriteByte(byte(n >> (8 * i)))
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithLegacyCode writes the edition code with the pre-2003 offset of 105.
func WithLegacyCode() Option {
	return func(b *Builder) {
		b.legacy = true
	}
}

// WithoutTrailer omits the trailer entirely, so readers fall back to the
// country edition defaults.
func WithoutTrailer() Option {
	return func(b *Builder) {
		b.noTrailer = true
	}
}

type linkKind uint8

const (
	linkNone linkKind = iota
	linkNode
	linkRecord
)

type link struct {
	kind linkKind
	idx  int
}

type node struct {
	kids [2]link
}

// Builder accumulates prefix → record mappings and encodes them as a
// database.
type Builder struct {
	edition   uint8
	legacy    bool
	noTrailer bool
	nodes     []node
	records   [][]byte
}

// New returns a Builder for the given edition code.
func New(edition uint8, opts ...Option) *Builder {
	b := &Builder{
		edition: edition,
		nodes:   []node{{}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) recordWidth() int {
	if b.noTrailer {
		return 3
	}
	switch b.edition {
	case Org, ISP:
		return 4
	default:
		return 3
	}
}

// trailerSegments reports whether the segment count is stored in the
// trailer.  When it isn't, readers use a segment count of zero and every
// child of the root is a terminal.
func (b *Builder) trailerSegments() bool {
	if b.noTrailer {
		return false
	}
	switch b.edition {
	case CityRev0, CityRev1, Org, ISP, ASNum:
		return true
	default:
		return false
	}
}

// Add maps every address in prefix (like "10.0.0.0/8") to rec.
func (b *Builder) Add(prefix string, rec Record) error {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return fmt.Errorf("netip.ParsePrefix: %w", err)
	}
	if !p.Addr().Is4() {
		return fmt.Errorf("prefix %s is not IPv4", p)
	}
	if p.Bits() == 0 {
		return fmt.Errorf("prefix %s: zero-length prefixes not supported", p)
	}
	encoded, err := EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("EncodeRecord: %w", err)
	}

	p = p.Masked()
	a := p.Addr().As4()
	ipnum := uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])

	cur := 0
	for i := 0; i < p.Bits(); i++ {
		bit := (ipnum >> uint(31-i)) & 1
		l := b.nodes[cur].kids[bit]
		if i == p.Bits()-1 {
			if l.kind != linkNone {
				return fmt.Errorf("%w: %s", errOverlap, p)
			}
			b.nodes[cur].kids[bit] = link{kind: linkRecord, idx: len(b.records)}
			b.records = append(b.records, encoded)
			return nil
		}
		switch l.kind {
		case linkRecord:
			return fmt.Errorf("%w: %s", errOverlap, p)
		case linkNone:
			l = link{kind: linkNode, idx: len(b.nodes)}
			b.nodes[cur].kids[bit] = l
			b.nodes = append(b.nodes, node{})
		}
		cur = l.idx
	}
	return nil
}

// Bytes encodes the database.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the encoded database to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	if b.edition == RegionRev0 || b.edition == RegionRev1 {
		return 0, errRegionEdition
	}
	width := b.recordWidth()
	n := len(b.nodes)
	var segments int
	if b.trailerSegments() {
		segments = n
	} else if n > 1 {
		return 0, fmt.Errorf("edition %d without trailer segments only supports /1 prefixes", b.edition)
	}

	// the record region starts with a pad byte: a record at relative
	// offset 0 would be indistinguishable from "no record"
	recordOffs := make([]int, len(b.records))
	off := 1
	for i, r := range b.records {
		recordOffs[i] = off
		off += len(r)
	}
	// terminal = base + record offset, which readers turn back into
	// terminal + (2*width-1)*segments = 2*width*n + record offset
	base := 2*width*n - (2*width-1)*segments
	maxTerminal := 1<<(8*width) - 1

	bw := bufio.NewWriter(w)
	cw := &countingWriter{w: bw}
	var scratch bytes.Buffer
	for _, nd := range b.nodes {
		for _, l := range nd.kids {
			var v int
			switch l.kind {
			case linkNone:
				v = segments
			case linkNode:
				v = l.idx
			case linkRecord:
				v = base + recordOffs[l.idx]
			}
			if v > maxTerminal {
				return cw.n, fmt.Errorf("trie value %d doesn't fit in %d bytes", v, width)
			}
			scratch.Reset()
			putUint(&scratch, uint32(v), width)
			if _, err := cw.Write(scratch.Bytes()); err != nil {
				return cw.n, err
			}
		}
	}

	if _, err := cw.Write([]byte{0}); err != nil {
		return cw.n, err
	}
	for _, r := range b.records {
		if _, err := cw.Write(r); err != nil {
			return cw.n, err
		}
	}

	if !b.noTrailer {
		code := b.edition
		if b.legacy {
			code += legacyCodeOffset
		}
		scratch.Reset()
		scratch.Write([]byte{0xff, 0xff, 0xff, code})
		if b.trailerSegments() {
			putUint(&scratch, uint32(segments), 3)
		}
		if _, err := cw.Write(scratch.Bytes()); err != nil {
			return cw.n, err
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("bufio.Flush: %w", err)
	}
	return cw.n, nil
}

// WriteFile writes the database to path via a temporary file and an
// atomic rename, leaving the result read-only.
func (b *Builder) WriteFile(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "geoip-testdb.*.dat")
	if err != nil {
		return fmt.Errorf("CreateTemp failed (may need permissions for dir %q): %w", dir, err)
	}
	if _, err := b.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("WriteTo: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Close: %w", err)
	}
	if err := os.Chmod(f.Name(), 0444); err != nil {
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
