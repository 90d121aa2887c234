// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"sync/atomic"

	farm "github.com/dgryski/go-farm"

	"github.com/bpowers/geoip/internal/mmap"
)

// Database is an open legacy GeoIP database.  It is safe for concurrent
// lookups; Close must not be called while lookups are in flight.
type Database struct {
	mmap    *mmap.ReaderAt
	data    []byte
	md      Metadata
	charset Charset
	closed  atomic.Bool
}

// Open maps the database at path read-only and reads its trailer.  It is
// meant to be called once at startup.
func Open(path string, opts ...Option) (*Database, error) {
	o := newOptions(opts)

	m, err := mmap.Open(path)
	if err != nil {
		var kind error
		switch {
		case errors.Is(err, fs.ErrNotExist):
			kind = ErrFileNotFound
		case errors.Is(err, fs.ErrPermission):
			kind = ErrPermissionDenied
		default:
			kind = ErrMapFailed
		}
		return nil, fmt.Errorf("geoip.Open(%s): %w: %w", path, kind, err)
	}

	db := newDatabase(m.Data(), o)
	db.mmap = m
	db.logOpen(path, o.logger)
	return db, nil
}

// FromBytes returns a Database reading from b, which must not be modified
// while the Database is in use.  Close on the result releases nothing.
func FromBytes(b []byte, opts ...Option) (*Database, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("geoip.FromBytes: %w: empty buffer", ErrMapFailed)
	}
	o := newOptions(opts)
	db := newDatabase(b, o)
	db.logOpen("", o.logger)
	return db, nil
}

func newDatabase(data []byte, o options) *Database {
	return &Database{
		data:    data,
		md:      readMetadata(data),
		charset: o.charset,
	}
}

func (db *Database) logOpen(path string, logger *slog.Logger) {
	md := db.md
	if md.Fallback {
		logger.Warn("no database trailer found, assuming country edition",
			"path", path,
			"size", md.Size)
	}
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	logger.Debug("opened database",
		"path", path,
		"edition", md.Edition.String(),
		"record_width", md.RecordWidth,
		"segments", md.Segments,
		"size", md.Size,
		"fingerprint", fmt.Sprintf("%016x", db.Fingerprint()))
}

// Metadata returns what was read from the database's trailer.
func (db *Database) Metadata() Metadata {
	return db.md
}

// Fingerprint returns a 64-bit hash of the database contents, useful for
// telling database builds apart.  It reads the whole file.
func (db *Database) Fingerprint() uint64 {
	if db.closed.Load() {
		return 0
	}
	return farm.Fingerprint64(db.data)
}

// Lookup finds the record for a dotted-quad IPv4 address.  ok is false,
// with a nil error, when the database has no record for the address.
func (db *Database) Lookup(ip string) (rec Record, ok bool, err error) {
	ipnum, err := ParseIPv4(ip)
	if err != nil {
		return Record{}, false, err
	}
	return db.lookup(ipnum)
}

// LookupAddr is like Lookup, for an already-parsed address.  IPv4-mapped
// IPv6 addresses are accepted; other IPv6 addresses are not.
func (db *Database) LookupAddr(addr netip.Addr) (rec Record, ok bool, err error) {
	ipnum, err := AddrToUint32(addr)
	if err != nil {
		return Record{}, false, err
	}
	return db.lookup(ipnum)
}

func (db *Database) lookup(ipnum uint32) (Record, bool, error) {
	if db.closed.Load() {
		return Record{}, false, ErrClosed
	}
	t, err := seekRecord(db.data, db.md, ipnum)
	if err != nil {
		return Record{}, false, err
	}
	return decodeRecord(db.data, db.md, t, db.charset)
}

// String describes the database without including any of its contents.
func (db *Database) String() string {
	md := db.md
	s := fmt.Sprintf("geoip.Database{edition=%s width=%d segments=%d size=%d",
		md.Edition, md.RecordWidth, md.Segments, md.Size)
	if db.closed.Load() {
		s += " closed"
	}
	return s + "}"
}

// GoString keeps %#v from printing the mapped bytes.
func (db *Database) GoString() string {
	return db.String()
}

// Close releases the mapping.  Only the first call does any work; later
// calls return nil.  Lookups after Close return ErrClosed.
func (db *Database) Close() error {
	if db.closed.Swap(true) {
		return nil
	}
	db.data = nil
	if db.mmap == nil {
		return nil
	}
	if err := db.mmap.Close(); err != nil {
		return fmt.Errorf("mmap.Close: %w", err)
	}
	return nil
}
