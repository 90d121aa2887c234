// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap provides a read-only view of a file's contents, backed by
// a shared memory mapping where the platform supports one.
package mmap

import (
	"errors"
	"sync/atomic"
)

// ErrEmptyFile is returned when mapping a zero-length file.
var ErrEmptyFile = errors.New("mmap: empty file")

// ReaderAt is a read-only view of a file.  The slice returned by Data must
// never be written to, and must not be used after Close.
type ReaderAt struct {
	data   []byte
	closed atomic.Bool
}

// Data returns the mapped bytes.
func (r *ReaderAt) Data() []byte {
	return r.data
}

// Len returns the length of the mapped region.
func (r *ReaderAt) Len() int {
	return len(r.data)
}

// Close releases the mapping.  Only the first call does any work; later
// calls return nil.
func (r *ReaderAt) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	data := r.data
	r.data = nil
	return release(data)
}
