// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

//go:build !unix

package mmap

import (
	"os"
)

// Open reads the file at path into memory.  Platforms without mmap support
// get the same read-only contract, at the cost of a heap copy.
func Open(path string) (*ReaderAt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return &ReaderAt{data: data}, nil
}

func release([]byte) error {
	return nil
}
