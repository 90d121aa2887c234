// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"fmt"

	"github.com/bpowers/geoip/internal/bytesutil"
)

const maxDepth = 32

// seekRecord walks the binary trie stored at the start of data, one level
// per bit of ipnum from the most significant down.  Each node is a pair of
// little-endian children RecordWidth bytes wide; a child below
// md.Segments is the index of the next node, anything else is a terminal
// value and is returned.
func seekRecord(data []byte, md Metadata, ipnum uint32) (uint32, error) {
	width := uint64(md.RecordWidth)
	nodeSize := 2 * width
	dataLen := uint64(len(data))

	var offset uint32
	for depth := maxDepth - 1; depth >= 0; depth-- {
		off := nodeSize * uint64(offset)
		if off+nodeSize > dataLen {
			return 0, fmt.Errorf("%w: trie node %d at offset %d beyond bounds (%d)", ErrCorruptDatabase, offset, off, dataLen)
		}
		node := data[off : off+nodeSize]

		var child uint32
		if ipnum&(1<<uint(depth)) != 0 {
			child = bytesutil.Uint(node[width:])
		} else {
			child = bytesutil.Uint(node[:width])
		}
		if child >= md.Segments {
			return child, nil
		}
		offset = child
	}

	return 0, fmt.Errorf("%w: no terminal after %d trie levels", ErrCorruptDatabase, maxDepth)
}
