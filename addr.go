// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// ParseIPv4 converts a dotted-quad address like "1.2.3.4" to its 32-bit
// big-endian integer value.  Exactly four parts are required, each made of
// decimal digits only and no greater than 255.
func ParseIPv4(s string) (uint32, error) {
	var ipnum uint32
	rest := s
	for i := 0; i < 4; i++ {
		part, tail, found := strings.Cut(rest, ".")
		if found == (i == 3) {
			return 0, fmt.Errorf("%w: %q: want 4 dot-separated parts", ErrInvalidAddress, s)
		}
		octet, err := parseOctet(part)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %s", ErrInvalidAddress, s, err)
		}
		ipnum = ipnum<<8 | uint32(octet)
		rest = tail
	}
	return ipnum, nil
}

func parseOctet(part string) (uint8, error) {
	if part == "" {
		return 0, fmt.Errorf("empty part")
	}
	for i := 0; i < len(part); i++ {
		if part[i] < '0' || part[i] > '9' {
			return 0, fmt.Errorf("part %q is not a decimal number", part)
		}
	}
	n, err := strconv.ParseUint(part, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("part %q out of range", part)
	}
	return uint8(n), nil
}

// AddrToUint32 converts an IPv4 (or IPv4-mapped IPv6) address to its 32-bit
// integer value.
func AddrToUint32(addr netip.Addr) (uint32, error) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return 0, fmt.Errorf("%w: %s is not an IPv4 address", ErrInvalidAddress, addr)
	}
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
