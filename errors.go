// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"errors"
)

// Errors returned by Open.  They are wrapped together with the underlying
// OS error, so test for them with errors.Is.
var (
	ErrFileNotFound     = errors.New("geoip: database file not found")
	ErrPermissionDenied = errors.New("geoip: permission denied")
	ErrMapFailed        = errors.New("geoip: mapping database failed")
)

// Errors returned by lookups.  A lookup that finds no record is not an
// error: Lookup reports it with ok == false.
var (
	ErrInvalidAddress  = errors.New("geoip: invalid IPv4 address")
	ErrCorruptDatabase = errors.New("geoip: corrupt database")
	ErrClosed          = errors.New("geoip: database closed")
)
