// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"io"
	"log/slog"
)

// Charset selects how string fields in a record are decoded.
type Charset int

const (
	// CharsetUTF8 decodes strings as UTF-8, replacing invalid sequences
	// with U+FFFD.
	CharsetUTF8 Charset = iota
	// CharsetISO88591 decodes strings as Latin-1, the encoding most
	// legacy city databases were published in.
	CharsetISO88591
)

// Option configures a Database.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	charset Charset
}

func newOptions(opts []Option) options {
	var o options
	o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets an optional logger for reporting what was found when the
// database was opened.  If not provided, no logging output will be produced.
// Lookups never log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCharset sets the encoding used for region, city and postal code
// strings.  The default is CharsetUTF8.
func WithCharset(c Charset) Option {
	return func(o *options) {
		o.charset = c
	}
}
