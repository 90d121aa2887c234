// Copyright 2026 The geoip Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package geoip

import (
	"fmt"

	"github.com/bpowers/geoip/internal/bytesutil"
)

// Edition identifies the database format variant recorded in the file's
// trailer.  It determines the record width and where the trie's segment
// boundary comes from.
type Edition uint8

const (
	EditionUnknown Edition = iota
	EditionCountry
	EditionRegionRev0
	EditionRegionRev1
	EditionCityRev0
	EditionCityRev1
	EditionOrg
	EditionISP
	EditionASNum
)

// edition codes as stored in the trailer
const (
	codeCountry    = 1
	codeCityRev1   = 2
	codeRegionRev1 = 3
	codeISP        = 4
	codeOrg        = 5
	codeCityRev0   = 6
	codeRegionRev0 = 7
	codeASNum      = 9

	// databases from April 2003 and earlier stored codes offset by 105
	legacyCodeOffset = 105
)

const (
	structureInfoMaxSize = 20
	delimiterLen         = 3
	segmentRecordLength  = 3

	standardRecordLength = 3
	orgRecordLength      = 4

	stateBeginRev0 = 16700000
	stateBeginRev1 = 16000000
)

func editionFromCode(code uint8) Edition {
	switch code {
	case codeCountry:
		return EditionCountry
	case codeCityRev1:
		return EditionCityRev1
	case codeRegionRev1:
		return EditionRegionRev1
	case codeISP:
		return EditionISP
	case codeOrg:
		return EditionOrg
	case codeCityRev0:
		return EditionCityRev0
	case codeRegionRev0:
		return EditionRegionRev0
	case codeASNum:
		return EditionASNum
	default:
		return EditionUnknown
	}
}

func (e Edition) String() string {
	switch e {
	case EditionCountry:
		return "country"
	case EditionRegionRev0:
		return "region-rev0"
	case EditionRegionRev1:
		return "region-rev1"
	case EditionCityRev0:
		return "city-rev0"
	case EditionCityRev1:
		return "city-rev1"
	case EditionOrg:
		return "org"
	case EditionISP:
		return "isp"
	case EditionASNum:
		return "asnum"
	case EditionUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Edition(%d)", uint8(e))
}

type segmentSource int

const (
	// no trie boundary: every child is a terminal
	segmentsNone segmentSource = iota
	// boundary is a constant of the edition
	segmentsFixed
	// boundary is stored in the trailer after the edition byte
	segmentsTrailer
)

// layout reports how the segment boundary is found and how wide trie
// children are for this edition.
func (e Edition) layout() (src segmentSource, fixed uint32, recordWidth int) {
	switch e {
	case EditionRegionRev0:
		return segmentsFixed, stateBeginRev0, standardRecordLength
	case EditionRegionRev1:
		return segmentsFixed, stateBeginRev1, standardRecordLength
	case EditionCityRev0, EditionCityRev1, EditionASNum:
		return segmentsTrailer, 0, standardRecordLength
	case EditionOrg, EditionISP:
		return segmentsTrailer, 0, orgRecordLength
	case EditionCountry, EditionUnknown:
		return segmentsNone, 0, standardRecordLength
	}
	panic(fmt.Sprintf("geoip: unhandled edition %d", uint8(e)))
}

// Metadata describes an open database, as discovered from its trailer.
type Metadata struct {
	Edition Edition
	// RawEdition is the edition byte from the trailer, after the pre-2003
	// offset has been removed.  Zero when Fallback is set.
	RawEdition uint8
	// RecordWidth is the width in bytes (3 or 4) of each trie child.
	RecordWidth int
	// Segments separates internal trie node indexes [0, Segments) from
	// terminal values [Segments, ∞).
	Segments uint32
	// Fallback is set when no trailer was found and the country edition
	// defaults were assumed.
	Fallback bool
	// Size is the length of the database in bytes.
	Size int
}

func fallbackMetadata(size int) Metadata {
	return Metadata{
		Edition:     EditionCountry,
		RecordWidth: standardRecordLength,
		Segments:    0,
		Fallback:    true,
		Size:        size,
	}
}

// readMetadata scans backwards from the end of data for the trailer
// delimiter.  A missing or truncated trailer is not an error: the country
// edition defaults are returned instead.
func readMetadata(data []byte) Metadata {
	size := len(data)
	for i := 0; i < structureInfoMaxSize; i++ {
		pos := size - delimiterLen - i
		if pos < 0 {
			break
		}
		if data[pos] != 0xff || data[pos+1] != 0xff || data[pos+2] != 0xff {
			continue
		}

		codePos := pos + delimiterLen
		if codePos >= size {
			// delimiter with nothing after it
			continue
		}
		code := data[codePos]
		if code >= legacyCodeOffset+1 {
			code -= legacyCodeOffset
		}
		edition := editionFromCode(code)

		src, fixed, width := edition.layout()
		md := Metadata{
			Edition:     edition,
			RawEdition:  code,
			RecordWidth: width,
			Size:        size,
		}
		switch src {
		case segmentsNone:
			md.Segments = 0
		case segmentsFixed:
			md.Segments = fixed
		case segmentsTrailer:
			segPos := codePos + 1
			if segPos+segmentRecordLength > size {
				return fallbackMetadata(size)
			}
			md.Segments = bytesutil.Uint24(data[segPos : segPos+segmentRecordLength])
		}
		return md
	}
	return fallbackMetadata(size)
}
