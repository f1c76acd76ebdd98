// Package strategy derives the fixed set of video search queries from an
// identified piece and a normalized instrument name.
package strategy

import "strings"

// DefaultInstrument is used when the caller supplies no instrument at all.
const DefaultInstrument = "clarinet"

// SupportedInstruments is the canonical allow-list. Order matters: the
// first bidirectional substring match wins during normalization.
var SupportedInstruments = []string{
	"alto saxophone", "baritone saxophone", "tenor saxophone", "soprano saxophone",
	"bass clarinet", "clarinet", "bassoon", "contrabassoon",
	"cello", "double bass", "viola", "violin",
	"euphonium", "tuba", "trombone", "trumpet", "french horn",
	"flute", "piccolo", "oboe", "english horn",
	"piano", "harp", "percussion", "timpani",
	"guitar", "electric guitar", "bass guitar",
}

// NormalizeInstrument case-folds and trims the user-supplied name, then
// resolves it against the allow-list: exact match first, then a substring
// match in either direction. Unrecognized names pass through unchanged so
// uncommon instruments still produce usable queries.
func NormalizeInstrument(instrument string) string {
	lowered := strings.ToLower(strings.TrimSpace(instrument))
	if lowered == "" {
		return DefaultInstrument
	}

	for _, supported := range SupportedInstruments {
		if lowered == supported {
			return supported
		}
	}
	for _, supported := range SupportedInstruments {
		if strings.Contains(supported, lowered) || strings.Contains(lowered, supported) {
			return supported
		}
	}
	return lowered
}

// IsSupported reports whether the (already normalized) name is on the
// allow-list.
func IsSupported(instrument string) bool {
	for _, supported := range SupportedInstruments {
		if instrument == supported {
			return true
		}
	}
	return false
}
