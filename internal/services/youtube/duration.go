package youtube

import (
	"fmt"
	"strings"
)

// ParseDuration converts an ISO-8601 duration (the contentDetails.duration
// form, e.g. "PT4M33S" or "P1DT2H") into whole seconds. Malformed input
// yields 0 rather than an error; a missing duration must never sink a scan.
func ParseDuration(iso string) int64 {
	iso = strings.TrimSpace(iso)
	if len(iso) < 2 || iso[0] != 'P' {
		return 0
	}

	var total int64
	inTime := false
	value := int64(0)
	haveValue := false

	for _, r := range iso[1:] {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int64(r-'0')
			haveValue = true
		case r == 'T':
			if inTime {
				return 0
			}
			inTime = true
		default:
			if !haveValue {
				return 0
			}
			var unit int64
			switch r {
			case 'W':
				unit = 7 * 24 * 3600
			case 'D':
				unit = 24 * 3600
			case 'H':
				unit = 3600
			case 'M':
				if inTime {
					unit = 60
				} else {
					unit = 30 * 24 * 3600
				}
			case 'S':
				unit = 1
			default:
				return 0
			}
			total += value * unit
			value = 0
			haveValue = false
		}
	}
	if haveValue {
		return 0
	}
	return total
}

// FormatDuration renders seconds as "M:SS" under one hour and "H:MM:SS"
// at or above it.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	remaining := seconds % 60
	if minutes >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", minutes/60, minutes%60, remaining)
	}
	return fmt.Sprintf("%d:%02d", minutes, remaining)
}
