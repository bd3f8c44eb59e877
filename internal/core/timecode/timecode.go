// Copyright 2025 Reel Archive Works, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package timecode provides the timestamp conversions shared by the clip
// selection and synthesis engines. Model output and legacy analysis text
// carry positions as colon-delimited timecodes ("1:23:45", "23:45") or as
// bare second counts ("145", "145.5"); everything downstream works in whole
// seconds, so these helpers are the single place where that translation
// happens.
package timecode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadTimecode is the sentinel wrapped by every parse failure so that
// callers can branch with errors.Is without matching message text.
var ErrBadTimecode = errors.New("invalid timecode")

// ParseTimestamp converts a timecode string into total seconds.
//
// Accepted forms:
//   - "H:MM:SS" or "HH:MM:SS" (three components)
//   - "MM:SS" (two components)
//   - a bare number of seconds
//
// In every form the final component may carry fractional digits, which are
// truncated ("0:01:30.5" -> 90, "90.7" -> 90), matching how durations are
// handled everywhere else.
//
// Inputs:
//   - ts: The timecode string. Surrounding whitespace is ignored.
//
// Outputs:
//   - int: The total number of seconds.
//   - error: Wraps ErrBadTimecode when the string is empty, has more than
//     three components, or contains a non-numeric component.
func ParseTimestamp(ts string) (int, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, fmt.Errorf("%w: empty string", ErrBadTimecode)
	}

	parts := strings.Split(ts, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: too many components in %q", ErrBadTimecode, ts)
	}

	total := 0
	for _, p := range parts[:len(parts)-1] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("%w: component %q in %q is not numeric", ErrBadTimecode, p, ts)
		}
		total = total*60 + n
	}

	seconds := strings.TrimSpace(parts[len(parts)-1])
	f, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: component %q in %q is not numeric", ErrBadTimecode, seconds, ts)
	}
	return total*60 + int(f), nil
}

// FormatSeconds renders a non-negative second count as a zero-padded
// "HH:MM:SS" timecode. The hour field widens past two digits rather than
// wrapping, so archival reels longer than a day remain representable.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
