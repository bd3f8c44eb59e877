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

package timecode_test

import (
	"errors"
	"testing"

	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
	"github.com/stretchr/testify/assert"
)

// TestParseTimestamp verifies every accepted timecode form: three-component
// H:MM:SS and HH:MM:SS, two-component MM:SS, and bare second counts. In any
// form the final component may be fractional; the fraction is truncated,
// not rounded.
func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"0:00:00", 0},
		{"0:02:50", 170},
		{"1:23:45", 5025},
		{"12:00:01", 43201},
		{"23:45", 1425},
		{"02:05", 125},
		{"145", 145},
		{"145.9", 145},
		{"0:01:30.5", 90},
		{"02:05.75", 125},
		{" 0:03:00 ", 180},
	}
	for _, c := range cases {
		got, err := timecode.ParseTimestamp(c.in)
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

// TestParseTimestampErrors verifies that malformed input is reported through
// the ErrBadTimecode sentinel rather than a panic, so pipeline steps can skip
// the offending entry and keep going.
func TestParseTimestampErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "1:xx:00", "1:2:3:4", "12:34pm", "1.5:00"} {
		_, err := timecode.ParseTimestamp(in)
		assert.Error(t, err, in)
		assert.True(t, errors.Is(err, timecode.ErrBadTimecode), in)
	}
}

// TestFormatSeconds checks zero padding and the widening hour field.
func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00:00", timecode.FormatSeconds(0))
	assert.Equal(t, "00:02:50", timecode.FormatSeconds(170))
	assert.Equal(t, "01:23:45", timecode.FormatSeconds(5025))
	assert.Equal(t, "27:46:40", timecode.FormatSeconds(100000))
	// Negative input clamps to zero instead of producing "-1" fields.
	assert.Equal(t, "00:00:00", timecode.FormatSeconds(-5))
}

// TestRoundTrip exercises the parse/format round-trip identity over a spread
// of second counts, including hour boundaries.
func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 59, 60, 61, 170, 3599, 3600, 3661, 5025, 86399, 86400, 90000} {
		got, err := timecode.ParseTimestamp(timecode.FormatSeconds(n))
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}
}
