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

// This file holds the legacy extractors. Analysis documents produced before
// the structured chapter/highlight schema carry only a free-form narrative
// in synthesis_text; these regexes mine timecoded lines out of that prose.
// Legacy candidates rank below their structured counterparts since the
// narrative text is less reliable than schema-validated fields.
package clips

import (
	"regexp"
	"strings"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
)

var (
	// Matches narrative chapter lines like
	// "0:01:30 - 0:04:00: Pete walks the property".
	legacyChapterPattern = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2})\s*[-–to]+\s*(\d{1,2}:\d{2}:\d{2})[:\s]*([^\n\r]+)`)

	// Matches enumerated highlight lines like "1. [0:02:50] The big reveal".
	legacyHighlightPattern = regexp.MustCompile(`(\d+)\.\s*\[?(\d{1,2}:\d{2}:\d{2})\]?\s*[-–:]?\s*([^\n\r]+)`)

	// Narrative text is often markdown; emphasis markers around a line are
	// noise, not content.
	edgeAsterisks = regexp.MustCompile(`^\*+|\*+$`)
)

// legacyChapterCandidates mines chapter-shaped lines (a timecode range and a
// trailing description) out of narrative text. Matches with a non-positive
// range or an empty description after cleanup are skipped.
func (s *Selector) legacyChapterCandidates(text string) []*model.ClipCandidate {
	var out []*model.ClipCandidate
	for _, m := range legacyChapterPattern.FindAllStringSubmatch(text, -1) {
		start, err := timecode.ParseTimestamp(m[1])
		if err != nil {
			continue
		}
		end, err := timecode.ParseTimestamp(m[2])
		if err != nil {
			continue
		}
		duration := end - start
		if duration <= 0 {
			continue
		}
		if duration > s.policy.MaxChapterSeconds {
			duration = s.policy.MaxChapterSeconds
		}
		desc := cleanLegacyDescription(m[3])
		if desc == "" {
			continue
		}
		out = append(out, &model.ClipCandidate{
			StartSeconds:    start,
			DurationSeconds: duration,
			Description:     truncateDescription(desc, s.policy.DescriptionMaxChars),
			Priority:        PriorityLow,
		})
	}
	return out
}

// legacyHighlightCandidates mines enumerated highlight lines (an index, a
// single timecode, and a description) out of narrative text. Legacy
// highlights keep the default priority: without a tone field there is no
// basis to promote them.
func (s *Selector) legacyHighlightCandidates(text string) []*model.ClipCandidate {
	var out []*model.ClipCandidate
	for _, m := range legacyHighlightPattern.FindAllStringSubmatch(text, -1) {
		start, err := timecode.ParseTimestamp(m[2])
		if err != nil {
			continue
		}
		desc := cleanLegacyDescription(m[3])
		if desc == "" {
			continue
		}
		out = append(out, &model.ClipCandidate{
			StartSeconds:    start,
			DurationSeconds: s.policy.HighlightSeconds,
			Description:     truncateDescription(desc, s.policy.DescriptionMaxChars),
			Priority:        PriorityDefault,
		})
	}
	return out
}

// cleanLegacyDescription strips markdown emphasis from the edges of a mined
// description and trims surrounding whitespace.
func cleanLegacyDescription(desc string) string {
	desc = edgeAsterisks.ReplaceAllString(desc, "")
	return strings.TrimSpace(desc)
}
