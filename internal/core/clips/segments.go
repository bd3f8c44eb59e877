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

// This file holds the lowest tiers of evidence: keyword scoring over raw
// multimodal segment text, and evenly spaced filler clips for videos where
// nothing else surfaced.
package clips

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
)

// Matches the timecode range at the head of a raw segment's window label,
// e.g. "0:05:00 - 0:10:00".
var segmentRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2})\s*[-–]+\s*(\d{1,2}:\d{2}:\d{2})`)

// segmentCandidates scores each raw segment's analysis text against the
// policy's keyword families. Weights accumulate across families, but a
// scored segment still only earns PriorityLow: raw segments corroborate,
// they never outrank structured evidence. The first matching family in
// policy order supplies the description. Segments with no matching family
// or no parsable window range are skipped.
func (s *Selector) segmentCandidates(segments []*model.RawSegment) []*model.ClipCandidate {
	var out []*model.ClipCandidate
	for _, seg := range segments {
		if seg == nil {
			continue
		}
		m := segmentRangePattern.FindStringSubmatch(seg.TimestampRange)
		if m == nil {
			continue
		}
		start, err := timecode.ParseTimestamp(m[1])
		if err != nil {
			continue
		}

		text := strings.ToLower(seg.MultimodalAnalysis)
		score := 0
		desc := ""
		for _, f := range s.families {
			if f.re.MatchString(text) {
				score += f.weight
				if desc == "" {
					desc = f.description
				}
			}
		}
		if score <= 0 {
			continue
		}

		out = append(out, &model.ClipCandidate{
			StartSeconds:    start,
			DurationSeconds: s.policy.SegmentSeconds,
			Description:     truncateDescription(desc, s.policy.DescriptionMaxChars),
			Priority:        PriorityLow,
		})
	}
	return out
}

// fillerCandidates spreads count filler clips evenly across the video so a
// selection never comes back empty just because the analysis was thin. The
// spacing leaves room for a full clip at the tail. Videos shorter than the
// policy minimum get no filler at all.
func (s *Selector) fillerCandidates(durationSeconds, count int) []*model.ClipCandidate {
	if count <= 0 || durationSeconds < s.policy.MinFillerSourceSeconds {
		return nil
	}
	spacing := float64(durationSeconds-s.policy.HighlightSeconds) / float64(count+1)
	out := make([]*model.ClipCandidate, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &model.ClipCandidate{
			StartSeconds:    int(spacing * float64(i+1)),
			DurationSeconds: s.policy.HighlightSeconds,
			Description:     fmt.Sprintf("Segment %d", i+1),
			Priority:        PriorityFiller,
		})
	}
	return out
}
