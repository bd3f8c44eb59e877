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

// This file holds the candidate generators for structured evidence: the
// chapter and highlight lists a modern analysis document carries. Entries
// with missing or unparsable timecodes are skipped, never fatal — one bad
// chapter must not cost the video its remaining clips.
package clips

import (
	"strings"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
)

// Candidate priorities, highest wins. Legacy chapters and scored raw
// segments share the low tier, and filler always loses to real evidence.
const (
	PriorityProtagonistChapter = 5
	PriorityEmotionalHighlight = 4
	PriorityCastChapter        = 3
	PriorityDefault            = 2
	PriorityLow                = 1
	PriorityFiller             = 0
)

// chapterCandidates converts structured chapters into clip candidates.
// A chapter featuring the protagonist gets priority 5, a chapter with any
// named characters gets 3, the rest get 2. Chapter clips run from the
// chapter start for the chapter's own length, capped at MaxChapterSeconds.
func (s *Selector) chapterCandidates(chapters []*model.Chapter) []*model.ClipCandidate {
	out := make([]*model.ClipCandidate, 0, len(chapters))
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		start, err := timecode.ParseTimestamp(ch.StartTime)
		if err != nil {
			continue
		}
		end, err := timecode.ParseTimestamp(ch.EndTime)
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

		priority := PriorityDefault
		if s.hasProtagonist(ch.CharactersPresent) {
			priority = PriorityProtagonistChapter
		} else if len(ch.CharactersPresent) > 0 {
			priority = PriorityCastChapter
		}

		title := ch.Title
		if title == "" {
			title = "Untitled Chapter"
		}
		out = append(out, &model.ClipCandidate{
			StartSeconds:    start,
			DurationSeconds: duration,
			Description:     truncateDescription(title, s.policy.DescriptionMaxChars),
			Priority:        priority,
		})
	}
	return out
}

// highlightCandidates converts structured highlights into fixed-length clip
// candidates. A highlight whose emotional tone contains any configured tone
// keyword gets priority 4, the rest get 2.
func (s *Selector) highlightCandidates(highlights []*model.Highlight) []*model.ClipCandidate {
	out := make([]*model.ClipCandidate, 0, len(highlights))
	for _, h := range highlights {
		if h == nil || h.Timestamp == "" {
			continue
		}
		start, err := timecode.ParseTimestamp(h.Timestamp)
		if err != nil {
			continue
		}

		title := h.Title
		if title == "" {
			title = h.Description
		}
		if title == "" {
			title = "Highlight"
		}

		priority := PriorityDefault
		tone := strings.ToLower(h.EmotionalTone)
		for _, kw := range s.policy.EmotionalTones {
			if strings.Contains(tone, kw) {
				priority = PriorityEmotionalHighlight
				break
			}
		}

		out = append(out, &model.ClipCandidate{
			StartSeconds:    start,
			DurationSeconds: s.policy.HighlightSeconds,
			Description:     truncateDescription(title, s.policy.DescriptionMaxChars),
			Priority:        priority,
		})
	}
	return out
}

// hasProtagonist reports whether any character name contains the configured
// protagonist, case-insensitively.
func (s *Selector) hasProtagonist(characters []string) bool {
	p := strings.ToLower(s.policy.Protagonist)
	if p == "" {
		return false
	}
	for _, c := range characters {
		if strings.Contains(strings.ToLower(c), p) {
			return true
		}
	}
	return false
}
