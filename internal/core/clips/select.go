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

// This file holds the selection pipeline itself: pool the candidates from
// every evidence tier, rank them, thin out near-duplicate starts, and bound
// the result.
package clips

import (
	"sort"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// fallbackClipCount bounds the filler-only selection used when a video has
// no analysis at all.
const fallbackClipCount = 5

// Select runs the full selection pipeline for one video.
//
// Logic Flow:
//  1. Candidate generation. Structured chapters and highlights are converted
//     when present; for each list that is empty, the legacy regex extractors
//     mine the narrative synthesis text instead. Raw segments are scored by
//     keyword family. A nil analysis takes the fallback path: up to five
//     evenly spaced filler clips and nothing else.
//  2. Filler top-up. When the pool holds fewer candidates than maxClips,
//     filler clips are appended to make up the difference (only for videos
//     long enough to carve filler from).
//  3. Ranking. The pool is stable-sorted by priority descending, so ties
//     keep their generation order and the whole pipeline stays
//     deterministic.
//  4. Greedy dedup. Walking the ranked pool, a candidate is kept only if its
//     start time is at least the dedup window away from every already-kept
//     start. A high-priority clip therefore always displaces lower-priority
//     neighbors in its window.
//  5. The kept clips are cut off at maxClips and re-sorted by start time so
//     the output plays in source order.
//
// Inputs:
//   - analysis: The structured analysis, or nil when the video has none.
//   - segments: The raw multimodal segments, independent of the analysis.
//   - durationSeconds: The source video length, 0 when unknown.
//   - maxClips: The hard cap on returned clips.
//
// Outputs:
//   - []*model.ClipCandidate: At most maxClips non-conflicting clips in
//     ascending start order. Never nil.
func (s *Selector) Select(analysis *model.VideoAnalysis, segments []*model.RawSegment, durationSeconds, maxClips int) []*model.ClipCandidate {
	if maxClips <= 0 {
		return []*model.ClipCandidate{}
	}

	// No analysis document at all: fall back to evenly spaced filler so the
	// video still contributes something to the reel.
	if analysis == nil {
		count := maxClips
		if count > fallbackClipCount {
			count = fallbackClipCount
		}
		out := s.fillerCandidates(durationSeconds, count)
		if out == nil {
			out = []*model.ClipCandidate{}
		}
		sortByStart(out)
		return out
	}

	var pool []*model.ClipCandidate
	if len(analysis.Chapters) > 0 {
		pool = append(pool, s.chapterCandidates(analysis.Chapters)...)
	} else {
		pool = append(pool, s.legacyChapterCandidates(analysis.SynthesisText)...)
	}
	if len(analysis.Highlights) > 0 {
		pool = append(pool, s.highlightCandidates(analysis.Highlights)...)
	} else {
		pool = append(pool, s.legacyHighlightCandidates(analysis.SynthesisText)...)
	}
	pool = append(pool, s.segmentCandidates(segments)...)

	if len(pool) < maxClips {
		pool = append(pool, s.fillerCandidates(durationSeconds, maxClips-len(pool))...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Priority > pool[j].Priority
	})

	selected := make([]*model.ClipCandidate, 0, maxClips)
	starts := make([]int, 0, maxClips)
	for _, c := range pool {
		if len(selected) >= maxClips {
			break
		}
		conflict := false
		for _, kept := range starts {
			if abs(c.StartSeconds-kept) < s.policy.DedupWindowSeconds {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		selected = append(selected, c)
		starts = append(starts, c.StartSeconds)
	}

	sortByStart(selected)
	return selected
}

func sortByStart(clips []*model.ClipCandidate) {
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].StartSeconds < clips[j].StartSeconds
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
