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

// Package clips_test exercises the selection pipeline end to end: candidate
// priorities, the legacy text extractors, keyword scoring, filler, and the
// dedup/bounding guarantees of Select.
package clips_test

import (
	"testing"

	"github.com/reelarchive/footage-synthesis/internal/core/clips"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/timecode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSelector(t *testing.T) *clips.Selector {
	t.Helper()
	s, err := clips.NewSelector(clips.DefaultPolicy())
	require.NoError(t, err)
	return s
}

// TestSelectScenario walks the canonical end-to-end case: a protagonist
// chapter longer than the cap plus an emotional highlight just inside the
// chapter's tail. The chapter is capped at 180 seconds, the highlight keeps
// its fixed 90 seconds, both survive dedup (starts are 170 seconds apart),
// and the result comes back in start order.
func TestSelectScenario(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Chapters: []*model.Chapter{
			{Title: "Pete Dye Arrives", StartTime: "0:00:00", EndTime: "0:03:00", CharactersPresent: []string{"Pete Dye"}},
		},
		Highlights: []*model.Highlight{
			{Title: "Big Reveal", Timestamp: "0:02:50", EmotionalTone: "emotional"},
		},
	}

	out := s.Select(analysis, nil, 0, 5)
	require.Equal(t, 2, len(out))

	assert.Equal(t, 0, out[0].StartSeconds)
	assert.Equal(t, 180, out[0].DurationSeconds)
	assert.Equal(t, "Pete Dye Arrives", out[0].Description)
	assert.Equal(t, clips.PriorityProtagonistChapter, out[0].Priority)

	assert.Equal(t, 170, out[1].StartSeconds)
	assert.Equal(t, 90, out[1].DurationSeconds)
	assert.Equal(t, "Big Reveal", out[1].Description)
	assert.Equal(t, clips.PriorityEmotionalHighlight, out[1].Priority)
}

// TestSelectCountBound feeds far more candidates than maxClips and checks
// the hard cap.
func TestSelectCountBound(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{}
	for i := 0; i < 40; i++ {
		analysis.Chapters = append(analysis.Chapters, &model.Chapter{
			Title:     "Chapter",
			StartTime: timecode.FormatSeconds(i * 300),
			EndTime:   timecode.FormatSeconds(i*300 + 60),
		})
	}
	out := s.Select(analysis, nil, 12000, 8)
	assert.Equal(t, 8, len(out))
}

// TestSelectDedupSpacing verifies the pairwise spacing invariant: no two
// selected clips start within 60 seconds of each other, and when two
// candidates conflict the higher-priority one wins.
func TestSelectDedupSpacing(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Chapters: []*model.Chapter{
			// Priority 5 at 0:01:00.
			{Title: "Dye Walkthrough", StartTime: "0:01:00", EndTime: "0:02:00", CharactersPresent: []string{"Pete Dye"}},
			// Priority 2 at 0:01:30 — inside the window of the clip above.
			{Title: "B-roll", StartTime: "0:01:30", EndTime: "0:02:30"},
			// Priority 2 at 0:05:00 — far away, survives.
			{Title: "Crowd Shots", StartTime: "0:05:00", EndTime: "0:06:00"},
		},
	}
	out := s.Select(analysis, nil, 0, 10)
	require.Equal(t, 2, len(out))

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			diff := out[j].StartSeconds - out[i].StartSeconds
			if diff < 0 {
				diff = -diff
			}
			assert.GreaterOrEqual(t, diff, 60)
		}
	}
	// The protagonist chapter displaced its neighbor.
	assert.Equal(t, "Dye Walkthrough", out[0].Description)
	assert.Equal(t, "Crowd Shots", out[1].Description)
}

// TestChapterDurationCap checks the 180-second chapter cap and that
// non-positive ranges are skipped rather than emitted.
func TestChapterDurationCap(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Chapters: []*model.Chapter{
			{Title: "Very Long Chapter", StartTime: "0:00:00", EndTime: "0:30:00"},
			{Title: "Backwards", StartTime: "0:10:00", EndTime: "0:05:00"},
			{Title: "Empty", StartTime: "0:20:00", EndTime: "0:20:00"},
		},
	}
	out := s.Select(analysis, nil, 0, 10)
	require.Equal(t, 1, len(out))
	assert.Equal(t, 180, out[0].DurationSeconds)
}

// TestChapterPriorities covers all three chapter tiers: protagonist present,
// other named characters present, and no characters at all.
func TestChapterPriorities(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Chapters: []*model.Chapter{
			{Title: "With Pete", StartTime: "0:00:00", EndTime: "0:01:00", CharactersPresent: []string{"PETE DYE", "Alice O'Neal"}},
			{Title: "With Alice", StartTime: "0:05:00", EndTime: "0:06:00", CharactersPresent: []string{"Alice O'Neal"}},
			{Title: "Nobody", StartTime: "0:10:00", EndTime: "0:11:00"},
		},
	}
	out := s.Select(analysis, nil, 0, 10)
	require.Equal(t, 3, len(out))
	assert.Equal(t, clips.PriorityProtagonistChapter, out[0].Priority)
	assert.Equal(t, clips.PriorityCastChapter, out[1].Priority)
	assert.Equal(t, clips.PriorityDefault, out[2].Priority)
}

// TestHighlightTonePromotion verifies the tone keywords promote a highlight
// to priority 4 while unknown tones stay at the default.
func TestHighlightTonePromotion(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Highlights: []*model.Highlight{
			{Title: "Tearful Speech", Timestamp: "0:01:00", EmotionalTone: "deeply heartfelt"},
			{Title: "Routine Swing", Timestamp: "0:10:00", EmotionalTone: "neutral"},
			{Description: "Untitled moment", Timestamp: "0:20:00"},
			{Title: "No timestamp"},
		},
	}
	out := s.Select(analysis, nil, 0, 10)
	require.Equal(t, 3, len(out))
	assert.Equal(t, clips.PriorityEmotionalHighlight, out[0].Priority)
	assert.Equal(t, clips.PriorityDefault, out[1].Priority)
	// Description stands in for a missing title.
	assert.Equal(t, "Untitled moment", out[2].Description)
	assert.Equal(t, 90, out[0].DurationSeconds)
}

// TestLegacyExtraction feeds a narrative-only analysis (no structured
// chapters or highlights) and checks both legacy extractors fire, with
// markdown emphasis stripped from descriptions.
func TestLegacyExtraction(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		SynthesisText: "Overview of the reel.\n" +
			"0:01:00 - 0:02:30: **Pete surveys the marsh**\n" +
			"Top moments:\n" +
			"1. [0:15:00] The ribbon cutting\n",
	}
	out := s.Select(analysis, nil, 0, 10)
	require.Equal(t, 2, len(out))

	assert.Equal(t, 60, out[0].StartSeconds)
	assert.Equal(t, 90, out[0].DurationSeconds)
	assert.Equal(t, "Pete surveys the marsh", out[0].Description)
	assert.Equal(t, clips.PriorityLow, out[0].Priority)

	assert.Equal(t, 900, out[1].StartSeconds)
	assert.Equal(t, "The ribbon cutting", out[1].Description)
	assert.Equal(t, clips.PriorityDefault, out[1].Priority)
}

// TestSegmentScoring checks keyword-family scoring over raw segments: the
// first matching family in policy order names the clip, unmatched text is
// skipped, and scored segments never outrank structured candidates.
func TestSegmentScoring(t *testing.T) {
	s := newSelector(t)
	segments := []*model.RawSegment{
		{TimestampRange: "0:05:00 - 0:10:00", MultimodalAnalysis: "A bulldozer shaping the fairway while Pete Dye speaks."},
		{TimestampRange: "0:10:00 - 0:15:00", MultimodalAnalysis: "Static shot of an empty parking lot."},
		{TimestampRange: "broken range", MultimodalAnalysis: "Pete Dye interview."},
	}
	analysis := &model.VideoAnalysis{}
	out := s.Select(analysis, segments, 0, 10)
	require.Equal(t, 1, len(out))
	assert.Equal(t, 300, out[0].StartSeconds)
	assert.Equal(t, 120, out[0].DurationSeconds)
	assert.Equal(t, "Pete Dye content", out[0].Description)
	assert.Equal(t, clips.PriorityLow, out[0].Priority)
}

// TestFillerFallback covers the nil-analysis path: min(5, maxClips) filler
// clips spread evenly, or nothing when the video is too short or its
// duration is unknown.
func TestFillerFallback(t *testing.T) {
	s := newSelector(t)

	// A 690-second video with the default 90-second clip length gives a
	// spacing of (690-90)/(5+1) = 100 seconds.
	out := s.Select(nil, nil, 690, 10)
	require.Equal(t, 5, len(out))
	for i, c := range out {
		assert.Equal(t, 100*(i+1), c.StartSeconds)
		assert.Equal(t, 90, c.DurationSeconds)
		assert.Equal(t, clips.PriorityFiller, c.Priority)
	}

	// maxClips below the fallback count wins.
	out = s.Select(nil, nil, 690, 2)
	assert.Equal(t, 2, len(out))

	// Too short for filler, and unknown duration: empty but non-nil.
	out = s.Select(nil, nil, 60, 5)
	assert.NotNil(t, out)
	assert.Equal(t, 0, len(out))
	out = s.Select(nil, nil, 0, 5)
	assert.Equal(t, 0, len(out))
}

// TestFillerTopUp verifies that a thin analysis is topped up with filler to
// reach maxClips, and that filler never displaces real evidence.
func TestFillerTopUp(t *testing.T) {
	s := newSelector(t)
	analysis := &model.VideoAnalysis{
		Chapters: []*model.Chapter{
			{Title: "Only Chapter", StartTime: "0:00:00", EndTime: "0:01:00", CharactersPresent: []string{"Pete Dye"}},
		},
	}
	out := s.Select(analysis, nil, 1200, 4)
	require.Equal(t, 4, len(out))

	real := 0
	for _, c := range out {
		if c.Priority > clips.PriorityFiller {
			real++
		}
	}
	assert.Equal(t, 1, real)
}

// TestSelectZeroMax confirms a non-positive cap yields an empty result.
func TestSelectZeroMax(t *testing.T) {
	s := newSelector(t)
	out := s.Select(&model.VideoAnalysis{}, nil, 600, 0)
	assert.NotNil(t, out)
	assert.Equal(t, 0, len(out))
}

// TestNewSelectorBadPattern verifies pattern compilation errors surface at
// construction, not at selection time.
func TestNewSelectorBadPattern(t *testing.T) {
	p := clips.DefaultPolicy()
	p.KeywordFamilies = append(p.KeywordFamilies, clips.KeywordFamily{Pattern: "([", Weight: 1})
	_, err := clips.NewSelector(p)
	assert.Error(t, err)
}
