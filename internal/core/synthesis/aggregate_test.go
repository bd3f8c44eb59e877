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

// Package synthesis_test exercises the cross-video aggregation engine: the
// unified timeline ordering, character and theme merging, coverage
// histograms, footage gap detection, and the report renderer.
package synthesis_test

import (
	"testing"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregateEmpty verifies resilience to empty input: every artifact is
// present and empty, never nil, so downstream rendering and serialization
// need no special casing.
func TestAggregateEmpty(t *testing.T) {
	out := synthesis.Aggregate(nil)
	require.NotNil(t, out)
	assert.NotNil(t, out.Timeline)
	assert.Equal(t, 0, len(out.Timeline))
	assert.NotNil(t, out.Characters)
	assert.NotNil(t, out.Themes)
	require.NotNil(t, out.Coverage)
	assert.Equal(t, 0, out.Coverage.TotalVideos)
	assert.Equal(t, 0, out.Coverage.TotalCharacters)
	assert.NotNil(t, out.Coverage.ContentTypes)
	assert.NotNil(t, out.Coverage.FootageGaps)
	assert.Equal(t, 0, len(out.Coverage.FootageGaps))
}

// TestTimelineOrdering checks the sort key: events from dated videos come
// first ordered by year, then video name, then start timecode; undated
// events trail in stable order.
func TestTimelineOrdering(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{
			VideoName: "mystery-reel.mp4",
			Analysis: &model.VideoAnalysis{
				Chapters: []*model.Chapter{
					{Title: "Undated Footage", StartTime: "0:00:00", EndTime: "0:01:00"},
				},
			},
		},
		{
			VideoName: "dedication-1991.mp4",
			Analysis: &model.VideoAnalysis{
				Chapters: []*model.Chapter{
					{Title: "Later Chapter", StartTime: "0:10:00", EndTime: "0:12:00"},
					{Title: "Opening Remarks", StartTime: "0:00:30", EndTime: "0:05:00", Summary: "The club president welcomes the crowd."},
				},
				Highlights: []*model.Highlight{
					{Title: "Ribbon Cut", Description: "The ceremonial ribbon falls.", Timestamp: "0:04:10"},
				},
			},
		},
		{
			VideoName: "construction-1984.mp4",
			Analysis: &model.VideoAnalysis{
				Chapters: []*model.Chapter{
					{Title: "Shaping the Dunes", StartTime: "0:02:00", EndTime: "0:08:00"},
				},
			},
		},
	}

	out := synthesis.Aggregate(videos)
	require.Equal(t, 5, len(out.Timeline))

	assert.Equal(t, "Shaping the Dunes", out.Timeline[0].Title)
	assert.Equal(t, 1984, out.Timeline[0].DateEstimate)
	// Within the 1991 video, events order by start timecode string.
	assert.Equal(t, "Opening Remarks", out.Timeline[1].Title)
	assert.Equal(t, "Ribbon Cut", out.Timeline[2].Title)
	assert.Equal(t, "Later Chapter", out.Timeline[3].Title)
	// Undated events trail.
	assert.Equal(t, "Undated Footage", out.Timeline[4].Title)
	assert.Equal(t, 0, out.Timeline[4].DateEstimate)

	// Chapter events carry the chapter's label and summary.
	assert.Equal(t, "Opening Remarks", out.Timeline[1].ChapterLabel)
	assert.Equal(t, "The club president welcomes the crowd.", out.Timeline[1].Summary)

	// Highlights are single moments: no end time, no chapter label, type
	// marks them, and the description doubles as the summary.
	assert.Equal(t, synthesis.EventTypeHighlight, out.Timeline[2].Type)
	assert.Equal(t, "", out.Timeline[2].EndTime)
	assert.Equal(t, "", out.Timeline[2].ChapterLabel)
	assert.Equal(t, "The ceremonial ribbon falls.", out.Timeline[2].Summary)
	assert.Equal(t, synthesis.EventTypeChapter, out.Timeline[0].Type)
}

// TestCharacterMerge covers the registry rules: case-insensitive merge with
// the first-seen spelling canonical, distinct-video counting, per-appearance
// quote attribution by speaker, and ranking by coverage.
func TestCharacterMerge(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{
			VideoName: "construction-1984.mp4",
			Analysis: &model.VideoAnalysis{
				Characters: []*model.Character{
					{Name: "Pete Dye", Role: "architect", IsSpeaking: true},
					{Name: "Alice O'Neal", Role: "club president"},
				},
				Quotes: []*model.Quote{
					{Text: "We're uncovering a course.", Speaker: "PETE DYE"},
					{Text: "Unattributed line.", Speaker: "Narrator"},
				},
			},
		},
		{
			VideoName: "interview-1990.mp4",
			Analysis: &model.VideoAnalysis{
				Characters: []*model.Character{
					// Same person, different casing and padding; listed twice.
					{Name: "PETE DYE", Role: "designer"},
					{Name: " pete dye "},
				},
				Quotes: []*model.Quote{
					{Text: "The wind does the defending.", Speaker: "pete dye"},
				},
			},
		},
	}

	out := synthesis.Aggregate(videos)
	require.Equal(t, 2, len(out.Characters))

	pete := out.Characters[0]
	assert.Equal(t, "Pete Dye", pete.Name) // first-seen spelling wins
	assert.Equal(t, 2, pete.TotalVideos)   // distinct videos, not entries
	require.Equal(t, 3, len(pete.Appearances))

	// Each appearance keeps the role, speaking flag, and the video's quotes
	// matched to the speaker case-insensitively.
	first := pete.Appearances[0]
	assert.Equal(t, "construction-1984.mp4", first.VideoName)
	assert.Equal(t, "architect", first.Role)
	assert.True(t, first.IsSpeaking)
	require.Equal(t, 1, len(first.Quotes))
	assert.Equal(t, "We're uncovering a course.", first.Quotes[0].Text)
	assert.False(t, pete.Appearances[1].IsSpeaking)
	assert.Equal(t, "The wind does the defending.", pete.Appearances[1].Quotes[0].Text)

	// The quote count sums across appearances, so the duplicate listing in
	// the interview video counts its matched quote twice.
	assert.Equal(t, 3, pete.TotalQuoteCount)

	// Ranking: Pete (2 videos) ahead of Alice (1). The "Narrator" speaker
	// never appears in a character list, so no profile exists for it.
	assert.Equal(t, "Alice O'Neal", out.Characters[1].Name)
	assert.Equal(t, 1, out.Characters[1].TotalVideos)

	// Coverage projects the same ranking.
	require.Equal(t, 2, len(out.Coverage.MostFeatured))
	assert.Equal(t, "Pete Dye", out.Coverage.MostFeatured[0].Name)
	assert.Equal(t, 2, out.Coverage.MostFeatured[0].VideoCount)
	assert.Equal(t, 2, out.Coverage.TotalCharacters)
}

// TestThemeMerge covers theme registry rules: case-insensitive merge,
// video-level association of characters and quotes, and the deliberate
// over-association of every video character with every video theme.
func TestThemeMerge(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{
			VideoName: "construction-1984.mp4",
			Analysis: &model.VideoAnalysis{
				Characters: []*model.Character{{Name: "Pete Dye"}},
				Themes:     []string{"Course construction", "Design philosophy"},
				Quotes:     []*model.Quote{{Text: "Dirt is honest.", Speaker: "Pete Dye"}},
			},
		},
		{
			VideoName: "interview-1990.mp4",
			Analysis: &model.VideoAnalysis{
				Characters: []*model.Character{{Name: "Alice O'Neal"}},
				Themes:     []string{"course CONSTRUCTION"},
				Quotes:     []*model.Quote{{Text: "It changed the town.", Speaker: "Alice O'Neal"}},
			},
		},
	}

	out := synthesis.Aggregate(videos)
	require.Equal(t, 2, len(out.Themes))

	construction := out.Themes[0]
	assert.Equal(t, "Course construction", construction.Theme) // first-seen spelling
	assert.Equal(t, []string{"construction-1984.mp4", "interview-1990.mp4"}, construction.VideoNames)
	assert.Equal(t, []string{"Alice O'Neal", "Pete Dye"}, construction.RelatedCharacters)
	// Quotes travel with the video, unfiltered by theme.
	assert.Equal(t, 2, len(construction.Quotes))

	design := out.Themes[1]
	assert.Equal(t, "Design philosophy", design.Theme)
	assert.Equal(t, 1, len(design.VideoNames))

	// Over-association: Pete gets both of his video's themes, sorted.
	pete := out.Characters[0]
	assert.Equal(t, []string{"Course construction", "Design philosophy"}, pete.ThemesAssociated)
}

// TestFootageGaps is the canonical gap-detection case: years {1980, 1981,
// 1985} observed inside a [1978, 1990] window yield gaps before, between,
// and after the observations, with single-year runs collapsed.
func TestFootageGaps(t *testing.T) {
	agg := synthesis.NewAggregator(synthesis.Options{
		EraBoundaries: []int{1978, 1985, 1990, 1995, 2000, 2004},
		GapWindowMin:  1978,
		GapWindowMax:  1990,
	})
	videos := []*synthesis.VideoRecord{
		{VideoName: "reel-1980.mp4", Analysis: &model.VideoAnalysis{}},
		{VideoName: "reel-1981.mp4", Analysis: &model.VideoAnalysis{}},
		{VideoName: "reel-1985.mp4", Analysis: &model.VideoAnalysis{}},
	}

	out := agg.Aggregate(videos)
	assert.Equal(t, []string{
		"No footage from 1978-1979",
		"No footage from 1982-1984",
		"No footage from 1986-1990",
	}, out.Coverage.FootageGaps)
}

// TestFootageGapsNoObservations: with no dated footage at all there is
// nothing to anchor the window, so no gaps are reported.
func TestFootageGapsNoObservations(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{VideoName: "mystery-reel.mp4", Analysis: &model.VideoAnalysis{}},
	}
	out := synthesis.Aggregate(videos)
	assert.Equal(t, 0, len(out.Coverage.FootageGaps))
}

// TestCoverageHistograms checks content-type counting (including records
// with no analysis at all) and the era bucket labels across their edges.
func TestCoverageHistograms(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{VideoName: "early-1975.mp4", Analysis: &model.VideoAnalysis{ContentType: "raw_footage"}},
		{VideoName: "opening-1978.mp4", Analysis: &model.VideoAnalysis{ContentType: "ceremony"}},
		{VideoName: "doc-1986.mp4", Analysis: &model.VideoAnalysis{ContentType: "documentary"}},
		{VideoName: "promo-2010.mp4", Analysis: &model.VideoAnalysis{ContentType: "documentary"}},
		{VideoName: "mystery-reel.mp4", Analysis: nil},
	}

	out := synthesis.Aggregate(videos)
	cov := out.Coverage
	assert.Equal(t, 5, cov.TotalVideos)
	assert.Equal(t, 2, cov.ContentTypes["documentary"])
	assert.Equal(t, 1, cov.ContentTypes["raw_footage"])
	assert.Equal(t, 1, cov.ContentTypes["unknown"])

	assert.Equal(t, 1, cov.TimePeriods["Pre-1978"])
	assert.Equal(t, 1, cov.TimePeriods["1978-1985"])
	assert.Equal(t, 1, cov.TimePeriods["1985-1990"])
	assert.Equal(t, 1, cov.TimePeriods["Post-2004"])
	assert.Equal(t, 1, cov.TimePeriods["Unknown"])
}

// TestRenderReport smoke-tests the Markdown renderer over a small archive:
// all sections present, deterministic ordering, gaps listed.
func TestRenderReport(t *testing.T) {
	videos := []*synthesis.VideoRecord{
		{
			VideoName: "construction-1984.mp4",
			Analysis: &model.VideoAnalysis{
				ContentType: "raw_footage",
				Characters:  []*model.Character{{Name: "Pete Dye"}},
				Chapters: []*model.Chapter{
					{Title: "Shaping the Dunes", StartTime: "0:02:00", EndTime: "0:08:00"},
				},
				Themes: []string{"Course construction"},
			},
		},
	}
	result := synthesis.Aggregate(videos)
	report := synthesis.RenderReport(result)

	assert.Contains(t, report, "# Archive Synthesis Report")
	assert.Contains(t, report, "## Unified Timeline")
	assert.Contains(t, report, "[1984] Shaping the Dunes")
	assert.Contains(t, report, "### Pete Dye")
	assert.Contains(t, report, "**Course construction**")
	assert.Contains(t, report, "## Coverage")

	// Rendering is deterministic.
	assert.Equal(t, report, synthesis.RenderReport(result))
}
