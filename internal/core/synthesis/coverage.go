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

package synthesis

import "fmt"

// FeaturedCharacter is a coverage-report row: a character and the number of
// distinct videos they appear in.
type FeaturedCharacter struct {
	Name       string `json:"name"`
	VideoCount int    `json:"video_count"`
}

// CoverageReport summarizes what the archive does and does not cover.
type CoverageReport struct {
	TotalVideos     int                  `json:"total_videos"`
	TotalCharacters int                  `json:"total_characters"`
	ContentTypes    map[string]int       `json:"content_types"`
	TimePeriods     map[string]int       `json:"time_periods"`
	FootageGaps     []string             `json:"footage_gaps"`
	MostFeatured    []*FeaturedCharacter `json:"most_featured_characters"`
}

// buildCoverage computes the content-type and era histograms over every
// record (including ones without an analysis — a video whose analysis
// failed is still footage the archive holds), detects footage gaps, and
// ranks characters by distinct-video count.
func (a *Aggregator) buildCoverage(videos []*VideoRecord, characters []*CharacterProfile) *CoverageReport {
	report := &CoverageReport{
		TotalVideos:     0,
		TotalCharacters: len(characters),
		ContentTypes:    make(map[string]int),
		TimePeriods:     make(map[string]int),
		FootageGaps:     make([]string, 0),
		MostFeatured:    make([]*FeaturedCharacter, 0, len(characters)),
	}

	observedYears := make(map[int]bool)
	for _, v := range videos {
		if v == nil {
			continue
		}
		report.TotalVideos++

		contentType := "unknown"
		if v.Analysis != nil && v.Analysis.ContentType != "" {
			contentType = v.Analysis.ContentType
		}
		report.ContentTypes[contentType]++

		year := extractYear(v.VideoName)
		report.TimePeriods[a.eraLabel(year)]++
		if year != 0 {
			observedYears[year] = true
		}
	}

	report.FootageGaps = a.footageGaps(observedYears)

	// Characters arrive pre-sorted by distinct-video count with first-seen
	// tie order, so the featured ranking is a straight projection.
	for _, p := range characters {
		report.MostFeatured = append(report.MostFeatured, &FeaturedCharacter{
			Name:       p.Name,
			VideoCount: p.TotalVideos,
		})
	}
	return report
}

// eraLabel buckets a year using the configured boundaries. Year 0 (no year
// found in the video name) is Unknown.
func (a *Aggregator) eraLabel(year int) string {
	b := a.opts.EraBoundaries
	if year == 0 || len(b) == 0 {
		return "Unknown"
	}
	if year < b[0] {
		return fmt.Sprintf("Pre-%d", b[0])
	}
	for i := 1; i < len(b); i++ {
		if year <= b[i] {
			return fmt.Sprintf("%d-%d", b[i-1], b[i])
		}
	}
	return fmt.Sprintf("Post-%d", b[len(b)-1])
}

// footageGaps scans the configured year window for maximal runs with no
// observed footage. An archive with no dated footage at all reports no
// gaps: with nothing to anchor the window, an all-gap report would be
// noise, not signal.
func (a *Aggregator) footageGaps(observedYears map[int]bool) []string {
	out := make([]string, 0)
	if len(observedYears) == 0 || a.opts.GapWindowMin > a.opts.GapWindowMax {
		return out
	}

	inGap := false
	gapStart := 0
	for y := a.opts.GapWindowMin; y <= a.opts.GapWindowMax; y++ {
		if !observedYears[y] {
			if !inGap {
				inGap = true
				gapStart = y
			}
			continue
		}
		if inGap {
			out = append(out, gapLabel(gapStart, y-1))
			inGap = false
		}
	}
	if inGap {
		out = append(out, gapLabel(gapStart, a.opts.GapWindowMax))
	}
	return out
}
