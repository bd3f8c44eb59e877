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

import (
	"sort"
)

// Timeline event types.
const (
	EventTypeChapter   = "chapter"
	EventTypeHighlight = "highlight"
)

// TimelineEvent is one entry of the unified cross-video timeline: a chapter
// or highlight from a single video, stamped with the year estimated from the
// video's file name (0 when the name carries no year).
type TimelineEvent struct {
	VideoName    string   `json:"video_name"`
	DateEstimate int      `json:"date_estimate,omitempty"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time,omitempty"` // Empty for highlights, which are single moments.
	Title        string   `json:"title"`
	ChapterLabel string   `json:"chapter_label,omitempty"` // The source chapter's title; empty for highlights.
	Summary      string   `json:"summary,omitempty"`       // Chapter summary, or the highlight's description.
	Type         string   `json:"type"`
	Characters   []string `json:"characters,omitempty"`
}

// buildTimeline flattens every chapter and highlight across all videos into
// one chronologically ordered list. Events from dated videos sort before
// undated ones; within a tier the order is year, then video name, then the
// start timecode as a string. Timecodes are compared as the model emitted
// them — the zero-padded H:MM:SS forms order correctly as strings, and
// comparing the raw value keeps unparsable stragglers in a stable place
// instead of dropping them from the timeline.
func (a *Aggregator) buildTimeline(videos []*VideoRecord) []*TimelineEvent {
	events := make([]*TimelineEvent, 0)
	for _, v := range videos {
		if v == nil || v.Analysis == nil {
			continue
		}
		year := extractYear(v.VideoName)

		for _, ch := range v.Analysis.Chapters {
			if ch == nil {
				continue
			}
			title := ch.Title
			if title == "" {
				title = "Untitled"
			}
			events = append(events, &TimelineEvent{
				VideoName:    v.VideoName,
				DateEstimate: year,
				StartTime:    ch.StartTime,
				EndTime:      ch.EndTime,
				Title:        title,
				ChapterLabel: ch.Title,
				Summary:      ch.Summary,
				Type:         EventTypeChapter,
				Characters:   ch.CharactersPresent,
			})
		}

		for _, h := range v.Analysis.Highlights {
			if h == nil {
				continue
			}
			title := h.Title
			if title == "" {
				title = h.Description
			}
			if title == "" {
				title = "Highlight"
			}
			events = append(events, &TimelineEvent{
				VideoName:    v.VideoName,
				DateEstimate: year,
				StartTime:    h.Timestamp,
				Title:        title,
				Summary:      h.Description,
				Type:         EventTypeHighlight,
				Characters:   h.CharactersInvolved,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		aDated, bDated := a.DateEstimate != 0, b.DateEstimate != 0
		if aDated != bDated {
			return aDated
		}
		if a.DateEstimate != b.DateEstimate {
			return a.DateEstimate < b.DateEstimate
		}
		if a.VideoName != b.VideoName {
			return a.VideoName < b.VideoName
		}
		return a.StartTime < b.StartTime
	})
	return events
}
