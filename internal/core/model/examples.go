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

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for creating hardcoded, example
// instances of the data models.
//
// These example objects are used for "few-shot" prompting with the generative
// AI models. Embedding a concrete example of the desired JSON output in the
// prompt guides the model to return data that is consistent, correctly
// formatted, and parsable by ParseAnalysisDocument.
package model

// GetExampleAnalysis creates a sample VideoAnalysis object describing a piece
// of archival construction footage. It is serialized into the analysis prompt
// so the model sees the exact structure expected back: chapters with start and
// end timecodes, single-timestamp highlights with an emotional tone, quotes
// attributed to speakers, and a flat theme list.
//
// Outputs:
//   - *VideoAnalysis: A pointer to a hardcoded VideoAnalysis object.
func GetExampleAnalysis() *VideoAnalysis {
	out := &VideoAnalysis{
		Title:       "Course Construction - Spring 1984",
		ContentType: "raw_footage",
		Summary:     "Bulldozers shape the back nine while the architect walks the property and explains his routing decisions to the construction crew.",
		Characters: []*Character{
			{Name: "Pete Dye", Role: "golf course architect", Description: "Walks the site in work boots, directing the shaping crew.", IsSpeaking: true},
			{Name: "Bill Hartman", Role: "construction foreman", Description: "Operates the lead bulldozer; seen working but never addresses the camera.", IsSpeaking: false},
		},
		Chapters: []*Chapter{
			{
				Title:             "Walking the Back Nine",
				StartTime:         "0:00:00",
				EndTime:           "0:02:45",
				Summary:           "The architect walks the undeveloped back nine, pointing out the future routing.",
				CharactersPresent: []string{"Pete Dye"},
			},
			{
				Title:             "Shaping the Fourteenth",
				StartTime:         "0:02:45",
				EndTime:           "0:06:10",
				Summary:           "Bulldozers cut the fairway corridor while the foreman explains the drainage plan.",
				CharactersPresent: []string{"Pete Dye", "Bill Hartman"},
			},
		},
		Highlights: []*Highlight{
			{
				Title:              "First Look at the Island Green Site",
				Description:        "The architect stops mid-sentence when he sees the flooded lowland and sketches the green complex in the air.",
				Timestamp:          "0:04:20",
				EmotionalTone:      "proud",
				CharactersInvolved: []string{"Pete Dye"},
			},
		},
		Quotes: []*Quote{
			{
				Text:      "We're not building a golf course, we're uncovering one.",
				Speaker:   "Pete Dye",
				Timestamp: "0:01:15",
				Context:   "Explaining his routing philosophy to the camera operator.",
			},
		},
		Themes: []string{"Course construction", "Design philosophy"},
	}
	return out
}

// GetExampleDocument wraps the example analysis in a full AnalysisDocument,
// including a raw multimodal segment, for prompts and tests that need the
// complete top-level shape.
//
// Outputs:
//   - *AnalysisDocument: A pointer to a hardcoded AnalysisDocument object.
func GetExampleDocument() *AnalysisDocument {
	return &AnalysisDocument{
		VideoAnalysis: GetExampleAnalysis(),
		RawSegments: []*RawSegment{
			{
				TimestampRange:     "0:00:00 - 0:05:00",
				MultimodalAnalysis: "A man in work boots walks across cleared earth. Heavy construction equipment, a bulldozer shaping a mound of dirt. The man speaks to the camera about the routing of the holes.",
			},
		},
		ProcessingMetadata: &ProcessingMetadata{
			ModelName:    "gemini-2.0-flash",
			SegmentCount: 1,
			GeneratedAt:  "2025-06-01T12:00:00Z",
		},
	}
}
