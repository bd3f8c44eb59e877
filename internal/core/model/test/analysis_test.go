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

// Package model_test contains unit tests for the data models defined in the
// model package: the analysis-document parser, the persistent record
// constructor, and clip file naming.
package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestNewAnalysisRecord verifies that the record ID is a UUIDv5 hash of the
// video file name (so re-ingesting a file is idempotent), that the creation
// timestamp is current, and that the clip list starts empty rather than nil.
func TestNewAnalysisRecord(t *testing.T) {
	videoName := "1984-construction-reel.mp4"
	record := model.NewAnalysisRecord(videoName)

	generatedID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(videoName))
	assert.Equal(t, generatedID.String(), record.Id)
	assert.Equal(t, videoName, record.VideoName)
	assert.WithinDuration(t, time.Now(), record.CreateDate, time.Second)
	assert.NotNil(t, record.Clips)
	assert.Equal(t, 0, len(record.Clips))
}

// TestParseAnalysisDocument round-trips the hardcoded example document and
// checks that the parser normalizes absent slice fields to empty slices.
func TestParseAnalysisDocument(t *testing.T) {
	data, err := json.Marshal(model.GetExampleDocument())
	assert.NoError(t, err)

	doc, err := model.ParseAnalysisDocument(data)
	assert.NoError(t, err)
	assert.Equal(t, "Course Construction - Spring 1984", doc.VideoAnalysis.Title)
	assert.Equal(t, 2, len(doc.VideoAnalysis.Chapters))
	assert.Equal(t, 1, len(doc.RawSegments))
	// The speaking flag survives the round-trip in both states.
	assert.True(t, doc.VideoAnalysis.Characters[0].IsSpeaking)
	assert.False(t, doc.VideoAnalysis.Characters[1].IsSpeaking)

	// A minimal document gets its slices initialized.
	doc, err = model.ParseAnalysisDocument([]byte(`{"video_analysis": {"title": "Bare"}}`))
	assert.NoError(t, err)
	assert.NotNil(t, doc.VideoAnalysis.Chapters)
	assert.NotNil(t, doc.VideoAnalysis.Highlights)
	assert.NotNil(t, doc.VideoAnalysis.Themes)
	assert.NotNil(t, doc.RawSegments)
}

// TestParseAnalysisDocumentErrors verifies the two failure modes: malformed
// JSON and a document missing the required video_analysis object.
func TestParseAnalysisDocumentErrors(t *testing.T) {
	_, err := model.ParseAnalysisDocument([]byte(`{"video_analysis": `))
	assert.Error(t, err)

	_, err = model.ParseAnalysisDocument([]byte(`{"raw_segments": []}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "video_analysis")
}

// TestClipFileName checks the slug rules: unsafe characters stripped,
// whitespace and dash runs collapsed, lowercased, length capped, and a
// fallback slug when nothing survives sanitization.
func TestClipFileName(t *testing.T) {
	clip := &model.ClipCandidate{Description: `Pete Dye: "The Island Green" / Take 2`}
	assert.Equal(t, "01-pete-dye-the-island-green-take-2.mp4", clip.FileName(1))

	long := &model.ClipCandidate{Description: "A very long description that keeps going well past the fifty character cap on slugs"}
	name := long.FileName(12)
	assert.Equal(t, "12-a-very-long-description-that-keeps-going-well-past.mp4", name)

	empty := &model.ClipCandidate{Description: `???///`}
	assert.Equal(t, "07-clip.mp4", empty.FileName(7))
}

// TestClipEndSeconds is a sanity check on the end-offset helper.
func TestClipEndSeconds(t *testing.T) {
	clip := &model.ClipCandidate{StartSeconds: 170, DurationSeconds: 90}
	assert.Equal(t, 260, clip.EndSeconds())
}
