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

// Package model defines the core data structures for the application.
// This file holds the per-video analysis document: the structured output the
// generative model produces for a single piece of archival footage. The same
// shapes serve three roles — the JSON contract with the model (json tags),
// the BigQuery row layout for persistence (bigquery tags), and the in-memory
// input to the clip selection and cross-video synthesis engines.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Character is one person identified in a video's footage.
type Character struct {
	Name        string `json:"name" bigquery:"name"`                         // The person's name as the model transcribed it.
	Role        string `json:"role,omitempty" bigquery:"role"`               // e.g. "golf course architect", "club president".
	Description string `json:"description,omitempty" bigquery:"description"` // A short free-text description.
	IsSpeaking  bool   `json:"is_speaking" bigquery:"is_speaking"`           // Whether the person speaks on camera, as opposed to only appearing.
}

// Chapter is a titled, contiguous span of a single video with known start and
// end timecodes and the characters present in that span.
type Chapter struct {
	Title             string   `json:"title" bigquery:"title"`
	StartTime         string   `json:"start_time" bigquery:"start_time"` // Timecode string, e.g. "0:01:30".
	EndTime           string   `json:"end_time" bigquery:"end_time"`     // Timecode string.
	Summary           string   `json:"summary,omitempty" bigquery:"summary"`
	CharactersPresent []string `json:"characters_present,omitempty" bigquery:"characters_present"`
}

// Highlight is a single notable moment: one timestamp, an emotional tone,
// and the characters involved.
type Highlight struct {
	Title              string   `json:"title" bigquery:"title"`
	Description        string   `json:"description,omitempty" bigquery:"description"`
	Timestamp          string   `json:"timestamp" bigquery:"timestamp"` // Timecode string of the moment.
	EmotionalTone      string   `json:"emotional_tone,omitempty" bigquery:"emotional_tone"`
	CharactersInvolved []string `json:"characters_involved,omitempty" bigquery:"characters_involved"`
}

// Quote is a notable line of speech attributed to a speaker.
type Quote struct {
	Text      string `json:"text" bigquery:"text"`
	Speaker   string `json:"speaker,omitempty" bigquery:"speaker"`
	Timestamp string `json:"timestamp,omitempty" bigquery:"timestamp"`
	Context   string `json:"context,omitempty" bigquery:"context"`
}

// VideoAnalysis is the structured analysis of one video. Older analysis runs
// predate the structured chapter/highlight lists; for those, SynthesisText
// carries the free-form narrative the legacy regex extractors mine instead.
type VideoAnalysis struct {
	Title         string       `json:"title" bigquery:"title"`
	ContentType   string       `json:"content_type,omitempty" bigquery:"content_type"` // e.g. "documentary", "raw_footage", "ceremony".
	Summary       string       `json:"summary,omitempty" bigquery:"summary"`
	Characters    []*Character `json:"characters,omitempty" bigquery:"characters"`
	Chapters      []*Chapter   `json:"chapters,omitempty" bigquery:"chapters"`
	Highlights    []*Highlight `json:"highlights,omitempty" bigquery:"highlights"`
	Quotes        []*Quote     `json:"quotes,omitempty" bigquery:"quotes"`
	Themes        []string     `json:"themes,omitempty" bigquery:"themes"`
	SynthesisText string       `json:"synthesis_text,omitempty" bigquery:"synthesis_text"`
}

// RawSegment is one window of low-level multimodal analysis text covering a
// timestamp range of the source video. Raw segments are the fallback evidence
// for clip selection when a video has no usable structured analysis.
type RawSegment struct {
	TimestampRange     string `json:"timestamp_range" bigquery:"timestamp_range"` // e.g. "0:05:00 - 0:10:00".
	MultimodalAnalysis string `json:"multimodal_analysis" bigquery:"multimodal_analysis"`
}

// ProcessingMetadata records how an analysis document was produced.
type ProcessingMetadata struct {
	ModelName    string `json:"model_name,omitempty" bigquery:"model_name"`
	SegmentCount int    `json:"segment_count,omitempty" bigquery:"segment_count"`
	GeneratedAt  string `json:"generated_at,omitempty" bigquery:"generated_at"`
}

// AnalysisDocument is the full JSON document for one video: the structured
// analysis, the raw per-window segments it was distilled from, and the
// processing metadata. This is the unit of persistence and the unit of
// exchange between the per-video pipeline and the cross-video synthesis.
type AnalysisDocument struct {
	VideoAnalysis      *VideoAnalysis      `json:"video_analysis" bigquery:"video_analysis"`
	RawSegments        []*RawSegment       `json:"raw_segments,omitempty" bigquery:"raw_segments"`
	ProcessingMetadata *ProcessingMetadata `json:"processing_metadata,omitempty" bigquery:"processing_metadata"`
}

// ParseAnalysisDocument converts raw model output (or a stored document) into
// an AnalysisDocument. Parsing is the fallible boundary step of the pipeline:
// downstream engines assume they receive either a valid document or nil, so
// all malformed-input handling is concentrated here.
//
// Inputs:
//   - data: The raw JSON bytes.
//
// Outputs:
//   - *AnalysisDocument: The parsed document with non-nil slice fields.
//   - error: Set when the JSON is malformed or the required top-level
//     "video_analysis" object is missing.
func ParseAnalysisDocument(data []byte) (*AnalysisDocument, error) {
	var doc AnalysisDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis document: %w", err)
	}
	if doc.VideoAnalysis == nil {
		return nil, fmt.Errorf("analysis document is missing the video_analysis object")
	}
	// Normalize nil slices so consumers can range without nil checks.
	va := doc.VideoAnalysis
	if va.Characters == nil {
		va.Characters = make([]*Character, 0)
	}
	if va.Chapters == nil {
		va.Chapters = make([]*Chapter, 0)
	}
	if va.Highlights == nil {
		va.Highlights = make([]*Highlight, 0)
	}
	if va.Quotes == nil {
		va.Quotes = make([]*Quote, 0)
	}
	if va.Themes == nil {
		va.Themes = make([]string, 0)
	}
	if doc.RawSegments == nil {
		doc.RawSegments = make([]*RawSegment, 0)
	}
	return &doc, nil
}

// AnalysisRecord is the persistent BigQuery row for one analyzed video. The
// ID is a UUIDv5 hash of the video file name, so re-running the pipeline on
// the same file produces the same row key instead of a duplicate.
type AnalysisRecord struct {
	Id              string            `json:"id" bigquery:"id"`
	VideoName       string            `json:"video_name" bigquery:"video_name"`
	DurationSeconds int               `json:"duration_seconds" bigquery:"duration_seconds"`
	CreateDate      time.Time         `json:"create_date" bigquery:"create_date"`
	Document        *AnalysisDocument `json:"document" bigquery:"document"`
	Clips           []*ClipCandidate  `json:"clips,omitempty" bigquery:"clips"`
}

// NewAnalysisRecord is the constructor for AnalysisRecord.
//
// Inputs:
//   - videoName: The source video file name, hashed into the record ID.
//
// Outputs:
//   - *AnalysisRecord: A record with a deterministic ID, the current creation
//     timestamp, and an initialized (empty) clip list.
func NewAnalysisRecord(videoName string) *AnalysisRecord {
	return &AnalysisRecord{
		Id:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(videoName)).String(),
		VideoName:  videoName,
		CreateDate: time.Now(),
		Clips:      make([]*ClipCandidate, 0),
	}
}
