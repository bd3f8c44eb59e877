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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that plans which highlight clips to cut from a video.
//
// Logic Flow:
// With the analysis record complete, this command runs the clip selection
// engine: chapters, highlights, legacy synthesis text, and raw segments all
// become candidates, the policy ranks and deduplicates them, and the
// surviving plan is attached to the record for the extractor to execute.
//
//  1. It receives the `model.AnalysisRecord` from the context.
//  2. It feeds the structured analysis, the raw segments, the probed
//     duration, and the per-video clip cap into the selector.
//  3. The selected candidates are stored on the record and the record pipes
//     on to the next command.
package commands

import (
	"log"

	"github.com/reelarchive/footage-synthesis/internal/core/clips"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// ClipPlanner is a command that runs the clip selection engine over an
// analysis record.
type ClipPlanner struct {
	cor.BaseCommand
	selector *clips.Selector // The compiled clip selection policy.
	maxClips int             // The per-video clip cap.
}

// NewClipPlanner is the constructor for the ClipPlanner command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - selector: The compiled clip selector.
//   - maxClips: The maximum number of clips to plan per video.
//
// Outputs:
//   - *ClipPlanner: A pointer to the newly instantiated command.
func NewClipPlanner(name string, selector *clips.Selector, maxClips int) *ClipPlanner {
	return &ClipPlanner{BaseCommand: *cor.NewBaseCommand(name), selector: selector, maxClips: maxClips}
}

// Execute runs the selection and attaches the plan to the record.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *ClipPlanner) Execute(context cor.Context) {
	record := context.Get(c.GetInputParam()).(*model.AnalysisRecord)

	var analysis *model.VideoAnalysis
	var segments []*model.RawSegment
	if record.Document != nil {
		analysis = record.Document.VideoAnalysis
		segments = record.Document.RawSegments
	}

	record.Clips = c.selector.Select(analysis, segments, record.DurationSeconds, c.maxClips)
	log.Printf("planned %d clips for video %s", len(record.Clips), record.VideoName)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), record)
	context.Add(cor.CtxOut, record)
}
