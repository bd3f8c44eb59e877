// Copyright 2025 Reel Archive Works, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// data transformation step between the generative model and the rest of
// the pipeline.
//
// Logic Flow:
// This command follows the `AnalysisCreator` in the chain. It takes the raw
// JSON string the model produced and turns it into the strongly-typed
// analysis record the clip planner and the persistence step work with.
//
//  1. It receives the raw JSON string from the context.
//  2. It parses it through `model.ParseAnalysisDocument`, the single
//     fallible boundary for malformed model output.
//  3. It builds an `model.AnalysisRecord` keyed by the triggering video's
//     name, attaching the parsed document and the probed duration.
//  4. The record goes into the context under a well-known key and as the
//     next command's input.
package commands

import (
	"fmt"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// GetAnalysisRecordParamName returns the context key under which the
// in-progress analysis record is stored for the rest of the workflow.
func GetAnalysisRecordParamName() string {
	return "__ANALYSIS_RECORD__"
}

// AnalysisJsonToStruct is a command that parses the model's JSON output
// into an AnalysisRecord.
type AnalysisJsonToStruct struct {
	cor.BaseCommand
}

// NewAnalysisJsonToStruct is the constructor for the AnalysisJsonToStruct
// command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - outputParamName: The context key where the resulting record is stored.
//
// Outputs:
//   - *AnalysisJsonToStruct: A pointer to the newly instantiated command.
func NewAnalysisJsonToStruct(name string, outputParamName string) *AnalysisJsonToStruct {
	out := AnalysisJsonToStruct{BaseCommand: *cor.NewBaseCommand(name)}
	out.OutputParamName = outputParamName
	return &out
}

// Execute parses the JSON and assembles the analysis record.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *AnalysisJsonToStruct) Execute(context cor.Context) {
	in := context.Get(s.GetInputParam()).(string)

	gcsFile := context.Get(cloud.GetGCSObjectName()).(*cloud.GCSObject)

	doc, err := model.ParseAnalysisDocument([]byte(in))
	if err != nil {
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("failed to parse analysis document: %w", err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)

	record := model.NewAnalysisRecord(gcsFile.Name)
	record.Document = doc
	if duration, ok := context.Get(GetVideoDurationParamName()).(int); ok {
		record.DurationSeconds = duration
	}

	context.Add(GetAnalysisRecordParamName(), record)
	context.Add(s.GetOutputParam(), record)
	context.Add(cor.CtxOut, record)
}
