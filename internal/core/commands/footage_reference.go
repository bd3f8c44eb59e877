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
// command that builds the model-facing reference to the source footage.
//
// Logic Flow:
// The genai library analyzes video straight from its GCS URI; nothing is
// uploaded to a separate file service. This command turns the triggering
// GCS object into the `genai.FileData` reference that the analysis and
// segment commands attach to their multimodal prompts.
//
//  1. Retrieve the `cloud.GCSObject` from the context.
//  2. Build a `genai.FileData` with the gs:// URI and the MIME type.
//  3. Store it under a well-known key for every AI command in the chain.
package commands

import (
	"fmt"

	"google.golang.org/genai"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// GetVideoFileParameterName returns the canonical context key for the
// `genai.FileData` reference to the source footage. Using a function keeps
// the key consistent across the commands that read it.
func GetVideoFileParameterName() string {
	return "__VIDEO_FILE__"
}

// FootageReference is a command that builds the genai file reference for
// the footage being processed.
type FootageReference struct {
	cor.BaseCommand
}

// NewFootageReference is the constructor for the FootageReference command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *FootageReference: A pointer to the newly instantiated command.
func NewFootageReference(name string) *FootageReference {
	return &FootageReference{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires the triggering GCS object to be present.
func (v *FootageReference) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(cloud.GetGCSObjectName()) != nil
}

// Execute builds the file reference and stores it in the context.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (v *FootageReference) Execute(context cor.Context) {
	gcsFile := context.Get(cloud.GetGCSObjectName()).(*cloud.GCSObject)

	fileRef := &genai.FileData{
		FileURI:  fmt.Sprintf("gs://%s/%s", gcsFile.Bucket, gcsFile.Name),
		MIMEType: gcsFile.MIMEType,
	}

	v.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetVideoFileParameterName(), fileRef)
	context.Add(v.GetOutputParam(), fileRef)
}
