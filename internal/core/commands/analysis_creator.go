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
// command that produces the structured AI analysis of a whole video.
//
// Logic Flow:
// This is the heart of the archival analysis pipeline. Given the footage
// reference, it asks a generative model for a single JSON document covering
// the video: title, content type, summary, the people who appear, chapter
// timestamps, highlight moments, notable quotes, and themes.
//
//  1. It receives the `genai.FileData` reference from the context.
//  2. It builds the prompt from a Go template, injecting a complete example
//     document so the model sees the exact JSON shape it must return
//     (few-shot prompting).
//  3. It sends the footage reference and the prompt to the model in one
//     multimodal request.
//  4. The raw JSON string response goes into the context for the
//     `AnalysisJsonToStruct` command to parse.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel/metric"
	"google.golang.org/genai"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// AnalysisCreator is a command that uses a generative model to produce the
// structured analysis document for a video.
type AnalysisCreator struct {
	cor.BaseCommand
	config                   *cloud.Config                      // Application configuration, used for prompt templating.
	generativeAIModel        *cloud.QuotaAwareGenerativeAIModel // The rate-limited generative model client.
	template                 *template.Template                 // The Go template for building the prompt.
	geminiInputTokenCounter  metric.Int64Counter                // OTel counter for input tokens.
	geminiOutputTokenCounter metric.Int64Counter                // OTel counter for output tokens.
	geminiRetryCounter       metric.Int64Counter                // OTel counter for retries.
}

// NewAnalysisCreator is the constructor for the AnalysisCreator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - config: The application's configuration object.
//   - generativeAIModel: The rate-limited wrapper for the generative model client.
//   - template: A parsed Go template for the prompt.
//
// Outputs:
//   - *AnalysisCreator: A pointer to the newly instantiated command with
//     initialized telemetry counters.
func NewAnalysisCreator(
	name string,
	config *cloud.Config,
	generativeAIModel *cloud.QuotaAwareGenerativeAIModel,
	template *template.Template) *AnalysisCreator {

	out := &AnalysisCreator{
		BaseCommand:       *cor.NewBaseCommand(name),
		config:            config,
		generativeAIModel: generativeAIModel,
		template:          template}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))
	out.geminiRetryCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.retry", out.GetName()))

	return out
}

// GenerateParams creates the map of dynamic data injected into the prompt
// template.
//
// Outputs:
//   - map[string]interface{}: A map of keys and values for template substitution.
func (t *AnalysisCreator) GenerateParams(_ cor.Context) map[string]interface{} {
	params := make(map[string]interface{})

	// A complete, well-formed example document. Showing the model the
	// target shape makes the JSON output far more reliable than describing
	// the schema in prose.
	exampleDocument, _ := json.Marshal(model.GetExampleDocument())
	params["EXAMPLE_JSON"] = string(exampleDocument)
	return params
}

// Execute prompts the generative model for the analysis document.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *AnalysisCreator) Execute(context cor.Context) {
	videoFile := context.Get(t.GetInputParam()).(*genai.FileData)

	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(context))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{Text: buffer.String()},
			{FileData: &genai.FileData{
				FileURI:  videoFile.FileURI,
				MIMEType: videoFile.MIMEType,
			}},
		},
			Role: "user"},
	}

	out, err := cloud.GenerateMultiModalResponse(context.GetContext(), t.geminiInputTokenCounter, t.geminiOutputTokenCounter, t.geminiRetryCounter, 0, t.generativeAIModel, contents)
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("gemini request failed: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), out)
}
