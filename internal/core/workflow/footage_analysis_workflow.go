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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the primary footage analysis workflow: from upload notification to
// persisted analysis record and extracted highlight clips.
package workflow

import (
	"strings"
	"text/template"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/clips"
	"github.com/reelarchive/footage-synthesis/internal/core/commands"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// DefaultFfmpegCommand and DefaultFfprobeCommand assume the binaries are on
// the system PATH.
const (
	DefaultFfmpegCommand  = "ffmpeg"
	DefaultFfprobeCommand = "ffprobe"
)

// DefaultSegmentWindowSeconds is the length of each raw analysis window.
// Five-minute windows keep the per-window prompts well inside the model's
// attention while bounding the request count for long footage.
const DefaultSegmentWindowSeconds = 300

// FootageAnalysisWorkflow orchestrates the entire process of analyzing one
// piece of archival footage. It is structured as a Chain of Responsibility
// (cor.Chain) executing a sequence of commands: file handling, AI analysis,
// clip planning, clip extraction, and persistence.
//
// The workflow is triggered by a Pub/Sub message indicating that new
// footage has landed in the input GCS bucket.
type FootageAnalysisWorkflow struct {
	cor.BaseCommand
	config           *cloud.Config
	bigqueryClient   *bigquery.Client
	genaiModel       *cloud.QuotaAwareGenerativeAIModel
	storageClient    *storage.Client
	selector         *clips.Selector
	numberOfWorkers  int
	ffmpegCommand    string
	ffprobeCommand   string
	analysisTemplate *template.Template
	segmentTemplate  *template.Template
	chain            cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the workflow by invoking the underlying chain with the
// context carrying the initial trigger message.
//
// Inputs:
//   - context: The chain of responsibility context for this execution.
func (m *FootageAnalysisWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this
// workflow. The output of each command pipes into the next. Called by the
// constructor.
func (m *FootageAnalysisWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Parse the incoming Pub/Sub notification into a structured
	// GCS object reference.
	out.AddCommand(commands.NewFootageTriggerToGCSObject("footage-trigger-to-gcs-object"))

	// Step 2: Download the footage to a local temp file. The local copy
	// feeds ffprobe now and the clip extractor at the end of the chain.
	out.AddCommand(commands.NewGCSToTempFile("gcs-to-temp-file", m.storageClient, "footage-"))

	// Step 3: Probe the duration. A probe failure records zero and moves
	// on; duration only gates filler clips and segment windows.
	out.AddCommand(commands.NewFFProbeCommand("probe-duration", m.ffprobeCommand))

	// Step 4: Build the genai file reference. The model analyzes the video
	// straight from its GCS URI.
	out.AddCommand(commands.NewFootageReference("footage-reference"))

	// Step 5: Generate the structured analysis document with Gemini:
	// characters, chapters, highlights, quotes, and themes as one JSON
	// document.
	out.AddCommand(commands.NewAnalysisCreator("generate-analysis", m.config, m.genaiModel, m.analysisTemplate))

	// Step 6: Parse the model's JSON into the typed analysis record, keyed
	// by the video name with its probed duration attached.
	out.AddCommand(commands.NewAnalysisJsonToStruct("convert-analysis", commands.GetAnalysisRecordParamName()))

	// Step 7: Collect raw per-window analysis in parallel with a worker
	// pool. These segments back up clip selection on thin analyses.
	out.AddCommand(commands.NewSegmentExtractor("extract-segments", m.genaiModel, m.segmentTemplate, m.numberOfWorkers, DefaultSegmentWindowSeconds))

	// Step 8: Run the clip selection engine over the finished record.
	out.AddCommand(commands.NewClipPlanner("plan-clips", m.selector, m.config.Application.MaxClipsPerVideo))

	// Step 9: Cut the planned clips from the local copy with ffmpeg stream
	// copies, in parallel.
	out.AddCommand(commands.NewClipExtractor("extract-clips", m.ffmpegCommand, m.numberOfWorkers))

	// Step 10: Upload the clips to the output bucket.
	out.AddCommand(commands.NewGCSClipUpload("upload-clips", m.storageClient, m.config.Storage.ClipOutputBucket))

	// Step 11: Persist the complete record, clip plan included, to the
	// analysis table in BigQuery for the cross-video synthesis engine.
	out.AddCommand(commands.NewAnalysisPersistToBigQuery(
		"write-to-bigquery",
		m.bigqueryClient,
		m.config.BigQueryDataSource.DatasetName,
		m.config.BigQueryDataSource.AnalysisTable,
		commands.GetAnalysisRecordParamName()))

	m.chain = out
}

// NewFootageAnalysisPipeline is the constructor for the
// FootageAnalysisWorkflow. It compiles the prompt templates and the clip
// selection policy, then builds the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: A struct containing initialized clients for GCP services.
//   - agentModelName: The name of the Vertex AI agent model config to use
//     (e.g., "analysis-pro").
//   - ffmpegCommand: The path to the ffmpeg executable. If empty, "ffmpeg" is used.
//   - ffprobeCommand: The path to the ffprobe executable. If empty, "ffprobe" is used.
//
// Returns:
//   - A pointer to a newly created and fully initialized FootageAnalysisWorkflow.
func NewFootageAnalysisPipeline(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	agentModelName string,
	ffmpegCommand string,
	ffprobeCommand string) *FootageAnalysisWorkflow {

	// The app cannot run without valid templates or a compilable policy, so
	// construction failures panic.
	analysisTemplate, err := template.New("analysis-template").Parse(config.PromptTemplates.AnalysisPrompt)
	if err != nil {
		panic(err)
	}
	segmentTemplate, err := template.New("segment-template").Parse(config.PromptTemplates.SegmentPrompt)
	if err != nil {
		panic(err)
	}
	selector, err := clips.NewSelector(config.ClipPolicy)
	if err != nil {
		panic(err)
	}

	if len(strings.Trim(ffmpegCommand, " ")) == 0 {
		ffmpegCommand = DefaultFfmpegCommand
	}
	if len(strings.Trim(ffprobeCommand, " ")) == 0 {
		ffprobeCommand = DefaultFfprobeCommand
	}

	pipeline := &FootageAnalysisWorkflow{
		BaseCommand:      *cor.NewBaseCommand("footage-analysis-pipeline"),
		config:           config,
		bigqueryClient:   serviceClients.BigQueryClient,
		genaiModel:       serviceClients.AgentModels[agentModelName],
		storageClient:    serviceClients.StorageClient,
		selector:         selector,
		numberOfWorkers:  config.Application.ThreadPoolSize,
		ffmpegCommand:    ffmpegCommand,
		ffprobeCommand:   ffprobeCommand,
		analysisTemplate: analysisTemplate,
		segmentTemplate:  segmentTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
