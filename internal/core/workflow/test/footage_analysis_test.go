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

// Package workflow_test contains integration tests for the core application workflows.
// This file, `footage_analysis_test.go`, tests the complete `FootageAnalysisPipeline`.
// This workflow is the heart of the system, triggered when new archival footage
// lands in the input bucket. It handles downloading the video, sending it to
// Vertex AI for structured analysis, planning and cutting the highlight clips,
// and persisting the finished analysis record to BigQuery.
package workflow_test

import (
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"

	"github.com/reelarchive/footage-synthesis/internal/core/commands"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/workflow"
	test "github.com/reelarchive/footage-synthesis/internal/testutil"
)

// TestFootageAnalysisChain performs an end-to-end integration test of the
// footage analysis workflow (`FootageAnalysisPipeline`). It simulates a
// Pub/Sub trigger from a footage upload and runs the entire chain of
// commands to process it. The test's success is determined by whether the
// workflow completes without any errors being added to its context.
//
// Inputs:
//   - t: A pointer to the testing.T object, provided by the Go testing framework,
//     used for logging, error reporting, and assertions.
func TestFootageAnalysisChain(t *testing.T) {
	// Start a new OpenTelemetry trace span. This allows us to trace the execution
	// of this specific test within a distributed tracing system like Google Cloud Trace.
	traceCtx, span := tracer.Start(ctx, "footage-analysis-test")
	defer span.End()

	// Initialize the primary workflow to be tested: the FootageAnalysisPipeline.
	// We pass it the shared config and cloud clients, and specify "analysis-pro"
	// as the name of the generative model configuration to use for the analysis.
	// Empty command paths mean ffmpeg and ffprobe resolve from the PATH.
	footageAnalysis := workflow.NewFootageAnalysisPipeline(config, cloudClients, "analysis-pro", "", "")

	// Create a new chain of responsibility (cor) context to manage state
	// throughout the workflow execution.
	chainCtx := cor.NewBaseContext()
	// Pass the Go context (which includes our tracing information) into the chain context.
	chainCtx.SetContext(traceCtx)
	// Set the initial input for the workflow. We use a helper function to get a
	// JSON string that mimics a real Pub/Sub notification from a GCS event.
	chainCtx.Add(cor.CtxIn, test.GetTestFootageMessageText())
	// Release the downloaded source footage and the local clip files once the
	// workflow finishes.
	defer chainCtx.Close()

	// Execute the entire footage analysis workflow.
	footageAnalysis.Execute(chainCtx)

	// After execution, loop through any errors that were recorded in the context
	// by the workflow's commands and print them for debugging.
	for k, err := range chainCtx.GetErrors() {
		fmt.Printf("Error: (%s): %v\n", k, err)
	}

	// If the context contains any errors, we mark the trace span with an error status.
	if chainCtx.HasErrors() {
		span.SetStatus(codes.Error, "failed to execute footage analysis test")
	}

	// The primary assertion of the test: verify that the workflow's context has no errors.
	// If this passes, it means every command in the chain executed successfully.
	assert.False(t, chainCtx.HasErrors())

	// Mark the trace span as "Ok" to signify a successful test run.
	span.SetStatus(codes.Ok, "passed - footage analysis test")

	// For debugging purposes, log the final analysis record that was assembled
	// by the workflow. This can be useful for manually verifying the output.
	log.Println(chainCtx.Get(commands.GetAnalysisRecordParamName()))
}
