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
// This file, `synthesis_refresh_test.go`, specifically tests the functionality of the
// `SynthesisRefreshWorkflow`. This workflow is responsible for periodically reading
// every analysis record from BigQuery, running the cross-video aggregation over
// them, and publishing the refreshed report artifacts to the report bucket.
package workflow_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
	"github.com/reelarchive/footage-synthesis/internal/core/workflow"
)

// TestSynthesisRefresh is an integration test that verifies the end-to-end
// process of the synthesis refresh workflow. It initializes and executes the
// workflow, then asserts that no errors occurred and that a synthesis result
// was produced. This confirms that the workflow can correctly query BigQuery,
// aggregate the records, and persist the report artifacts to GCS.
//
// Inputs:
//   - t: A pointer to the testing.T object, provided by the Go testing framework,
//     used for logging, error reporting, and assertions.
func TestSynthesisRefresh(t *testing.T) {
	// Start a new OpenTelemetry trace span for this test. This helps in monitoring
	// and debugging the test's execution in a distributed tracing system.
	// The `defer span.End()` ensures the span is closed when the function exits.
	traceCtx, span := tracer.Start(ctx, "synthesis-refresh-test")
	defer span.End()

	// Create a new chain of responsibility (cor) context. This context is used to pass
	// data and state between different commands within the workflow.
	chainCtx := cor.NewBaseContext()
	// Set the Go context (with tracing information) into our custom chain context.
	chainCtx.SetContext(traceCtx)

	// Initialize the synthesis refresh workflow using the shared configuration
	// and cloud clients that were set up in `base_test.go`. The narrative model
	// is left empty so the test exercises the aggregation and artifact writing
	// without a model round trip.
	refreshWorkflow := workflow.NewSynthesisRefreshWorkflow(config, cloudClients, "")

	// Execute the workflow. This reads every analysis record, aggregates them,
	// and writes the refreshed report artifacts.
	refreshWorkflow.Execute(chainCtx)

	// After execution, check the context for any errors that may have been added
	// by commands within the workflow. Log them for debugging purposes.
	for _, e := range chainCtx.GetErrors() {
		fmt.Printf("Error: %v \n", e)
	}

	// Use the testify/assert library to check that the workflow completed without errors.
	// This is the primary success condition for this test.
	assert.False(t, chainCtx.HasErrors())

	// The workflow leaves its aggregation result on the output key. Even with
	// an empty analysis table the result object itself must exist.
	result, ok := chainCtx.Get(cor.CtxOut).(*synthesis.Result)
	assert.True(t, ok)
	assert.NotNil(t, result)

	// If the test passes, set the status of the trace span to "Ok" to indicate a
	// successful execution in the tracing system.
	span.SetStatus(codes.Ok, "success")
}
