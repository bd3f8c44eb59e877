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

// Package services_test contains the test suite for the services package.
// This file specifically tests the functionality of the SynthesisService.
package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/zeebo/assert"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/services"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
	test "github.com/reelarchive/footage-synthesis/internal/testutil"
)

// TestSynthesisService is an integration test for the Synthesize method of the
// SynthesisService. It initializes a full application stack (configuration,
// cloud clients), then creates an instance of the SynthesisService. It runs
// the cross-video aggregation against a live BigQuery backend and asserts
// that the operation completes without errors. This test validates the
// end-to-end flow of reading every analysis record and combining them into
// the archive-wide timeline, registries, and coverage report.
//
// Inputs:
//   - t: The testing framework's test handler.
func TestSynthesisService(t *testing.T) {
	// Create a new context with a cancel function. This allows us to gracefully
	// manage the lifecycle of the cloud clients and any background operations.
	ctx, cancel := context.WithCancel(context.Background())
	// The defer statement ensures that cancel() is called when the function exits,
	// which is crucial for releasing resources and preventing leaks.
	defer cancel()

	// Load the application configuration from .toml files using a test helper.
	// This helper sets the necessary environment variables to load test-specific configs.
	config := test.GetConfig()

	// Initialize all necessary Google Cloud service clients (Storage, Pub/Sub, GenAI, BigQuery)
	// based on the loaded configuration. This creates the 'live' environment for the test.
	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	// Use a test helper to fail the test immediately if client initialization fails.
	test.HandleErr(err, t)
	// Ensure that all client connections are closed when the test function completes.
	defer cloudClients.Close()

	// Retrieve a specific generative AI model from the initialized clients.
	// While not directly used in this test, this confirms that the agent models
	// were loaded correctly from the configuration.
	genModel := cloudClients.AgentModels["analysis-pro"]
	assert.NotNil(t, genModel)

	// Instantiate the SynthesisService with its dependencies: the BigQuery and
	// storage clients, a configured aggregator, and the names of the dataset
	// and table to read.
	synthesisService := &services.SynthesisService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		Aggregator: synthesis.NewAggregator(synthesis.Options{
			EraBoundaries: config.Synthesis.EraBoundaries,
			GapWindowMin:  config.Synthesis.GapWindowMin,
			GapWindowMax:  config.Synthesis.GapWindowMax,
		}),
		DatasetName:   config.BigQueryDataSource.DatasetName,
		AnalysisTable: config.BigQueryDataSource.AnalysisTable,
		ReportBucket:  config.Storage.ReportOutputBucket,
	}

	// Execute the method under test: Synthesize.
	// This reads every analysis record from the table and aggregates them into
	// the archive-wide timeline, character registry, theme registry, and
	// coverage report.
	result, err := synthesisService.Synthesize(ctx)

	// Perform a basic check for an error. If an error occurred, the test fails.
	if err != nil {
		t.Error(err)
	}

	// Use the zeebo/assert library for a more explicit assertion that the
	// error should be nil, providing clearer test output on failure.
	assert.Nil(t, err)
	assert.NotNil(t, result)

	// If the aggregation is successful, render and print the Markdown report.
	// This is useful for debugging and manually verifying the aggregation
	// output during development.
	fmt.Println(synthesis.RenderReport(result))
}
