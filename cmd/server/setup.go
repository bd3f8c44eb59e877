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

package main

import (
	"context"
	"log"
	"os"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/services"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
	"github.com/reelarchive/footage-synthesis/internal/core/workflow"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config           *cloud.Config
	cloud            *cloud.ServiceClients
	archiveService   *services.ArchiveService
	synthesisService *services.SynthesisService
	refreshWorkflow  *workflow.SynthesisRefreshWorkflow
}

var state = &StateManager{}

// SetupOS points the configuration loader at the local runtime files.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

// GetConfig loads the application configuration once and caches it.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		// Create a default cloud config
		config := cloud.NewConfig()
		// Load it from the TOML files
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the application state and dependencies: the cloud
// service clients, the data services behind the API, the background
// synthesis refresh job, and the Pub/Sub listeners.
func InitState(ctx context.Context) {
	// Get the config file
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	datasetName := config.BigQueryDataSource.DatasetName
	analysisTableName := config.BigQueryDataSource.AnalysisTable

	state.archiveService = &services.ArchiveService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		IAMClient:      cloudClients.IAMClient,
		SignerEmail:    config.Application.SignerServiceAccountEmail,
		DatasetName:    datasetName,
		AnalysisTable:  analysisTableName,
		ClipBucket:     config.Storage.ClipOutputBucket,
	}

	state.synthesisService = &services.SynthesisService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		Aggregator: synthesis.NewAggregator(synthesis.Options{
			EraBoundaries: config.Synthesis.EraBoundaries,
			GapWindowMin:  config.Synthesis.GapWindowMin,
			GapWindowMax:  config.Synthesis.GapWindowMax,
		}),
		DatasetName:   datasetName,
		AnalysisTable: analysisTableName,
		ReportBucket:  config.Storage.ReportOutputBucket,
	}

	// The background job keeps the report artifacts fresh; the narrative
	// uses the lighter "narrative-flash" model configuration.
	state.refreshWorkflow = workflow.NewSynthesisRefreshWorkflow(config, cloudClients, "narrative-flash")
	state.refreshWorkflow.StartTimer()

	SetupListeners(config, cloudClients, ctx)
}
