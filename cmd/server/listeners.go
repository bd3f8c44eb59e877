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

// Package main contains the logic for setting up and starting the Pub/Sub
// message listeners. These listeners are responsible for initiating backend
// processing workflows in response to events, such as new footage uploads to
// Google Cloud Storage.
//
// Functions:
//   - SetupListeners: Initializes and starts the listener for the footage
//     topic, attaching the analysis workflow.
package main

import (
	"context"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/workflow"
)

// SetupListeners configures and starts the background Pub/Sub listeners.
// It creates the footage analysis workflow and attaches it to the footage
// topic listener.
//
// Inputs:
//   - config: The application's configuration, containing settings for storage, topics, etc.
//   - cloudClients: A struct containing all the initialized Google Cloud service clients.
//   - ctx: The application's root context, used to manage the lifecycle of the listeners.
//
// Outputs:
//   - This function does not return any value. It starts the listeners as background goroutines.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, ctx context.Context) {
	// Create the workflow for analyzing newly uploaded archival footage.
	// It uses the "analysis-pro" GenAI model configuration; empty command
	// paths resolve ffmpeg and ffprobe from the PATH.
	footageAnalysis := workflow.NewFootageAnalysisPipeline(config, cloudClients, "analysis-pro", "", "")

	// Assign the analysis workflow as the command to be executed by the listener for the footage topic.
	cloudClients.PubSubListeners["FootageTopic"].SetCommand(footageAnalysis)
	// Start the listener in a background goroutine. It will now begin receiving and processing messages from its subscription.
	cloudClients.PubSubListeners["FootageTopic"].Listen(ctx)
}
