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
// first command of the footage analysis workflow.
//
// Logic Flow:
// When a piece of archival footage lands in the input bucket, GCS publishes
// a notification message to a Pub/Sub topic. This command parses that
// message.
//
//  1. The command receives the raw Pub/Sub message data as a JSON string
//     from the context.
//  2. It unmarshals the JSON into a `cloud.GCSPubSubNotification`, the full
//     structure of the GCS notification.
//  3. It extracts the essentials: bucket name, object name, content type.
//  4. It builds a simplified `cloud.GCSObject` from them and places it back
//     into the context under a well-known key, so downstream commands can
//     find the file without understanding the notification format.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// FootageTriggerToGCSObject is a command that parses a GCS Pub/Sub
// notification and extracts key file information into a simplified GCSObject.
type FootageTriggerToGCSObject struct {
	cor.BaseCommand
}

// NewFootageTriggerToGCSObject is the constructor for the
// FootageTriggerToGCSObject command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *FootageTriggerToGCSObject: A pointer to the newly instantiated command.
func NewFootageTriggerToGCSObject(name string) *FootageTriggerToGCSObject {
	return &FootageTriggerToGCSObject{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the GCS notification message.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution,
//     containing the raw message data in the input parameter.
func (c *FootageTriggerToGCSObject) Execute(context cor.Context) {
	in := context.Get(c.GetInputParam()).(string)

	var out cloud.GCSPubSubNotification
	err := json.Unmarshal([]byte(in), &out)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal GCS notification: %w", err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)

	msg := &cloud.GCSObject{Bucket: out.Bucket, Name: out.Name, MIMEType: out.ContentType}

	// The well-known key lets any later command locate the triggering file.
	context.Add(cloud.GetGCSObjectName(), msg)

	// Also the default output, so the object pipes into the next command.
	context.Add(c.GetOutputParam(), msg)
}
