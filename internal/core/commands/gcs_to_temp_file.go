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
// Responsibility (COR) pattern's Command interface. This file defines a
// command for downloading an object from Google Cloud Storage (GCS) to a
// local temporary file.
//
// Logic Flow:
// This command bridges the GCS-based workflow and the local tools that need
// a file on disk (ffprobe for duration, ffmpeg for clip extraction).
//
//  1. Receives a `cloud.GCSObject` from the context with the bucket and
//     object name.
//  2. Creates a reader for the GCS object and an empty local temp file.
//  3. Streams the content from GCS into the temp file with `io.Copy`.
//  4. Stores the local path both as the next command's input and under a
//     well-known key, since the clip extractor needs the source file again
//     after the AI analysis steps have run.
//  5. Tracks the temp file in the context for cleanup when the workflow
//     finishes.
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
)

// GetLocalVideoPathParamName returns the context key under which the local
// path of the downloaded source footage is stored for the whole workflow.
func GetLocalVideoPathParamName() string {
	return "__LOCAL_VIDEO_PATH__"
}

// GCSToTempFile is a command implementation that downloads an object from
// GCS and saves it as a temporary file on the local filesystem.
type GCSToTempFile struct {
	cor.BaseCommand
	client         *storage.Client // The GCS client for interacting with the storage service.
	tempFilePrefix string          // A prefix for naming the temporary file (e.g., "footage-").
}

// NewGCSToTempFile is the constructor for creating a new GCSToTempFile command.
//
// Inputs:
//   - name: A string name for this command instance, used for logging and telemetry.
//   - client: An initialized *storage.Client for communicating with GCS.
//   - tempFilePrefix: A string prefix for the temporary file's name.
//
// Outputs:
//   - *GCSToTempFile: A pointer to the newly instantiated command.
func NewGCSToTempFile(name string, client *storage.Client, tempFilePrefix string) *GCSToTempFile {
	return &GCSToTempFile{
		BaseCommand:    *cor.NewBaseCommand(name),
		client:         client,
		tempFilePrefix: tempFilePrefix,
	}
}

// Execute downloads the GCS object to a local temporary file.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *GCSToTempFile) Execute(context cor.Context) {
	msg := context.Get(c.GetInputParam()).(*cloud.GCSObject)

	readerBucket := c.client.Bucket(msg.Bucket)
	obj := readerBucket.Object(msg.Name)

	reader, err := obj.NewReader(context.GetContext())
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to create GCS reader for gs://%s/%s: %w", msg.Bucket, msg.Name, err))
		return
	}
	defer func(reader *storage.Reader) {
		err := reader.Close()
		if err != nil {
			// The data may have been read fully; log and continue.
			log.Printf("failed to close GCS reader: %v\n", err)
		}
	}(reader)

	tempFile, err := os.CreateTemp("", c.tempFilePrefix)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("could not create temp file: %w", err))
		return
	}

	// Streams in chunks; the footage never sits fully in memory.
	written, err := io.Copy(tempFile, reader)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		log.Printf("failed to copy GCS object to local file, %d bytes written: %v\n", written, err)
		context.AddError(c.GetName(), err)
		_ = tempFile.Close()
		return
	}
	_ = tempFile.Close()

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	log.Printf("downloaded gs://%s/%s to local file %s (%d bytes)", msg.Bucket, msg.Name, tempFile.Name(), written)

	// Tracked for removal when the workflow context closes.
	context.AddTempFile(tempFile.Name())
	context.Add(GetLocalVideoPathParamName(), tempFile.Name())
	context.Add(c.GetOutputParam(), tempFile.Name())
}
