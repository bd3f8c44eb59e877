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
// command that uploads the extracted highlight clips to their Google Cloud
// Storage (GCS) output bucket.
//
// Logic Flow:
// The clip extractor leaves one local file per planned clip, each paired
// with its destination object name. This command streams every one of them
// into the clip output bucket.
//
//  1. Get the clip artifacts from the context.
//  2. For each artifact, open the local file and stream it to the bucket
//     under the artifact's object name with `io.Copy`.
//  3. A failed upload records an error but the remaining clips still
//     upload; a partial set of clips beats none.
//  4. The analysis record passes through unchanged for the persistence
//     step. Local clip files are already tracked as temp files and are
//     removed when the workflow context closes.
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// GCSClipUpload is a command that uploads extracted clip files to a GCS
// bucket.
type GCSClipUpload struct {
	cor.BaseCommand
	client *storage.Client // The GCS client for interacting with the storage service.
	bucket string          // The name of the destination GCS bucket.
}

// NewGCSClipUpload is the constructor for creating a new GCSClipUpload
// command.
//
// Inputs:
//   - name: A string name for this command instance, used for logging and telemetry.
//   - client: An initialized *storage.Client for communicating with GCS.
//   - bucket: The name of the clip output bucket.
//
// Outputs:
//   - *GCSClipUpload: A pointer to the newly instantiated command.
func NewGCSClipUpload(name string, client *storage.Client, bucket string) *GCSClipUpload {
	return &GCSClipUpload{BaseCommand: *cor.NewBaseCommand(name), client: client, bucket: bucket}
}

// IsExecutable requires the artifact list to be present, even if empty.
func (c *GCSClipUpload) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(GetClipArtifactsParamName()) != nil
}

// Execute streams every clip artifact to the output bucket.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *GCSClipUpload) Execute(context cor.Context) {
	artifacts := context.Get(GetClipArtifactsParamName()).([]*ClipArtifact)
	record, _ := context.Get(GetAnalysisRecordParamName()).(*model.AnalysisRecord)

	writerBucket := c.client.Bucket(c.bucket)

	uploaded := 0
	for _, artifact := range artifacts {
		if err := c.uploadOne(context, writerBucket, artifact); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), err)
			continue
		}
		uploaded++
	}

	if uploaded == len(artifacts) {
		c.GetSuccessCounter().Add(context.GetContext(), 1)
	}
	log.Printf("uploaded %d of %d clips to gs://%s", uploaded, len(artifacts), c.bucket)

	context.Add(c.GetOutputParam(), record)
	context.Add(cor.CtxOut, record)
}

// uploadOne streams a single artifact into the bucket.
func (c *GCSClipUpload) uploadOne(context cor.Context, bucket *storage.BucketHandle, artifact *ClipArtifact) error {
	dat, err := os.Open(artifact.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open clip file %s: %w", artifact.LocalPath, err)
	}
	defer dat.Close()

	writer := bucket.Object(artifact.ObjectName).NewWriter(context.GetContext())

	if written, err := io.Copy(writer, dat); err != nil {
		// Close may also fail here; the copy error is the one that matters.
		_ = writer.Close()
		return fmt.Errorf("failed to copy clip to GCS, %d bytes written: %w", written, err)
	}

	// Close finalizes the upload; without it the object never materializes.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", artifact.ObjectName, err)
	}
	return nil
}
