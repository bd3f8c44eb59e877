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

// Package services contains the business logic for interacting with data sources.
// This file, `archive.go`, defines the ArchiveService, which is responsible for
// retrieving analysis records and clip plans from BigQuery and generating
// secure, time-limited URLs for streaming the extracted highlight clips from
// Google Cloud Storage (GCS).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// ArchiveService is a struct that encapsulates the clients and configuration
// needed to serve the footage archive. It acts as a data access layer,
// abstracting the details of interacting with BigQuery and GCS.
type ArchiveService struct {
	BigqueryClient *bigquery.Client                  // Client for interacting with Google BigQuery.
	StorageClient  *storage.Client                   // Client for interacting with Google Cloud Storage.
	IAMClient      *credentials.IamCredentialsClient // Client for interacting with IAM, used for signing URLs.
	SignerEmail    string                            // The service account email used to sign URLs.
	DatasetName    string                            // The name of the BigQuery dataset (e.g., "footage_ds").
	AnalysisTable  string                            // The name of the BigQuery table containing analysis records.
	ClipBucket     string                            // The GCS bucket holding the extracted highlight clips.
}

// GetFQN (Get Fully Qualified Name) returns the complete, queryable name for
// the analysis table in BigQuery, formatted with dots instead of colons.
// Example: `gcp-project-id.footage_ds.analysis`
//
// Outputs:
//   - string: The fully qualified table name.
func (s *ArchiveService) GetFQN() string {
	// Get the default fully qualified name (e.g., "gcp-project-id:footage_ds.analysis").
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.AnalysisTable).FullyQualifiedName()
	// Replace the colon with a period for compatibility with standard SQL queries.
	return strings.Replace(fqn, ":", ".", -1)
}

// Get retrieves a single analysis record from BigQuery based on its unique ID.
//
// Inputs:
//   - ctx: The context for the request, used for cancellation and tracing.
//   - id: The unique identifier of the analysis record to retrieve.
//
// Outputs:
//   - *model.AnalysisRecord: A pointer to the retrieved record.
//   - error: An error if the query fails or no record is found.
func (s *ArchiveService) Get(ctx context.Context, id string) (record *model.AnalysisRecord, err error) {
	// Construct the SQL query using the fully qualified table name and the provided ID.
	queryText := fmt.Sprintf(QryFindRecordById, s.GetFQN(), id)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return record, err
	}
	// IDs are unique, so we expect exactly one result.
	record = &model.AnalysisRecord{}
	err = itr.Next(record)
	return record, err
}

// List returns a lightweight catalog of the archive, newest record first.
// Only the identifying columns are read; the heavy analysis document stays
// in BigQuery until a caller asks for a specific record.
//
// Inputs:
//   - ctx: The context for the request.
//   - maxResults: The maximum number of records to return.
//
// Outputs:
//   - []*model.AnalysisRecord: The matching records with only their summary
//     fields populated.
//   - error: An error if the query or row scanning fails.
func (s *ArchiveService) List(ctx context.Context, maxResults int) (out []*model.AnalysisRecord, err error) {
	out = make([]*model.AnalysisRecord, 0)

	queryText := fmt.Sprintf(QryListRecords, s.GetFQN(), maxResults)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return out, fmt.Errorf("failed to read from BigQuery: %w", err)
	}

	for {
		var r = &model.AnalysisRecord{}
		err := itr.Next(r)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to iterate results: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ArchiveStats summarizes the whole archive for the dashboard.
type ArchiveStats struct {
	RecordCount          int64 `json:"record_count" bigquery:"record_count"`
	TotalDurationSeconds int64 `json:"total_duration_seconds" bigquery:"total_duration_seconds"`
}

// Stats returns the archive-wide record count and total footage duration.
//
// Inputs:
//   - ctx: The context for the request.
//
// Outputs:
//   - *ArchiveStats: The archive statistics.
//   - error: An error if the query fails.
func (s *ArchiveService) Stats(ctx context.Context) (*ArchiveStats, error) {
	queryText := fmt.Sprintf(QryCountRecords, s.GetFQN())
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	stats := &ArchiveStats{}
	if err := itr.Next(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetClips retrieves the planned clip list for one analysis record, in
// playback order.
//
// Inputs:
//   - ctx: The context for the request.
//   - id: The unique ID of the parent analysis record.
//
// Outputs:
//   - []*model.ClipCandidate: The clips planned for that record.
//   - error: An error if the query or row scanning fails.
func (s *ArchiveService) GetClips(ctx context.Context, id string) (out []*model.ClipCandidate, err error) {
	out = make([]*model.ClipCandidate, 0)

	queryText := fmt.Sprintf(QryGetClips, s.GetFQN(), id)
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return out, err
	}

	for {
		var c = &model.ClipCandidate{}
		err := itr.Next(c)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GenerateClipSignedURL creates a time-limited, secure URL to stream one
// extracted clip from the private clip bucket. This allows clients (like a
// web browser) to play clips directly from GCS without needing their own
// credentials. Signing goes through the IAM Credentials API with the
// configured service account, so no private key file is needed on the host.
//
// Inputs:
//   - ctx: The context for the request.
//   - objectName: The clip's object name within the clip bucket
//     (e.g., "8f14e45f/01-opening-ceremony.mp4").
//   - expires: The duration for which the URL will be valid.
//
// Outputs:
//   - string: The generated signed URL.
//   - error: An error if signing fails.
func (s *ArchiveService) GenerateClipSignedURL(ctx context.Context, objectName string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4, // Use the modern and more secure V4 signing scheme.
		Method:         "GET",                   // The URL will only be valid for GET requests.
		Expires:        time.Now().Add(expires), // Set the expiration time.
		GoogleAccessID: s.SignerEmail,

		// SignBytes delegates the signature to the IAM Credentials API. This
		// is the recommended approach when running on GCP infrastructure, as
		// it avoids the need for local service account keys.
		SignBytes: func(b []byte) ([]byte, error) {
			req := &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b, // The byte slice to be signed.
			}
			resp, err := s.IAMClient.SignBlob(ctx, req)
			if err != nil {
				return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
			}
			return resp.SignedBlob, nil
		},
	}

	u, err := s.StorageClient.Bucket(s.ClipBucket).SignedURL(objectName, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).SignedURL(%q): %w", s.ClipBucket, objectName, err)
	}
	return u, nil
}
