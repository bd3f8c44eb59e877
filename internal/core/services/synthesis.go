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
// This file, `synthesis.go`, defines the SynthesisService, which serves the
// cross-video synthesis surface of the API. It can run the aggregation on
// demand over every analysis record in BigQuery, or hand back the cached
// report artifact the background refresh workflow last wrote to GCS.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
)

// SynthesisService encapsulates the clients and configuration needed to
// aggregate the archive. It holds the BigQuery client for reading analysis
// records, the storage client for the cached report artifacts, and a
// configured aggregator.
type SynthesisService struct {
	BigqueryClient *bigquery.Client      // Client for interacting with Google BigQuery.
	StorageClient  *storage.Client       // Client for interacting with Google Cloud Storage.
	Aggregator     *synthesis.Aggregator // The configured cross-video aggregation engine.
	DatasetName    string                // The name of the BigQuery dataset.
	AnalysisTable  string                // The name of the table holding analysis records.
	ReportBucket   string                // The GCS bucket holding the cached report artifacts.
}

// GetFQN returns the complete, queryable name for the analysis table,
// formatted with dots instead of colons.
func (s *SynthesisService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.AnalysisTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

// Synthesize runs the full cross-video aggregation on demand: it reads every
// analysis record from BigQuery, converts them to aggregation inputs, and
// returns the combined timeline, character registry, theme registry, and
// coverage report. The on-demand path skips the narrative so the response
// never waits on a model round trip; callers wanting the narrative read the
// cached artifact instead.
//
// Inputs:
//   - ctx: The context for the request, used for cancellation and tracing.
//
// Outputs:
//   - *synthesis.Result: The aggregation result over the whole archive.
//   - error: An error if the read fails.
func (s *SynthesisService) Synthesize(ctx context.Context) (*synthesis.Result, error) {
	queryText := fmt.Sprintf(QryReadAllRecords, s.GetFQN())
	q := s.BigqueryClient.Query(queryText)
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read from BigQuery: %w", err)
	}

	videos := make([]*synthesis.VideoRecord, 0)
	for {
		var record model.AnalysisRecord
		err := itr.Next(&record)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate results: %w", err)
		}
		video := &synthesis.VideoRecord{VideoName: record.VideoName}
		if record.Document != nil {
			video.Analysis = record.Document.VideoAnalysis
		}
		videos = append(videos, video)
	}

	return s.Aggregator.Aggregate(videos), nil
}

// RenderReport runs the on-demand aggregation and renders it as the
// human-readable Markdown report.
//
// Outputs:
//   - string: The rendered Markdown report.
//   - error: An error if the aggregation fails.
func (s *SynthesisService) RenderReport(ctx context.Context) (string, error) {
	result, err := s.Synthesize(ctx)
	if err != nil {
		return "", err
	}
	return synthesis.RenderReport(result), nil
}

// GetCachedArtifact reads one of the report artifacts the background refresh
// workflow last wrote to the report bucket (e.g., the Markdown report or the
// full JSON result). Unlike the on-demand path, the cached artifacts include
// the generated narrative.
//
// Inputs:
//   - ctx: The context for the request.
//   - objectName: The artifact's object name within the report bucket.
//
// Outputs:
//   - []byte: The artifact's contents.
//   - error: An error if the object does not exist or the read fails.
func (s *SynthesisService) GetCachedArtifact(ctx context.Context, objectName string) ([]byte, error) {
	reader, err := s.StorageClient.Bucket(s.ReportBucket).Object(objectName).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", objectName, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", objectName, err)
	}
	return data, nil
}
