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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the background job that keeps the cross-video synthesis artifacts fresh.
package workflow

import (
	goctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/iterator"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
	"github.com/reelarchive/footage-synthesis/internal/core/synthesis"
)

// Report artifact object names in the report bucket.
const (
	ReportObjectName = "synthesis/report.md"
	ResultObjectName = "synthesis/result.json"
)

// SynthesisRefreshWorkflow is a background job that periodically re-runs the
// cross-video aggregation over every analysis record in BigQuery and writes
// the refreshed artifacts (Markdown report plus the full JSON result) to the
// report bucket. It implements the cor.Command interface so it can also be
// invoked on demand from the API, but it is designed to run on a timer.
type SynthesisRefreshWorkflow struct {
	cor.BaseCommand
	bigqueryClient   *bigquery.Client
	storageClient    *storage.Client
	aggregator       *synthesis.Aggregator
	narrative        *synthesis.NarrativeGenerator
	reportBucket     string
	readRecordsQuery string
}

// NewSynthesisRefreshWorkflow is the constructor for the synthesis refresh
// workflow. It builds the BigQuery query for reading every analysis record
// and wires the aggregator and the narrative generator from configuration.
//
// Inputs:
//   - config: The application's overall configuration object.
//   - serviceClients: A struct containing all the initialized Google Cloud service clients.
//   - narrativeModelName: The agent model config to use for the narrative,
//     empty for no narrative.
//
// Returns:
//   - A pointer to a newly created and configured SynthesisRefreshWorkflow.
func NewSynthesisRefreshWorkflow(config *cloud.Config, serviceClients *cloud.ServiceClients, narrativeModelName string) *SynthesisRefreshWorkflow {
	// Fully qualified table name, dotted rather than colon-separated so it
	// slots into standard SQL.
	fqAnalysisTable := strings.Replace(serviceClients.BigQueryClient.Dataset(config.BigQueryDataSource.DatasetName).Table(config.BigQueryDataSource.AnalysisTable).FullyQualifiedName(), ":", ".", -1)

	query := fmt.Sprintf("SELECT * FROM `%s`", fqAnalysisTable)

	var narrative *synthesis.NarrativeGenerator
	if narrativeModelName != "" {
		narrative = synthesis.NewNarrativeGenerator(serviceClients.AgentModels[narrativeModelName], config.PromptTemplates.NarrativePrompt)
	}

	return &SynthesisRefreshWorkflow{
		BaseCommand:    *cor.NewBaseCommand("synthesis-refresh"),
		bigqueryClient: serviceClients.BigQueryClient,
		storageClient:  serviceClients.StorageClient,
		aggregator: synthesis.NewAggregator(synthesis.Options{
			EraBoundaries: config.Synthesis.EraBoundaries,
			GapWindowMin:  config.Synthesis.GapWindowMin,
			GapWindowMax:  config.Synthesis.GapWindowMax,
		}),
		narrative:        narrative,
		reportBucket:     config.Storage.ReportOutputBucket,
		readRecordsQuery: query,
	}
}

// StartTimer kicks off the background refresh. A ticker fires at a regular
// interval; each tick runs one full aggregation inside its own trace span.
// Runs until the application shuts down.
func (m *SynthesisRefreshWorkflow) StartTimer() {
	tracer := otel.Tracer("synthesis-batch")
	ticker := time.NewTicker(60 * time.Second)
	closeTicker := make(chan struct{})

	go func(m *SynthesisRefreshWorkflow) {
		for {
			select {
			case <-ticker.C:
				traceCtx, span := tracer.Start(goctx.Background(), "synthesis-refresh")
				chainCtx := cor.NewBaseContext()
				chainCtx.SetContext(traceCtx)

				m.Execute(chainCtx)

				if chainCtx.HasErrors() {
					span.SetStatus(codes.Error, "failed to refresh synthesis artifacts")
				} else {
					span.SetStatus(codes.Ok, "refreshed synthesis artifacts")
				}
				span.End()
			case <-closeTicker:
				ticker.Stop()
				return
			}
		}
	}(m)
}

// IsExecutable always returns true; this is a self-contained job with no
// prior chain outputs to depend on.
func (m *SynthesisRefreshWorkflow) IsExecutable(_ cor.Context) bool {
	return true
}

// Execute reads every analysis record, runs the aggregation, generates the
// optional narrative, and writes the refreshed artifacts to the report
// bucket.
//
// Inputs:
//   - context: The chain of responsibility context, used for passing state and errors.
func (m *SynthesisRefreshWorkflow) Execute(context cor.Context) {
	records, err := m.readRecords(context)
	if err != nil {
		context.AddError(m.GetName(), err)
		return
	}

	videos := make([]*synthesis.VideoRecord, 0, len(records))
	for _, record := range records {
		video := &synthesis.VideoRecord{VideoName: record.VideoName}
		if record.Document != nil {
			video.Analysis = record.Document.VideoAnalysis
		}
		videos = append(videos, video)
	}

	result := m.aggregator.Aggregate(videos)
	result.Narrative = m.narrative.Generate(context.GetContext(), result)

	if err := m.writeArtifact(context, ReportObjectName, []byte(synthesis.RenderReport(result))); err != nil {
		context.AddError(m.GetName(), err)
		return
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		context.AddError(m.GetName(), fmt.Errorf("failed to marshal synthesis result: %w", err))
		return
	}
	if err := m.writeArtifact(context, ResultObjectName, resultJson); err != nil {
		context.AddError(m.GetName(), err)
		return
	}

	context.Add(cor.CtxOut, result)
}

// readRecords pulls every analysis row from the table.
func (m *SynthesisRefreshWorkflow) readRecords(context cor.Context) ([]*model.AnalysisRecord, error) {
	q := m.bigqueryClient.Query(m.readRecordsQuery)
	it, err := q.Read(context.GetContext())
	if err != nil {
		return nil, err
	}

	records := make([]*model.AnalysisRecord, 0)
	for {
		var value model.AnalysisRecord
		err := it.Next(&value)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, &value)
	}
	return records, nil
}

// writeArtifact uploads one artifact to the report bucket.
func (m *SynthesisRefreshWorkflow) writeArtifact(context cor.Context, objectName string, data []byte) error {
	writer := m.storageClient.Bucket(m.reportBucket).Object(objectName).NewWriter(context.GetContext())
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write artifact %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize artifact %s: %w", objectName, err)
	}
	return nil
}
