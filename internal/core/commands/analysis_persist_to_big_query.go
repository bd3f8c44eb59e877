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
// command that persists the finished analysis record to BigQuery.
//
// Logic Flow:
// This is the persistence step of the footage workflow. The complete
// `model.AnalysisRecord` (analysis document, raw segments, clip plan)
// becomes one row in the analysis table, where the cross-video synthesis
// engine later reads it.
//
//  1. It retrieves the `model.AnalysisRecord` from the context.
//  2. It gets a BigQuery `Inserter`, the streaming interface for the table.
//  3. `Put` sends the record; the client library maps the struct fields to
//     table columns via the `bigquery` struct tags.
//  4. Errors are recorded and telemetry counters updated.
package commands

import (
	"fmt"
	"log"

	"cloud.google.com/go/bigquery"

	"github.com/reelarchive/footage-synthesis/internal/core/cor"
	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// AnalysisPersistToBigQuery is a command that saves an AnalysisRecord to a
// BigQuery table.
type AnalysisPersistToBigQuery struct {
	cor.BaseCommand
	client      *bigquery.Client // The client for interacting with the BigQuery service.
	dataset     string           // The name of the BigQuery dataset.
	table       string           // The name of the target table within the dataset.
	recordParam string           // The context key for the input AnalysisRecord.
}

// NewAnalysisPersistToBigQuery is the constructor for the
// AnalysisPersistToBigQuery command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - client: An initialized *bigquery.Client.
//   - dataset: The name of the BigQuery dataset.
//   - table: The name of the target table.
//   - recordParam: The context key holding the record to be saved.
//
// Outputs:
//   - *AnalysisPersistToBigQuery: A pointer to the newly instantiated command.
func NewAnalysisPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string, recordParam string) *AnalysisPersistToBigQuery {
	return &AnalysisPersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, table: table, recordParam: recordParam}
}

// IsExecutable requires the record to exist in the context.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
//
// Outputs:
//   - bool: True if the record exists in the context, otherwise false.
func (s *AnalysisPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return context != nil && context.Get(s.recordParam) != nil
}

// Execute writes the record to BigQuery.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (s *AnalysisPersistToBigQuery) Execute(context cor.Context) {
	log.Println("Persisting analysis record to BigQuery...")

	record := context.Get(s.recordParam).(*model.AnalysisRecord)

	// The streaming inserter beats individual INSERT statements for this.
	i := s.client.Dataset(s.dataset).Table(s.table).Inserter()

	if err := i.Put(context.GetContext(), record); err != nil {
		log.Printf("failed to write analysis record for video %s error %s\n", record.VideoName, err)
		s.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(s.GetName(), fmt.Errorf("bigquery insert failed for video '%s': %w", record.VideoName, err))
		return
	}

	s.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(cor.CtxOut, record)
	log.Printf("Successfully persisted analysis for '%s' (ID: %s)", record.VideoName, record.Id)
}
