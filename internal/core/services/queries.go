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
// This file, `queries.go`, centralizes all the BigQuery SQL query strings used
// by the application's services. Storing queries as constants in a dedicated
// file improves maintainability, readability, and reusability. The queries use
// `fmt.Sprintf` format verbs (e.g., %s, %d) as placeholders for dynamic values
// that will be injected at runtime.
package services

const (
	// QryFindRecordById defines a simple lookup query to retrieve a complete
	// analysis record from the analysis table using its unique ID.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	// - `%s`: The unique ID of the analysis record to find.
	QryFindRecordById = "SELECT * from `%s` WHERE id = '%s'"

	// QryListRecords defines the catalog query behind the archive listing. It
	// deliberately skips the heavy `document` and `clips` columns so the
	// listing stays cheap no matter how large the analyses grow, and orders
	// newest first so fresh ingests surface at the top.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	// - `%d`: The maximum number of records to return.
	QryListRecords = "SELECT id, video_name, duration_seconds, create_date FROM `%s` ORDER BY create_date desc LIMIT %d"

	// QryGetClips defines a query to extract the planned clip list for one
	// analysis record from the nested `clips` array.
	//
	// How it works:
	// - `UNNEST(clips) as c`: This BigQuery function "flattens" the repeated
	//   `clips` field (an array of structs) into a relational, table-like
	//   structure aliased as `c`, so individual clips can be queried as rows.
	// - `WHERE id = '%s'`: This filters to the single parent analysis record.
	// - `ORDER BY c.start_seconds`: Clips come back in playback order.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	// - `%s`: The unique ID of the parent analysis record.
	QryGetClips = "SELECT start_seconds, duration_seconds, description, priority FROM `%s`, UNNEST(clips) as c WHERE id = '%s' ORDER BY c.start_seconds"

	// QryCountRecords defines the query behind the dashboard's archive
	// statistics: the number of analyzed videos and the total footage length.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	QryCountRecords = "SELECT COUNT(*) as record_count, IFNULL(SUM(duration_seconds), 0) as total_duration_seconds FROM `%s`"

	// QryReadAllRecords defines the full-table read that feeds the cross-video
	// synthesis engine. Every record participates in the aggregation, so there
	// is no filter and no limit.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the analysis table.
	QryReadAllRecords = "SELECT * FROM `%s`"
)
