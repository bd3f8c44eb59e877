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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for various components, including Google Cloud services, AI models,
// Pub/Sub topics, prompt templates, and the clip selection policy.
//
// This file centralizes all configuration-related structs, making it easy
// to understand and manage the application's configurable parameters.
//
// Structs:
//   - BigQueryDataSource: Configuration for BigQuery dataset and tables.
//   - PromptTemplates: Holds the text templates for prompts sent to GenAI models.
//   - VertexAiLLMModel: Configuration for a Vertex AI Large Language Model (LLM).
//   - TopicSubscription: Configuration for a single Pub/Sub topic subscription.
//   - Storage: Configuration for Google Cloud Storage buckets.
//   - SynthesisSettings: Tunables for the cross-video aggregation engine.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with
//     empty maps and the default clip policy.
package cloud

import (
	"google.golang.org/genai"

	"github.com/reelarchive/footage-synthesis/internal/core/clips"
)

// DefaultSafetySettings defines the default content safety thresholds for GenAI models.
// These settings are configured to be non-restrictive, allowing all content categories
// (Dangerous Content, Harassment, Hate Speech, Sexually Explicit) to pass through without
// being blocked. The archival footage the system analyzes is trusted input.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource represents the configuration for a BigQuery data source.
type BigQueryDataSource struct {
	DatasetName   string `toml:"dataset"`        // The name of the BigQuery dataset.
	AnalysisTable string `toml:"analysis_table"` // The name of the BigQuery table holding per-video analysis records.
}

// PromptTemplates holds the templates for different types of prompts.
type PromptTemplates struct {
	AnalysisPrompt  string `toml:"analysis"`  // The template for the whole-video structured analysis.
	SegmentPrompt   string `toml:"segment"`   // The template for per-segment multimodal analysis.
	NarrativePrompt string `toml:"narrative"` // The template for the cross-video narrative summary.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large language model (LLM).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Vertex AI LLM.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the LLM output.
	OutputFormat       string  `toml:"output_format"`       // The desired output format for the LLM.
	EnableGoogle       bool    `toml:"enable_google"`       // Whether to enable Google Search for the LLM.
	RateLimit          int     `toml:"rate_limit"`          // The rate limit for the LLM in requests per second.
}

// TopicSubscription represents the configuration for a Pub/Sub topic subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The name of the dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The timeout for the subscription in seconds.
}

// Storage represents the configuration for storage buckets.
type Storage struct {
	FootageInputBucket string `toml:"footage_input_bucket"` // The name of the bucket uploaded archival footage lands in.
	ClipOutputBucket   string `toml:"clip_output_bucket"`   // The name of the bucket extracted highlight clips are written to.
	ReportOutputBucket string `toml:"report_output_bucket"` // The name of the bucket synthesis reports are written to.
	GCSFuseMountPoint  string `toml:"gcs_fuse_mount_point"` // The mount point for GCS FUSE.
}

// SynthesisSettings holds the tunables for the cross-video aggregation
// engine. It mirrors the synthesis package's Options struct; the cloud
// package cannot import synthesis directly because synthesis depends on
// this package for its narrative generator.
type SynthesisSettings struct {
	EraBoundaries []int `toml:"era_boundaries"` // Ascending year boundaries for era histogram buckets.
	GapWindowMin  int   `toml:"gap_window_min"` // First year of the footage gap scan window.
	GapWindowMax  int   `toml:"gap_window_max"` // Last year of the footage gap scan window.
}

// Config represents the overall configuration for the application, loaded from TOML files.
// It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name                      string `toml:"name"`                         // The name of the application.
		GoogleProjectId           string `toml:"google_project_id"`            // The Google Cloud project ID.
		GoogleLocation            string `toml:"location"`                     // The Google Cloud location.
		ThreadPoolSize            int    `toml:"thread_pool_size"`             // The size of the worker pool for parallel processing tasks.
		SignerServiceAccountEmail string `toml:"signer_service_account_email"` // The service account email used for signing GCS URLs.
		MaxClipsPerVideo          int    `toml:"max_clips_per_video"`          // The upper bound on highlight clips selected per video.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`               // Storage configuration.
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"` // BigQuery data source configuration.
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`      // Prompt templates configuration.
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`   // A map of Pub/Sub topic subscriptions, keyed by a logical name (e.g., "FootageTopic").
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`          // A map of Vertex AI LLM models, keyed by a logical name (e.g., "analysis-pro").
	ClipPolicy         clips.Policy                 `toml:"clip_policy"`           // The clip selection policy (priorities, durations, keyword families).
	Synthesis          SynthesisSettings            `toml:"synthesis"`             // Cross-video aggregation settings.
}

// NewConfig is a constructor function that creates a new, initialized Config instance.
// The maps must be initialized before the configuration loader populates them, and
// the clip policy and synthesis settings start from their built-in defaults so a
// sparse TOML file still yields a working pipeline.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with defaults applied.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		ClipPolicy:         clips.DefaultPolicy(),
		Synthesis: SynthesisSettings{
			EraBoundaries: []int{1978, 1985, 1990, 1995, 2000, 2004},
			GapWindowMin:  1978,
			GapWindowMax:  2004,
		},
	}
}
