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

// This file holds the one impure piece of the synthesis engine: the optional
// narrative that a generative model writes over the aggregated artifacts.
// Narrative generation is best-effort. The four structural artifacts are
// computed deterministically and must never be lost to a model outage, so
// every failure path here degrades to an empty narrative.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/reelarchive/footage-synthesis/internal/cloud"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// defaultNarrativeTimeout bounds a single narrative generation, retries
// included; the aggregation result is usually wanted interactively.
const defaultNarrativeTimeout = 2 * time.Minute

// NarrativeGenerator writes a prose synthesis of an aggregation result
// using a rate-limited generative model.
type NarrativeGenerator struct {
	model              *cloud.QuotaAwareGenerativeAIModel
	promptTemplate     string
	timeout            time.Duration
	inputTokenCounter  metric.Int64Counter
	outputTokenCounter metric.Int64Counter
	retryCounter       metric.Int64Counter
}

// NewNarrativeGenerator wires a generator to a model and prompt template.
// The template receives the rendered fact sheet via %s.
func NewNarrativeGenerator(model *cloud.QuotaAwareGenerativeAIModel, promptTemplate string) *NarrativeGenerator {
	meter := otel.Meter("synthesis-narrative")
	inputTokens, _ := meter.Int64Counter("narrative_input_tokens")
	outputTokens, _ := meter.Int64Counter("narrative_output_tokens")
	retries, _ := meter.Int64Counter("narrative_retries")
	return &NarrativeGenerator{
		model:              model,
		promptTemplate:     promptTemplate,
		timeout:            defaultNarrativeTimeout,
		inputTokenCounter:  inputTokens,
		outputTokenCounter: outputTokens,
		retryCounter:       retries,
	}
}

// Generate asks the model for a narrative over the aggregated facts and
// returns it. Any failure (no model configured, timeout, generation error)
// logs a warning and returns the empty string; callers treat an empty
// narrative as "not available" and carry on.
func (g *NarrativeGenerator) Generate(ctx context.Context, result *Result) string {
	if g == nil || g.model == nil || result == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(g.promptTemplate, g.factSheet(result))
	out, err := cloud.GenerateMultiModalResponse(
		ctx,
		g.inputTokenCounter,
		g.outputTokenCounter,
		g.retryCounter,
		0,
		g.model,
		cloud.NewTextPart(prompt))
	if err != nil {
		slog.Warn("narrative generation failed, continuing without narrative", "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// factSheet condenses the aggregation result into the bullet list the
// narrative prompt is built from. It deliberately leans on the already
// deterministic report ordering so identical inputs produce an identical
// prompt.
func (g *NarrativeGenerator) factSheet(result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Videos: %d. People: %d. Timeline events: %d.\n",
		result.Coverage.TotalVideos, result.Coverage.TotalCharacters, len(result.Timeline))
	for _, t := range result.Themes {
		fmt.Fprintf(&b, "Theme %q appears in %d video(s).\n", t.Theme, len(t.VideoNames))
	}
	for _, gap := range result.Coverage.FootageGaps {
		fmt.Fprintf(&b, "%s.\n", gap)
	}
	for i, p := range result.Characters {
		if i >= featuredReportLimit {
			break
		}
		fmt.Fprintf(&b, "%s appears in %d video(s).\n", p.Name, p.TotalVideos)
	}
	return b.String()
}
