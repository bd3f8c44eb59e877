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

package synthesis

import (
	"fmt"
	"sort"
	"strings"
)

// featuredReportLimit bounds the character section of the rendered report,
// and sampleQuoteLimit bounds the quotes shown per person. The full data
// stays available in the Result; the report is for humans.
const (
	featuredReportLimit = 10
	sampleQuoteLimit    = 3
)

// RenderReport renders an aggregation result as a human-readable Markdown
// document: overview numbers, the unified timeline, character and theme
// sections, coverage with footage gaps, and the narrative when one was
// generated. Map-backed sections are sorted by key so the report is
// byte-stable for identical inputs.
func RenderReport(result *Result) string {
	var b strings.Builder
	b.WriteString("# Archive Synthesis Report\n\n")

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Videos analyzed: %d\n", result.Coverage.TotalVideos)
	fmt.Fprintf(&b, "- People identified: %d\n", result.Coverage.TotalCharacters)
	fmt.Fprintf(&b, "- Timeline events: %d\n", len(result.Timeline))
	fmt.Fprintf(&b, "- Themes: %d\n\n", len(result.Themes))

	if result.Narrative != "" {
		b.WriteString("## Narrative\n\n")
		b.WriteString(strings.TrimSpace(result.Narrative))
		b.WriteString("\n\n")
	}

	b.WriteString("## Unified Timeline\n\n")
	if len(result.Timeline) == 0 {
		b.WriteString("_No timeline events._\n\n")
	}
	for _, e := range result.Timeline {
		year := "undated"
		if e.DateEstimate != 0 {
			year = fmt.Sprintf("%d", e.DateEstimate)
		}
		span := e.StartTime
		if e.EndTime != "" {
			span = span + " - " + e.EndTime
		}
		fmt.Fprintf(&b, "- [%s] %s (%s, %s", year, e.Title, e.VideoName, span)
		if len(e.Characters) > 0 {
			fmt.Fprintf(&b, "; with %s", strings.Join(e.Characters, ", "))
		}
		b.WriteString(")\n")
	}
	b.WriteString("\n")

	b.WriteString("## People\n\n")
	for i, p := range result.Characters {
		if i >= featuredReportLimit {
			fmt.Fprintf(&b, "- ...and %d more\n", len(result.Characters)-featuredReportLimit)
			break
		}
		fmt.Fprintf(&b, "### %s\n\n", p.Name)
		fmt.Fprintf(&b, "Appears in %d video(s), %d quote(s).\n", p.TotalVideos, p.TotalQuoteCount)
		if len(p.ThemesAssociated) > 0 {
			fmt.Fprintf(&b, "Associated themes: %s.\n", strings.Join(p.ThemesAssociated, ", "))
		}
		quoted := 0
		for _, app := range p.Appearances {
			for _, q := range app.Quotes {
				if quoted >= sampleQuoteLimit {
					break
				}
				fmt.Fprintf(&b, "> %q", q.Text)
				if q.Timestamp != "" {
					fmt.Fprintf(&b, " (%s)", q.Timestamp)
				}
				b.WriteString("\n")
				quoted++
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Themes\n\n")
	for _, t := range result.Themes {
		fmt.Fprintf(&b, "- **%s**: %d video(s)", t.Theme, len(t.VideoNames))
		if len(t.RelatedCharacters) > 0 {
			fmt.Fprintf(&b, "; featuring %s", strings.Join(t.RelatedCharacters, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Coverage\n\n")
	b.WriteString("### Content Types\n\n")
	for _, k := range sortedKeys(result.Coverage.ContentTypes) {
		fmt.Fprintf(&b, "- %s: %d\n", k, result.Coverage.ContentTypes[k])
	}
	b.WriteString("\n### Time Periods\n\n")
	for _, k := range sortedKeys(result.Coverage.TimePeriods) {
		fmt.Fprintf(&b, "- %s: %d\n", k, result.Coverage.TimePeriods[k])
	}
	b.WriteString("\n### Footage Gaps\n\n")
	if len(result.Coverage.FootageGaps) == 0 {
		b.WriteString("_No gaps detected._\n")
	}
	for _, g := range result.Coverage.FootageGaps {
		fmt.Fprintf(&b, "- %s\n", g)
	}

	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
