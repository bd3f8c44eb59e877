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

// Package clips implements the clip selection engine: it turns the
// heterogeneous evidence in a video's analysis document (structured chapters
// and highlights, legacy free-text narratives, raw multimodal segments) into
// a bounded, deduplicated, priority-ordered set of highlight clips.
//
// All evidence is normalized into model.ClipCandidate values on a single
// priority scale, then a greedy pass keeps the best candidates whose start
// times are far enough apart. The tunables live in Policy so deployments for
// other archives can swap the protagonist, tone keywords, and scoring
// families through configuration without touching the engine.
package clips

import (
	"fmt"
	"regexp"
)

// KeywordFamily scores raw multimodal segment text: a case-insensitive
// pattern, the weight it contributes when the text matches, and the
// description applied to the clip when this family is the first match.
type KeywordFamily struct {
	Pattern     string `toml:"pattern"`
	Weight      int    `toml:"weight"`
	Description string `toml:"description"`
}

// Policy carries the tunables of the selection engine. Durations are in
// seconds. The zero value is not usable; start from DefaultPolicy.
type Policy struct {
	// Protagonist is matched case-insensitively as a substring of chapter
	// character names; a chapter featuring the protagonist outranks
	// everything else.
	Protagonist string `toml:"protagonist"`

	// EmotionalTones are the tone substrings that promote a highlight from
	// priority 2 to priority 4.
	EmotionalTones []string `toml:"emotional_tones"`

	// KeywordFamilies score raw segment text, in description-priority order:
	// the first family that matches supplies the clip description.
	KeywordFamilies []KeywordFamily `toml:"keyword_families"`

	MaxChapterSeconds      int `toml:"max_chapter_seconds"`       // Cap on chapter clip length.
	HighlightSeconds       int `toml:"highlight_seconds"`         // Fixed highlight and filler clip length.
	SegmentSeconds         int `toml:"segment_seconds"`           // Fixed raw-segment clip length.
	DedupWindowSeconds     int `toml:"dedup_window_seconds"`      // Minimum spacing between selected clip starts.
	MinFillerSourceSeconds int `toml:"min_filler_source_seconds"` // Shortest video that still gets filler clips.
	DescriptionMaxChars    int `toml:"description_max_chars"`     // Display cap on clip descriptions.
}

// DefaultPolicy returns the tunables the archive has always run with.
func DefaultPolicy() Policy {
	return Policy{
		Protagonist:    "pete dye",
		EmotionalTones: []string{"emotional", "proud", "heartfelt"},
		KeywordFamilies: []KeywordFamily{
			{Pattern: `pete\s*dye|architect`, Weight: 3, Description: "Pete Dye content"},
			{Pattern: `construction|building|shaping|bulldozer|excavat`, Weight: 2, Description: "Construction activity"},
			{Pattern: `opening|ceremony|celebration|grand`, Weight: 2, Description: "Opening/ceremony"},
			{Pattern: `interview|speaking|talking|says|said`, Weight: 1, Description: "Interview/dialogue"},
			{Pattern: `hole|fairway|green|bunker|tee`, Weight: 1, Description: "Golf course footage"},
		},
		MaxChapterSeconds:      180,
		HighlightSeconds:       90,
		SegmentSeconds:         120,
		DedupWindowSeconds:     60,
		MinFillerSourceSeconds: 120,
		DescriptionMaxChars:    80,
	}
}

// compiledFamily pairs a KeywordFamily with its compiled pattern.
type compiledFamily struct {
	re          *regexp.Regexp
	weight      int
	description string
}

// Selector is a clip selection engine with its policy patterns compiled.
// A Selector is immutable after construction and safe for concurrent use.
type Selector struct {
	policy   Policy
	families []compiledFamily
}

// NewSelector compiles the policy's keyword family patterns and returns a
// ready-to-use Selector.
//
// Inputs:
//   - policy: The tunables, typically DefaultPolicy() overlaid with config.
//
// Outputs:
//   - *Selector: The compiled engine.
//   - error: Set when a keyword family pattern fails to compile.
func NewSelector(policy Policy) (*Selector, error) {
	families := make([]compiledFamily, 0, len(policy.KeywordFamilies))
	for _, f := range policy.KeywordFamilies {
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid keyword family pattern %q: %w", f.Pattern, err)
		}
		families = append(families, compiledFamily{re: re, weight: f.Weight, description: f.Description})
	}
	return &Selector{policy: policy, families: families}, nil
}

// truncateDescription bounds a description to max display characters,
// counting runes so multi-byte titles are not split mid-character.
func truncateDescription(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}
