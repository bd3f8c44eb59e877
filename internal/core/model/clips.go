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

package model

import (
	"fmt"
	"regexp"
	"strings"
)

// ClipCandidate is one proposed highlight clip: a start offset and duration
// within a single video, a short human-readable description, and the priority
// the selection engine assigned to it. Candidates with priority 0 are filler
// sampled at even spacing when richer evidence runs out.
type ClipCandidate struct {
	StartSeconds    int    `json:"start_seconds" bigquery:"start_seconds"`
	DurationSeconds int    `json:"duration_seconds" bigquery:"duration_seconds"`
	Description     string `json:"description" bigquery:"description"`
	Priority        int    `json:"priority" bigquery:"priority"`
}

// EndSeconds returns the exclusive end offset of the clip.
func (c *ClipCandidate) EndSeconds() int {
	return c.StartSeconds + c.DurationSeconds
}

var (
	unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
	dashRun         = regexp.MustCompile(`-+`)
)

// slugMaxLen bounds the description portion of a clip file name.
const slugMaxLen = 50

// FileName builds the output file name for a clip: a two-digit sequence
// number followed by a slug of the description, e.g. "03-pete-dye-arrives.mp4".
// The slug strips filesystem-unsafe characters, collapses whitespace and dash
// runs to single dashes, lowercases, and caps the length so clip names stay
// portable across filesystems.
//
// Inputs:
//   - sequence: The 1-based position of the clip in the final selection.
//
// Outputs:
//   - string: The file name, always with an .mp4 extension.
func (c *ClipCandidate) FileName(sequence int) string {
	slug := unsafeFileChars.ReplaceAllString(c.Description, "")
	slug = whitespaceRun.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = dashRun.ReplaceAllString(slug, "-")
	slug = strings.ToLower(strings.Trim(slug, "-"))
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}
	if slug == "" {
		slug = "clip"
	}
	return fmt.Sprintf("%02d-%s.mp4", sequence, slug)
}
