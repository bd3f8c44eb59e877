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
	"sort"
	"strings"

	"github.com/reelarchive/footage-synthesis/internal/core/model"
)

// ThemeEntry is the merged record for one theme across the archive: the
// videos exhibiting it, the characters appearing in those videos, and every
// quote from those videos. Quotes are deliberately not filtered to the
// theme — a video's quotes travel with all of its themes.
type ThemeEntry struct {
	Theme             string         `json:"theme"`
	VideoNames        []string       `json:"videos"`
	RelatedCharacters []string       `json:"related_characters,omitempty"`
	Quotes            []*model.Quote `json:"quotes,omitempty"`

	videoSet map[string]bool
	charSet  map[string]bool
}

// buildThemes merges case-insensitive theme variants into one entry each,
// keeping the first-seen spelling. Association is video-level on both
// sides: every character of a video is related to every theme of that
// video, and each such theme lands in the character's ThemesAssociated.
// This over-association is intentional — for a retrospective, "who appears
// in footage about X" is the useful question, and the analysis has no
// per-character theme attribution to be more precise with.
func (a *Aggregator) buildThemes(videos []*VideoRecord, charByKey map[string]*CharacterProfile) []*ThemeEntry {
	entries := make(map[string]*ThemeEntry)
	order := make([]string, 0)

	for _, v := range videos {
		if v == nil || v.Analysis == nil {
			continue
		}
		for _, theme := range v.Analysis.Themes {
			key := mergeKey(theme)
			if key == "" {
				continue
			}
			e, ok := entries[key]
			if !ok {
				e = &ThemeEntry{
					Theme:      strings.TrimSpace(theme),
					VideoNames: make([]string, 0),
					Quotes:     make([]*model.Quote, 0),
					videoSet:   make(map[string]bool),
					charSet:    make(map[string]bool),
				}
				entries[key] = e
				order = append(order, key)
			}

			// A video contributes to a theme once, even if its theme list
			// repeats the same text in different casings.
			if e.videoSet[v.VideoName] {
				continue
			}
			e.videoSet[v.VideoName] = true
			e.VideoNames = append(e.VideoNames, v.VideoName)

			for _, q := range v.Analysis.Quotes {
				if q != nil {
					e.Quotes = append(e.Quotes, q)
				}
			}
			for _, c := range v.Analysis.Characters {
				if c == nil {
					continue
				}
				p, ok := charByKey[mergeKey(c.Name)]
				if !ok {
					continue
				}
				if !e.charSet[p.Name] {
					e.charSet[p.Name] = true
					e.RelatedCharacters = append(e.RelatedCharacters, p.Name)
				}
				p.associateTheme(e.Theme)
			}
		}
	}

	out := make([]*ThemeEntry, 0, len(order))
	for _, key := range order {
		e := entries[key]
		sort.Strings(e.RelatedCharacters)
		out = append(out, e)
	}
	// Most widely exhibited themes first; ties keep first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].VideoNames) > len(out[j].VideoNames)
	})
	return out
}
