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

// Appearance records one video a character shows up in: the role, speaking
// flag, and description that video's analysis gave them, plus the quotes
// from that video attributed to them by speaker.
type Appearance struct {
	VideoName   string         `json:"video_name"`
	Role        string         `json:"role,omitempty"`
	IsSpeaking  bool           `json:"is_speaking"`
	Description string         `json:"description,omitempty"`
	Quotes      []*model.Quote `json:"quotes"`
}

// CharacterProfile is the merged record for one person across the archive.
// Name variants that differ only in case or surrounding whitespace collapse
// into a single profile whose Name keeps the first-seen spelling. Quotes
// live on the appearances so the quote-to-video association survives;
// TotalQuoteCount sums them across appearances.
type CharacterProfile struct {
	Name             string        `json:"name"`
	TotalVideos      int           `json:"total_videos"`
	TotalQuoteCount  int           `json:"total_quote_count"`
	Appearances      []*Appearance `json:"appearances"`
	ThemesAssociated []string      `json:"themes_associated,omitempty"`

	seenVideos map[string]bool
	themeSet   map[string]bool
}

// mergeKey normalizes a name (or theme, or quote speaker) for merging:
// case-insensitive, whitespace-trimmed.
func mergeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// buildCharacters merges every video's character list into one profile per
// person. TotalVideos counts distinct videos, so a person listed twice in
// one analysis is not inflated. Each character entry yields one appearance
// carrying that video's quotes whose speaker matches the character under
// the same merge key; TotalQuoteCount accumulates per appearance. The
// ThemesAssociated field is filled later by the theme pass. The second
// return value indexes the profiles by merge key for that pass.
func (a *Aggregator) buildCharacters(videos []*VideoRecord) ([]*CharacterProfile, map[string]*CharacterProfile) {
	profiles := make(map[string]*CharacterProfile)
	order := make([]string, 0)

	for _, v := range videos {
		if v == nil || v.Analysis == nil {
			continue
		}
		for _, c := range v.Analysis.Characters {
			if c == nil {
				continue
			}
			key := mergeKey(c.Name)
			if key == "" {
				continue
			}
			p, ok := profiles[key]
			if !ok {
				p = &CharacterProfile{
					Name:        strings.TrimSpace(c.Name),
					Appearances: make([]*Appearance, 0),
					seenVideos:  make(map[string]bool),
					themeSet:    make(map[string]bool),
				}
				profiles[key] = p
				order = append(order, key)
			}

			appearance := &Appearance{
				VideoName:   v.VideoName,
				Role:        c.Role,
				IsSpeaking:  c.IsSpeaking,
				Description: c.Description,
				Quotes:      make([]*model.Quote, 0),
			}
			for _, q := range v.Analysis.Quotes {
				if q != nil && mergeKey(q.Speaker) == key {
					appearance.Quotes = append(appearance.Quotes, q)
				}
			}
			p.Appearances = append(p.Appearances, appearance)
			p.TotalQuoteCount += len(appearance.Quotes)

			if !p.seenVideos[v.VideoName] {
				p.seenVideos[v.VideoName] = true
				p.TotalVideos++
			}
		}
	}

	out := make([]*CharacterProfile, 0, len(order))
	for _, key := range order {
		out = append(out, profiles[key])
	}
	// Most widely covered people first; ties keep first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalVideos > out[j].TotalVideos
	})
	return out, profiles
}

// associateTheme records a theme against a profile's deduplicated theme set.
func (p *CharacterProfile) associateTheme(theme string) {
	if p.themeSet == nil {
		p.themeSet = make(map[string]bool)
	}
	if !p.themeSet[theme] {
		p.themeSet[theme] = true
		p.ThemesAssociated = append(p.ThemesAssociated, theme)
	}
}

// finalizeThemes sorts the accumulated theme associations for stable output.
func (p *CharacterProfile) finalizeThemes() {
	sort.Strings(p.ThemesAssociated)
}
