package geo

import (
	"sort"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/nlp"
)

// MinCount and MinAvgScore are the step-3 acceptance thresholds.
const (
	MinCount    = 2
	MinAvgScore = 0.6
	// LOCConfidenceFloor is the minimum NER confidence a LOC mention needs
	// before it's even attempted for validation (step 4).
	LOCConfidenceFloor = 0.80
	// TopN is how many countries survive the final truncation (step 6).
	TopN = 4
)

type candidate struct {
	alpha2   string
	name     string
	count    int
	maxScore float64
}

// Tag runs the Geotagger (§4.5) over an article's title, content, and LOC
// mentions, and returns up to TopN ranked countries. It never raises: any
// internal failure degrades to an empty result, per §4.5's "fails soft"
// clause.
func Tag(title, content string, locMentions []entity.EntityMention) []entity.GeoEntity {
	defer func() { _ = recover() }() // fails soft per §4.5

	candidates := accumulate(content)
	mergeTitle(candidates, title)

	filtered := make(map[string]*candidate, len(candidates))
	for alpha2, c := range candidates {
		if c.count >= MinCount && c.maxScore >= MinAvgScore {
			filtered[alpha2] = c
		}
	}

	validated := validateLOC(locMentions)
	if intersected := intersectValidated(filtered, validated); len(intersected) > 0 {
		filtered = intersected
	}

	return rank(filtered)
}

// accumulate runs TagTextCountries over each §4.4-style chunk of content
// and folds hits into a per-alpha2 (count, max score) map (step 1).
func accumulate(text string) map[string]*candidate {
	out := make(map[string]*candidate)
	for _, chunk := range nlp.Chunk(text) {
		for _, hit := range TagTextCountries(chunk) {
			c, ok := out[hit.Alpha2]
			if !ok {
				c = &candidate{alpha2: hit.Alpha2, name: hit.Name}
				out[hit.Alpha2] = c
			}
			c.count++
			if hit.Score > c.maxScore {
				c.maxScore = hit.Score
			}
		}
	}
	return out
}

// mergeTitle folds the title's hits into body candidates (step 2): counts
// add, and a title hit floors the merged score at 1.0 since title mentions
// are highly salient.
func mergeTitle(body map[string]*candidate, title string) {
	for _, hit := range TagTextCountries(title) {
		c, ok := body[hit.Alpha2]
		if !ok {
			c = &candidate{alpha2: hit.Alpha2, name: hit.Name}
			body[hit.Alpha2] = c
		}
		c.count++
		merged := hit.Score
		if c.maxScore > merged {
			merged = c.maxScore
		}
		if merged < 1.0 {
			merged = 1.0
		}
		c.maxScore = merged
	}
}

// intersectValidated narrows filtered down to the candidates independently
// confirmed by validated. The narrowing is advisory, not gating: an empty
// result here (no candidate survives, or nothing was validated at all)
// means the caller should keep using the unfiltered step-3 candidates
// rather than end up with nothing.
func intersectValidated(filtered map[string]*candidate, validated map[string]bool) map[string]*candidate {
	if len(validated) == 0 || len(filtered) == 0 {
		return nil
	}
	out := make(map[string]*candidate, len(filtered))
	for alpha2, c := range filtered {
		if validated[alpha2] {
			out[alpha2] = c
		}
	}
	return out
}

// validateLOC attempts tag_place (and a tag_text_countries substring
// fallback) for each sufficiently confident LOC mention, and returns the
// set of alpha2 codes it could independently confirm as a sovereign state
// (step 4).
func validateLOC(locMentions []entity.EntityMention) map[string]bool {
	validated := make(map[string]bool)
	for _, m := range locMentions {
		if m.Score < LOCConfidenceFloor {
			continue
		}
		if featureCode, _, alpha2, ok := TagPlace(m.Text); ok && featureCode == FeaturePCLI {
			validated[alpha2] = true
			continue
		}
		for _, hit := range TagTextCountries(m.Text) {
			if hit.FeatureCode == FeaturePCLI {
				validated[hit.Alpha2] = true
			}
		}
	}
	return validated
}

// rank sorts by (-count, -score), truncates to TopN, and enriches each
// survivor with its ISO-3166 name/alpha2/alpha3 (steps 6-7).
func rank(candidates map[string]*candidate) []entity.GeoEntity {
	list := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		list = append(list, c)
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].maxScore > list[j].maxScore
	})
	if len(list) > TopN {
		list = list[:TopN]
	}

	out := make([]entity.GeoEntity, 0, len(list))
	for _, c := range list {
		country, ok := CountryByAlpha2(c.alpha2)
		name := c.name
		alpha3 := ""
		if ok {
			name = country.Name
			alpha3 = country.Alpha3
		}
		out = append(out, entity.GeoEntity{
			Name:     name,
			Alpha2:   c.alpha2,
			Alpha3:   alpha3,
			Count:    c.count,
			AvgScore: c.maxScore,
		})
	}
	return out
}
