package geo

import (
	"strings"
)

// Feature codes mirror GeoNames' scheme, as referenced by spec §4.5.
const (
	FeaturePCLI = "PCLI" // independent political entity (sovereign state)
	FeaturePPLC = "PPLC" // capital city
)

// aliasEntry is one name the index can match, mapped to the country it
// resolves to and the confidence a match on that name deserves.
type aliasEntry struct {
	alpha2      string
	featureCode string
	score       float64
}

// aliasIndex maps a lowercased alias to its resolution. Built once at
// package init from aliasSeed.
var aliasIndex = buildAliasIndex()

// maxAliasWords bounds the n-gram window tag_text_countries scans, since
// the longest seeded alias is a few words (e.g. "united arab emirates").
var maxAliasWords = 4

func buildAliasIndex() map[string]aliasEntry {
	idx := make(map[string]aliasEntry, len(aliasSeed)*3)
	for alpha2, names := range aliasSeed {
		for _, n := range names.official {
			idx[strings.ToLower(n)] = aliasEntry{alpha2: alpha2, featureCode: FeaturePCLI, score: 1.0}
		}
		for _, n := range names.alternate {
			key := strings.ToLower(n)
			if _, exists := idx[key]; !exists {
				idx[key] = aliasEntry{alpha2: alpha2, featureCode: FeaturePCLI, score: 0.85}
			}
		}
		for _, n := range names.capitals {
			key := strings.ToLower(n)
			if _, exists := idx[key]; !exists {
				idx[key] = aliasEntry{alpha2: alpha2, featureCode: FeaturePPLC, score: 0.7}
			}
		}
	}
	for key := range idx {
		if n := len(strings.Fields(key)); n > maxAliasWords {
			maxAliasWords = n
		}
	}
	return idx
}

// CountryHit is one match tag_text_countries produced.
type CountryHit struct {
	Alpha2      string
	FeatureCode string
	Score       float64
	Name        string
}

// TagTextCountries scans text for alias-index matches, per §4.5's
// `tag_text_countries(text) → [(feature_code, score, country_name)]`
// contract. It tokenizes on whitespace/punctuation and tries n-gram
// windows from longest to shortest so "united arab emirates" matches
// before its "united" substring would shadow it.
func TagTextCountries(text string) []CountryHit {
	if text == "" {
		return nil
	}
	tokens := tokenize(text)
	var hits []CountryHit

	for i := 0; i < len(tokens); {
		matched := false
		for n := maxAliasWords; n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			phrase := strings.Join(tokens[i:i+n], " ")
			if entry, ok := aliasIndex[phrase]; ok {
				country, ok := isoTable[entry.alpha2]
				if !ok {
					continue
				}
				hits = append(hits, CountryHit{
					Alpha2:      entry.alpha2,
					FeatureCode: entry.featureCode,
					Score:       entry.score,
					Name:        country.Name,
				})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return hits
}

// TagPlace resolves a single place name via the alias index, per §4.5's
// `tag_place(name) → (feature_code, score, alpha2)` contract.
func TagPlace(name string) (featureCode string, score float64, alpha2 string, ok bool) {
	entry, found := aliasIndex[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return "", 0, "", false
	}
	return entry.featureCode, entry.score, entry.alpha2, true
}

// tokenize lowercases and splits on anything that isn't a letter, digit,
// or mid-word hyphen/apostrophe, collapsing runs of separators.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cur.WriteRune(r)
		case r == '-' || r == '\'':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}
