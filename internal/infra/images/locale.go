package images

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// territoriesByLang is a hand-rolled subset of CLDR's language->territory
// coverage (golang.org/x/text/language has no reverse lookup from a
// language to the territories that speak it -- see DESIGN.md), covering
// the major languages a news feed is likely to encounter.
var territoriesByLang = map[string][]string{
	"es": {"mx", "ar", "co", "cl", "pe", "ve"},
	"pt": {"br"},
	"fr": {"ca", "be", "ch"},
	"de": {"at", "ch"},
	"ar": {"sa", "eg", "ae"},
	"zh": {"cn", "tw", "hk"},
	"ru": {"ru", "ua"},
}

// BuildLocales computes the `{region-lang}` search locale set per §4.6's
// region expansion rule. articleCountry is an ISO-3166 alpha2 code (or
// empty if unknown); articleLang is an ISO-639-1 code (or empty).
func BuildLocales(articleCountry, articleLang string) []string {
	set := map[string]bool{"us-en": true}

	country := strings.ToLower(strings.TrimSpace(articleCountry))
	lang := strings.ToLower(strings.TrimSpace(articleLang))

	if country != "" {
		if lang != "" {
			set[fmt.Sprintf("%s-%s", country, lang)] = true
		}
		set[fmt.Sprintf("%s-en", country)] = true
	}

	if lang != "" && lang != "en" {
		if _, err := language.Parse(lang); err == nil {
			for _, territory := range territoriesByLang[lang] {
				set[fmt.Sprintf("%s-%s", territory, lang)] = true
			}
		}
	}

	out := make([]string, 0, len(set))
	for locale := range set {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}
