package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

func trimSpace(s string) string { return strings.TrimSpace(s) }

func toLower(s string) string { return strings.ToLower(s) }

// titleCase renders the first-seen occurrence of an entity as its canonical
// display form, per spec §4.4's "canonical display is first-seen
// title-cased" aggregation rule.
func titleCase(s string) string { return titleCaser.String(s) }
