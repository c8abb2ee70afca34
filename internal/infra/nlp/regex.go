package nlp

import (
	"regexp"
	"strings"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
)

// regexScore is the confidence assigned to a pattern match. It sits below
// the neural tagger's fixed score since a regex has no notion of context,
// only shape.
const regexScore = 0.75

// regexRule pairs a compiled pattern with the bucket its matches feed.
type regexRule struct {
	label   entity.EntityLabel
	pattern *regexp.Regexp
}

// rules covers the entity classes prose's NER model doesn't emit at all
// (EVENT, LAW, MONEY, QUANTITY, DATE) plus NORP, which prose tags as part
// of its generic entity set too inconsistently to rely on. Patterns are
// deliberately conservative: precision over recall, since the regex layer
// has no way to disambiguate a false positive downstream.
var rules = []regexRule{
	{
		label: entity.LabelMoney,
		pattern: regexp.MustCompile(
			`(?i)\b(?:[$€£¥]\s?\d[\d,]*(?:\.\d+)?(?:\s?(?:million|billion|trillion|thousand|bn|mn|k|m|b))?|\d[\d,]*(?:\.\d+)?\s?(?:dollars|euros|pounds|yen|usd|eur|gbp)\b)`,
		),
	},
	{
		label: entity.LabelQuantity,
		pattern: regexp.MustCompile(
			`(?i)\b\d[\d,]*(?:\.\d+)?\s?(?:kg|km|m|cm|mm|miles?|mi|lbs?|tons?|tonnes?|kilograms?|kilometers?|meters?|percent|%|liters?|litres?|gallons?|barrels?|acres?|hectares?)\b`,
		),
	},
	{
		label: entity.LabelDate,
		pattern: regexp.MustCompile(
			`\b(?:\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?|\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:,?\s+\d{4})?)\b`,
		),
	},
	{
		label: entity.LabelLaw,
		pattern: regexp.MustCompile(
			`\b(?:[A-Z][a-zA-Z]*\s)+(?:Act|Bill|Treaty|Accord|Convention|Resolution|Amendment|Directive|Regulation)\s?(?:of\s\d{4})?\b`,
		),
	},
	{
		label: entity.LabelEvent,
		pattern: regexp.MustCompile(
			`\b(?:[A-Z][a-zA-Z]*\s)+(?:War|Summit|Conference|Olympics|Election|Referendum|Revolution|Earthquake|Hurricane|Pandemic|Crisis|Games|Championship)\b`,
		),
	},
	{
		label: entity.LabelNORP,
		pattern: regexp.MustCompile(
			`\b(?:American|British|French|German|Chinese|Russian|Japanese|Indian|Brazilian|Mexican|Canadian|Italian|Spanish|Korean|Ukrainian|Israeli|Palestinian|Iranian|Iraqi|Syrian|Turkish|Saudi|Egyptian|Nigerian|Pakistani|Republican|Democrat|Conservative|Labour|Muslim|Christian|Jewish|Hindu|Buddhist|Catholic|Protestant)\b`,
		),
	},
}

// tagChunkRegex runs every regex rule over one chunk and collects its hits
// into per-label mention slices.
func tagChunkRegex(chunk string) map[entity.EntityLabel][]entity.EntityMention {
	out := map[entity.EntityLabel][]entity.EntityMention{}
	for _, rule := range rules {
		matches := rule.pattern.FindAllString(chunk, -1)
		for _, m := range matches {
			text := strings.TrimSpace(m)
			if text == "" {
				continue
			}
			out[rule.label] = append(out[rule.label], entity.EntityMention{Text: text, Score: regexScore})
		}
	}
	return out
}
