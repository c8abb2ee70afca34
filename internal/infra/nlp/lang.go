package nlp

import (
	"github.com/abadojack/whatlanggo"
)

// ConfidenceThreshold is the cutoff below which the primary detector's
// guess is set aside in favor of a secondary pass (§4.9: "if confidence
// is below 0.99, consult a secondary detector and use its result").
const ConfidenceThreshold = 0.99

// secondaryWhitelist restricts the secondary pass to the languages a news
// feed is overwhelmingly likely to carry. whatlanggo has no second,
// independent detection algorithm in the retrieval pack (see DESIGN.md),
// so the secondary pass is the same trigram model re-run against a
// narrower candidate set -- which changes its answer often enough on
// short, ambiguous samples to be a genuine second opinion rather than a
// rubber stamp.
var secondaryWhitelist = buildSecondaryWhitelist()

func buildSecondaryWhitelist() map[whatlanggo.Lang]bool {
	codes := []string{"en", "es", "fr", "de", "pt", "it", "nl", "ru", "zh", "ja", "ko", "ar", "hi", "tr", "pl", "uk", "el", "sv", "fi", "da"}
	set := make(map[whatlanggo.Lang]bool, len(codes))
	for lang := range whatlanggo.Langs {
		for _, code := range codes {
			if lang.Iso6391() == code {
				set[lang] = true
			}
		}
	}
	return set
}

// DetectResult is one language-detection call's outcome.
type DetectResult struct {
	Language      string // ISO 639-1 code, e.g. "en"
	Confidence    float64
	SecondaryUsed bool // whether the secondary pass's result replaced the primary's
}

// Detector identifies the dominant language of a short text sample.
type Detector struct{}

// NewDetector builds a Detector. whatlanggo's trigram model is loaded
// once at package init, so Detector itself carries no state.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect runs the primary whatlanggo pass; when its confidence falls
// below ConfidenceThreshold, it consults the secondary (whitelist-
// restricted) pass and uses that result instead, per §4.9.
func (d *Detector) Detect(text string) DetectResult {
	info := whatlanggo.Detect(text)
	primaryLang := info.Lang.Iso6391()
	if primaryLang == "" {
		return DetectResult{}
	}
	if info.Confidence >= ConfidenceThreshold {
		return DetectResult{Language: primaryLang, Confidence: info.Confidence}
	}

	secondary := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Whitelist: secondaryWhitelist})
	secondaryLang := secondary.Lang.Iso6391()
	if secondaryLang == "" {
		return DetectResult{Language: primaryLang, Confidence: info.Confidence}
	}
	return DetectResult{Language: secondaryLang, Confidence: secondary.Confidence, SecondaryUsed: true}
}

// DetectModal runs Detect over each sample and returns the most frequent
// resulting language, per §4.8's "first 500 characters, up to 3 sentences
// plus the title" modal-sampling rule for setting an article's language.
// Ties break toward the first sample's language.
func DetectModal(samples []string) string {
	counts := make(map[string]int)
	order := make([]string, 0, len(samples))
	d := NewDetector()

	for _, s := range samples {
		if s == "" {
			continue
		}
		lang := d.Detect(s).Language
		if lang == "" {
			continue
		}
		if _, seen := counts[lang]; !seen {
			order = append(order, lang)
		}
		counts[lang]++
	}

	best := ""
	bestCount := 0
	for _, lang := range order {
		if counts[lang] > bestCount {
			best = lang
			bestCount = counts[lang]
		}
	}
	return best
}
