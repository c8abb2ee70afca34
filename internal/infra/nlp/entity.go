// Package nlp implements the Entity Tagger (§4.4) and the Language
// Detector (§4.9): chunked named-entity recognition backed by prose's
// maxent tagger, a regex layer for the entity classes prose's model
// doesn't cover, and a two-detector language identification cascade
// backed by whatlanggo.
package nlp

import (
	"strings"

	"github.com/jdkato/prose"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
)

// Model identifies the tagger for EntityBundleMeta.Model.
const Model = "prose-maxent+regex"

// Tagger runs the Entity Tagger pipeline: chunk, tag each chunk with
// prose's neural named-entity recognizer, tag each chunk with the regex
// layer, and aggregate every bucket.
type Tagger struct{}

// NewTagger builds a Tagger. prose's document model is stateless and
// cheap to construct per call, so Tagger carries no shared state.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag runs the full Entity Tagger over text and returns a populated
// EntityBundle, per §4.4. It never raises: a chunk that fails to parse
// simply contributes no entities, keeping the tagger fail-soft like the
// rest of the per-article pipeline.
func (t *Tagger) Tag(text string) *entity.EntityBundle {
	bundle := entity.NewEntityBundle()
	chunks := Chunk(text)
	if len(chunks) == 0 {
		return bundle
	}

	raw := make(map[entity.EntityLabel][]entity.EntityMention, len(entity.AllLabels))
	var scoreSum float64
	var scoreCount int

	for _, chunk := range chunks {
		for label, mentions := range tagChunkNeural(chunk) {
			raw[label] = append(raw[label], mentions...)
			for _, m := range mentions {
				scoreSum += m.Score
				scoreCount++
			}
		}
		for label, mentions := range tagChunkRegex(chunk) {
			raw[label] = append(raw[label], mentions...)
			for _, m := range mentions {
				scoreSum += m.Score
				scoreCount++
			}
		}
	}

	for _, label := range entity.AllLabels {
		bundle.Buckets[label] = entity.AggregateBucket(raw[label])
	}

	avg := 0.0
	if scoreCount > 0 {
		avg = scoreSum / float64(scoreCount)
	}
	bundle.Meta = entity.EntityBundleMeta{
		Chunks:       len(chunks),
		Chars:        len(text),
		Model:        Model,
		AverageScore: avg,
	}
	return bundle
}

// neuralScore is prose's NER model doesn't emit a confidence score per
// span, so every neural hit is assigned this fixed confidence. It sits
// above the regex layer's scores, reflecting that a trained classifier's
// hit is generally more precise than a pattern match.
const neuralScore = 0.9

// tagChunkNeural runs prose's maxent tagger over one chunk and remaps its
// PERSON/ORG/GPE labels onto the bundle's fixed PERSON/ORG/LOC buckets
// (§4.4: "remap raw PER|ORG|LOC spans to the PERSON|ORG|LOC buckets").
// prose's tokenizer treats a geopolitical entity mention as GPE; since the
// bundle has no separate neural-GPE path, those hits feed the LOC bucket,
// where the Geotagger (§4.5) expects its mention candidates.
func tagChunkNeural(chunk string) map[entity.EntityLabel][]entity.EntityMention {
	out := map[entity.EntityLabel][]entity.EntityMention{}
	if strings.TrimSpace(chunk) == "" {
		return out
	}

	doc, err := prose.NewDocument(chunk)
	if err != nil {
		return out
	}

	for _, ent := range doc.Entities() {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		var label entity.EntityLabel
		switch ent.Label {
		case "PERSON":
			label = entity.LabelPerson
		case "ORG":
			label = entity.LabelOrg
		case "GPE", "LOC", "FACILITY":
			label = entity.LabelLOC
		default:
			continue
		}
		out[label] = append(out[label], entity.EntityMention{Text: text, Score: neuralScore})
	}
	return out
}
