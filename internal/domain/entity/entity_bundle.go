package entity

import "sort"

// EntityLabel is one of the fixed named-entity buckets the Entity Tagger
// (§4.4) emits.
type EntityLabel string

const (
	LabelPerson   EntityLabel = "PERSON"
	LabelOrg      EntityLabel = "ORG"
	LabelGPE      EntityLabel = "GPE"
	LabelLOC      EntityLabel = "LOC"
	LabelNORP     EntityLabel = "NORP"
	LabelEvent    EntityLabel = "EVENT"
	LabelLaw      EntityLabel = "LAW"
	LabelDate     EntityLabel = "DATE"
	LabelMoney    EntityLabel = "MONEY"
	LabelQuantity EntityLabel = "QUANTITY"
)

// AllLabels lists every fixed bucket, in the order EntityBundle guarantees
// they are initialized (always present, possibly empty).
var AllLabels = []EntityLabel{
	LabelPerson, LabelOrg, LabelGPE, LabelLOC, LabelNORP,
	LabelEvent, LabelLaw, LabelDate, LabelMoney, LabelQuantity,
}

// EntityMention is one occurrence of a named entity: its canonical display
// text and a confidence score in [0,1].
type EntityMention struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// EntityBundleMeta carries provenance about how an EntityBundle was
// produced, independent of its contents.
type EntityBundleMeta struct {
	Chunks       int     `json:"chunks"`
	Chars        int     `json:"chars"`
	Model        string  `json:"model"`
	AverageScore float64 `json:"average_score"`
}

// EntityBundle holds the fixed label buckets emitted by the Entity Tagger.
// Within a bucket, mentions are sorted by (-score, text) and are unique
// case-insensitively by text (merged, keeping the max score).
type EntityBundle struct {
	Buckets map[EntityLabel][]EntityMention `json:"buckets"`
	Meta    EntityBundleMeta                `json:"meta"`
}

// NewEntityBundle returns a bundle with every fixed bucket present (possibly
// empty), matching the "fixed label buckets" invariant in spec §3.
func NewEntityBundle() *EntityBundle {
	b := &EntityBundle{Buckets: make(map[EntityLabel][]EntityMention, len(AllLabels))}
	for _, l := range AllLabels {
		b.Buckets[l] = []EntityMention{}
	}
	return b
}

// Get returns the mentions for a label, or an empty slice if the label is
// somehow absent (it never should be after NewEntityBundle).
func (b *EntityBundle) Get(label EntityLabel) []EntityMention {
	if b == nil {
		return nil
	}
	return b.Buckets[label]
}

// bucketAccumulator is a scratch structure used while aggregating raw hits
// into a bucket: merge-key -> (canonical display text, count, max score).
type bucketAccumulator struct {
	canonical string
	count     int
	maxScore  float64
}

// AggregateBucket merges raw (text, score) hits into a sorted, deduped
// mention list per spec §4.4: merge-key is lower().strip(), canonical
// display is first-seen title case, aggregate keeps max(score), and the
// final list is sorted by (-score, text_lowercase).
func AggregateBucket(hits []EntityMention) []EntityMention {
	acc := make(map[string]*bucketAccumulator)
	order := make([]string, 0, len(hits))

	for _, h := range hits {
		text := trimSpace(h.Text)
		if text == "" {
			continue
		}
		key := toLower(text)
		existing, ok := acc[key]
		if !ok {
			acc[key] = &bucketAccumulator{canonical: titleCase(text), count: 1, maxScore: h.Score}
			order = append(order, key)
			continue
		}
		existing.count++
		if h.Score > existing.maxScore {
			existing.maxScore = h.Score
		}
	}

	out := make([]EntityMention, 0, len(order))
	for _, key := range order {
		a := acc[key]
		out = append(out, EntityMention{Text: a.canonical, Score: a.maxScore})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return toLower(out[i].Text) < toLower(out[j].Text)
	})

	return out
}
