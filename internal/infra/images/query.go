// Package images implements the Image Finder (§4.6) and Image Downloader
// (§4.7): candidate image URL discovery from an article's entities, and
// materializing the winners into the object bucket under a deterministic
// path.
package images

import (
	"sort"
	"strings"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
)

// MaxQueries bounds how many search queries BuildQueries returns (§4.6).
const MaxQueries = 5

// queryLabels lists the entity buckets eligible as query seeds. PRODUCT and
// WORK_OF_ART appear in spec §4.6 but have no neural source in this
// tagger (see DESIGN.md); their buckets are always empty, so they are
// harmless to include here for forward compatibility.
var queryLabels = []entity.EntityLabel{
	entity.LabelPerson, entity.LabelOrg, entity.LabelGPE, entity.LabelLOC,
	entity.LabelEvent, entity.LabelLaw, entity.LabelNORP,
	"PRODUCT", "WORK_OF_ART",
}

const (
	minQueryLen   = 3
	maxQueryLen   = 40
	minQueryScore = 0.85
)

// BuildQueries selects up to MaxQueries search strings from bundle, per
// §4.6: top individual entities (score ≥0.85, length 3-40, deduped
// case-insensitively, sorted by descending score), plus the top-2 joined
// and top-3 joined strings.
func BuildQueries(bundle *entity.EntityBundle) []string {
	if bundle == nil {
		return nil
	}

	type scored struct {
		text  string
		score float64
	}
	var candidates []scored
	seen := make(map[string]bool)

	for _, label := range queryLabels {
		for _, m := range bundle.Get(label) {
			if m.Score < minQueryScore {
				continue
			}
			l := len(m.Text)
			if l < minQueryLen || l > maxQueryLen {
				continue
			}
			key := strings.ToLower(m.Text)
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, scored{text: m.Text, score: m.Score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	top := candidates
	if len(top) > 3 {
		top = top[:3]
	}

	queries := make([]string, 0, MaxQueries)
	for _, c := range top {
		queries = append(queries, c.text)
	}
	if len(top) >= 2 {
		queries = append(queries, top[0].text+" "+top[1].text)
	}
	if len(top) >= 3 {
		queries = append(queries, top[0].text+" "+top[1].text+" "+top[2].text)
	}

	if len(queries) > MaxQueries {
		queries = queries[:MaxQueries]
	}
	return queries
}
