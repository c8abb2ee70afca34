// Package pipeline implements the Per-Article Pipeline (§4.8): a linear
// state machine that scrapes, detects language, translates a title, tags
// entities, geotags, finds images, and downloads them for one article.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/geo"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/images"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/nlp"
	"github.com/masx-ai/flashpoint-pipeline/internal/infra/scraper"
)

// state names double as the ProcessingSteps recorded for observability.
const (
	stepScraped          = "SCRAPED"
	stepLangSet          = "LANG_SET"
	stepTitleTranslated  = "TITLE_TRANSLATED"
	stepEntitiesTagged   = "ENTITIES_TAGGED"
	stepGeotagged        = "GEOTAGGED"
	stepImagesFound      = "IMAGES_FOUND"
	stepImagesDownloaded = "IMAGES_DOWNLOADED"
)

// sampleChars/sampleSentences bound the language-detection sample taken
// from the start of an article's content (§4.8's SCRAPED->LANG_SET rule).
const (
	sampleChars     = 500
	sampleSentences = 3
)

// Translator is the Translation Service's call shape, as consumed here.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, bool)
}

// ContentExtractor is the Content Extractor's call shape (§4.3), as
// consumed here -- *scraper.Extractor satisfies this structurally.
type ContentExtractor interface {
	Extract(ctx context.Context, urlStr string) (scraper.Extracted, error)
}

// ImageFinder is the Image Finder's call shape (§4.6).
type ImageFinder interface {
	Find(ctx context.Context, title, titleEN string, locales []string) []string
}

// ImageDownloader is the Image Downloader's call shape (§4.7).
type ImageDownloader interface {
	Download(ctx context.Context, date, flashpointID, runID string, candidateURLs []string) []string
}

// Pipeline wires every per-article stage together. It is stateless and
// safe for concurrent use by multiple Batch Executor workers: each Run
// call owns its own state.
type Pipeline struct {
	extractor  ContentExtractor
	detector   *nlp.Detector
	translator Translator
	tagger     *nlp.Tagger
	finder     ImageFinder
	downloader ImageDownloader
}

// New builds a Pipeline. finder/downloader may be nil to skip image
// discovery/materialization entirely (e.g. in tests, or a deployment with
// no object store configured).
func New(extractor ContentExtractor, translator Translator, finder ImageFinder, downloader ImageDownloader) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		detector:   nlp.NewDetector(),
		translator: translator,
		tagger:     nlp.NewTagger(),
		finder:     finder,
		downloader: downloader,
	}
}

// Run executes the full state machine for one FeedEntry and returns a
// ProcessingResult, per §4.8. It never panics outward: a catastrophic
// failure in steps 1-2 (scraping) is caught and reported as FAILED;
// everything else fails soft and the article still completes.
func (p *Pipeline) Run(ctx context.Context, date string, input entity.FeedEntry) (result entity.ProcessingResult) {
	start := time.Now()
	var steps []string

	defer func() {
		if r := recover(); r != nil {
			result = entity.Failed(input.ID, steps, time.Since(start), fmt.Sprintf("panic: %v", r))
		}
	}()

	extracted, err := p.extractor.Extract(ctx, input.URL)
	if err != nil {
		return entity.Failed(input.ID, steps, time.Since(start), fmt.Sprintf("scrape failed: %v", err))
	}
	steps = append(steps, stepScraped)

	res := entity.NewExtractResult(input.ID, input.FlashpointID)
	res.Title = extracted.Title
	if res.Title == "" {
		res.Title = input.Title
	}
	res.Author = extracted.Author
	res.PublishedDate = extracted.PublishedDate
	res.Content = extracted.Content
	res.Hostname = extracted.Hostname
	if res.Hostname == "" {
		res.Hostname = input.Hostname
	}
	if scrapedAt, parseErr := time.Parse(time.RFC3339, extracted.ScrapedAt); parseErr == nil {
		res.ScrapedAt = scrapedAt
	} else {
		res.ScrapedAt = time.Now().UTC()
	}

	p.detectLanguage(res)
	steps = append(steps, stepLangSet)

	p.translateTitle(ctx, res)
	steps = append(steps, stepTitleTranslated)

	res.Entities = p.tagger.Tag(res.Content)
	steps = append(steps, stepEntitiesTagged)

	res.GeoEntities = geo.Tag(res.Title, res.Content, res.Entities.Get(entity.LabelLOC))
	steps = append(steps, stepGeotagged)

	candidates := p.findImages(ctx, res)
	steps = append(steps, stepImagesFound)

	if len(candidates) > 0 {
		res.Images = p.downloadImages(ctx, date, res.ParentID, candidates)
		steps = append(steps, stepImagesDownloaded)
	} else {
		res.Images = []string{}
	}

	enriched := res.ToFeedEntry(input)
	return entity.Completed(input.ID, steps, time.Since(start), enriched)
}

// detectLanguage implements SCRAPED->LANG_SET: sample the first 500
// characters as up to 3 sentences plus the title, run detection on each,
// and set language to the modal result. Failure degrades to "" and the
// pipeline continues (§4.8).
func (p *Pipeline) detectLanguage(res *entity.ExtractResult) {
	defer func() {
		if recover() != nil {
			res.Language = ""
		}
	}()

	prefix := res.Content
	if utf8.RuneCountInString(prefix) > sampleChars {
		runes := []rune(prefix)
		prefix = string(runes[:sampleChars])
	}

	samples := splitSentences(prefix, sampleSentences)
	if res.Title != "" {
		samples = append(samples, res.Title)
	}
	res.Language = nlp.DetectModal(samples)
}

// splitSentences does a naive sentence split on ./!/? boundaries, keeping
// at most max non-empty sentences.
func splitSentences(text string, max int) []string {
	var sentences []string
	var cur strings.Builder
	for _, r := range text {
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
				if len(sentences) >= max {
					return sentences
				}
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" && len(sentences) < max {
		sentences = append(sentences, s)
	}
	return sentences
}

// translateTitle implements LANG_SET->TITLE_TRANSLATED.
func (p *Pipeline) translateTitle(ctx context.Context, res *entity.ExtractResult) {
	defer func() {
		if recover() != nil {
			res.TitleEN = ""
		}
	}()

	if res.Language == "en" {
		res.TitleEN = res.Title
		return
	}
	if p.translator == nil || res.Title == "" {
		res.TitleEN = ""
		return
	}
	source := res.Language
	if source == "" {
		source = "auto"
		if detected := p.detector.Detect(res.Title); detected.Language != "" {
			source = detected.Language
		}
	}
	translated, ok := p.translator.Translate(ctx, res.Title, source, "en")
	if !ok {
		res.TitleEN = ""
		return
	}
	res.TitleEN = translated
}

// findImages implements GEOTAGGED->IMAGES_FOUND.
func (p *Pipeline) findImages(ctx context.Context, res *entity.ExtractResult) []string {
	defer func() { _ = recover() }() // fails soft per §4.8
	if p.finder == nil {
		return nil
	}
	locales := images.BuildLocales(countryFromGeo(res.GeoEntities), res.Language)
	return p.finder.Find(ctx, res.Title, res.TitleEN, locales)
}

// downloadImages implements IMAGES_FOUND->IMAGES_DOWNLOADED.
func (p *Pipeline) downloadImages(ctx context.Context, date, flashpointID string, candidates []string) []string {
	defer func() { _ = recover() }() // fails soft per §4.8
	if p.downloader == nil {
		return candidates
	}
	runID := uuid.NewString()
	downloaded := p.downloader.Download(ctx, date, flashpointID, runID, candidates)

	out := make([]string, 0, len(downloaded))
	for _, url := range downloaded {
		if url != "" {
			out = append(out, url)
		}
	}
	return out
}

// countryFromGeo returns the top-ranked geo entity's alpha2, or "" if none.
func countryFromGeo(geoEntities []entity.GeoEntity) string {
	if len(geoEntities) == 0 {
		return ""
	}
	return geoEntities[0].Alpha2
}
