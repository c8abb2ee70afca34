package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// dismissCookieBannersScript is injected before extraction to click through
// the handful of consent-banner patterns that otherwise cover the article
// body and starve the density predicate below.
const dismissCookieBannersScript = `
(function() {
  var selectors = [
    '#onetrust-accept-btn-handler',
    '.cc-btn.cc-allow',
    'button[aria-label="Accept all"]',
    'button[aria-label="Accept cookies"]',
    '[data-testid="cookie-banner-accept"]'
  ];
  selectors.forEach(function(sel) {
    var el = document.querySelector(sel);
    if (el) { el.click(); }
  });
})();
`

// articleDensityScript estimates whether enough readable text has rendered
// yet: total visible text length across paragraph-like nodes. The fallback
// stage races this against a plain DOM-readiness wait and takes whichever
// settles first.
const articleDensityScript = `
(function() {
  var nodes = document.querySelectorAll('p, article, [role="article"]');
  var total = 0;
  nodes.forEach(function(n) { total += (n.innerText || '').length; });
  return total;
})();
`

const densityReadyThreshold = 400

// fallbackExtractor renders a page in a headless browser and pulls the
// rendered DOM through Readability, for articles the primary HTTP stage
// couldn't get a satisfying result from (JS-rendered pages, anti-bot walls).
type fallbackExtractor struct {
	config  Config
	proxies ProxySource
}

func newFallbackExtractor(cfg Config, proxies ProxySource) *fallbackExtractor {
	return &fallbackExtractor{config: cfg, proxies: proxies}
}

// Fetch renders urlStr once, and if the result is below config.PrimaryMinWords
// (i.e. even the fallback stage got a thin page) retries once through a
// rotated proxy after the 1s/2s/4s backoff schedule, this time enforcing the
// stricter FallbackMinWordsRetried floor.
func (e *fallbackExtractor) Fetch(ctx context.Context, urlStr string) (Extracted, error) {
	if err := validateURL(urlStr, e.config.DenyPrivateIPs); err != nil {
		return Extracted{}, err
	}

	html, err := e.render(ctx, urlStr, "")
	if err == nil {
		if article, aerr := extractReadability(html, urlStr); aerr == nil {
			return article, nil
		}
	}

	var lastErr error = fmt.Errorf("%w: initial headless render failed", ErrExtractionFailed)
	if err != nil {
		lastErr = err
	}

	for _, backoff := range e.config.FallbackRetryBackoff {
		select {
		case <-ctx.Done():
			return Extracted{}, ctx.Err()
		case <-time.After(backoff):
		}

		proxy, _ := e.proxies.RandomProxy()
		html, err := e.render(ctx, urlStr, proxy)
		if err != nil {
			lastErr = err
			continue
		}

		article, aerr := extractReadability(html, urlStr)
		if aerr != nil {
			lastErr = aerr
			continue
		}

		if wordCount(article.Content) < e.config.FallbackMinWordsRetried {
			lastErr = fmt.Errorf("%w: %d words (min %d)", ErrWordCountTooLow, wordCount(article.Content), e.config.FallbackMinWordsRetried)
			continue
		}
		return article, nil
	}

	return Extracted{}, lastErr
}

// render launches a fresh headless tab, dismisses consent banners, races a
// DOM-ready wait against the text-density predicate, and returns the
// rendered HTML. proxy, when non-empty, routes the browser through it.
func (e *fallbackExtractor) render(ctx context.Context, urlStr, proxy string) (string, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserAgent(e.config.UserAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if proxy != "" {
		opts = append(opts, chromedp.ProxyServer(proxy))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	pageCtx, cancelPage := chromedp.NewContext(allocCtx)
	defer cancelPage()

	pageCtx, cancelTimeout := context.WithTimeout(pageCtx, e.config.FallbackPageTimeout)
	defer cancelTimeout()

	var html string
	var density int
	err := chromedp.Run(pageCtx,
		chromedp.Navigate(urlStr),
		chromedp.Evaluate(dismissCookieBannersScript, nil),
		chromedp.ActionFunc(func(ctx context.Context) error {
			return waitReadyOrDense(ctx, &density)
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: headless render: %v", ErrExtractionFailed, err)
	}
	return html, nil
}

// waitReadyOrDense polls document.readyState and the density predicate,
// returning as soon as either is satisfied, matching §4.3.2's "OR" wait.
func waitReadyOrDense(ctx context.Context, density *int) error {
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		var readyState string
		if err := chromedp.Evaluate(`document.readyState`, &readyState).Do(ctx); err == nil && readyState == "complete" {
			return nil
		}

		var d int
		if err := chromedp.Evaluate(articleDensityScript, &d).Do(ctx); err == nil {
			*density = d
			if d >= densityReadyThreshold {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return nil
}
