package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTrackingParams_RemovesUTMAndKnownKeys(t *testing.T) {
	u, err := url.Parse("https://example.com/a?utm_source=x&utm_medium=y&fbclid=z&id=keep")
	require.NoError(t, err)

	stripTrackingParams(u)

	assert.Equal(t, "id=keep", u.RawQuery)
}

func TestStripTrackingParams_NoTrackingParamsLeavesQueryUnchanged(t *testing.T) {
	u, err := url.Parse("https://example.com/a?id=keep&other=1")
	require.NoError(t, err)

	stripTrackingParams(u)

	assert.Equal(t, "id=keep&other=1", u.RawQuery)
}

func TestContinueURLFromConsent_ExtractsDestination(t *testing.T) {
	u, err := url.Parse("https://consent.google.com/ml?continue=https%3A%2F%2Fexample.com%2Farticle")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/article", continueURLFromConsent(u))
}

func TestContinueURLFromConsent_NoContinueParamReturnsEmpty(t *testing.T) {
	u, err := url.Parse("https://example.com/article")
	require.NoError(t, err)

	assert.Equal(t, "", continueURLFromConsent(u))
}

func TestDeepUnquote_UnwrapsNestedEncoding(t *testing.T) {
	once := url.QueryEscape("https://example.com/a?b=c")
	twice := url.QueryEscape(once)

	assert.Equal(t, "https://example.com/a?b=c", deepUnquote(twice, 6))
}

func TestDeepUnquote_StopsWhenNoFurtherChange(t *testing.T) {
	assert.Equal(t, "https://example.com/", deepUnquote("https://example.com/", 6))
}

func TestIsSafeURL(t *testing.T) {
	assert.True(t, isSafeURL("https://example.com/a"))
	assert.True(t, isSafeURL("http://example.com/a"))
	assert.False(t, isSafeURL("ftp://example.com/a"))
	assert.False(t, isSafeURL("not a url"))
	assert.False(t, isSafeURL("https:///no-host"))
}

func TestNormalizeURL_StripsTrackingParamsOnPlainURL(t *testing.T) {
	client := &http.Client{}
	got := normalizeURL(context.Background(), client, "https://example.com/a?utm_source=newsletter&id=1", "test-agent")
	assert.Equal(t, "https://example.com/a?id=1", got)
}

func TestNormalizeURL_ResolvesGoogleNewsRedirector(t *testing.T) {
	publisher := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer publisher.Close()

	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, publisher.URL+"/article?utm_source=x", http.StatusFound)
	}))
	defer redirector.Close()

	// googleNewsRedirectorPattern only matches the real host, so exercise
	// resolveRedirects directly against the test server instead of routing
	// through normalizeURL's host check.
	client := redirector.Client()
	final := resolveRedirects(context.Background(), client, redirector.URL, "test-agent")
	assert.Contains(t, final, publisher.URL)
}

func TestNormalizeURL_UnsafeInputReturnsUnchanged(t *testing.T) {
	client := &http.Client{}
	got := normalizeURL(context.Background(), client, "not a url", "test-agent")
	assert.Equal(t, "not a url", got)
}
