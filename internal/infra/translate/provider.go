package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Provider is one translation backend in the §4.2 cascade.
type Provider interface {
	Name() string
	// MaxChars returns the provider's input length limit, or 0 for no limit
	// (MyMemory's free tier caps at 500 chars).
	MaxChars() int
	Translate(ctx context.Context, client *http.Client, text, source, target string) (string, error)
}

// googleProvider uses the unofficial translate.googleapis.com endpoint, the
// same one the widely used "free Google Translate" client libraries hit.
type googleProvider struct{}

func (googleProvider) Name() string  { return "google" }
func (googleProvider) MaxChars() int { return 0 }

func (googleProvider) Translate(ctx context.Context, client *http.Client, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	endpoint := "https://translate.googleapis.com/translate_a/single?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google translate HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	// Response shape: [[["translated", "original", null, null, 1], ...], ...]
	var parsed []json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed) == 0 {
		return "", fmt.Errorf("malformed google translate response")
	}

	var sentences []json.RawMessage
	if err := json.Unmarshal(parsed[0], &sentences); err != nil {
		return "", fmt.Errorf("malformed google translate sentence list")
	}

	var out string
	for _, s := range sentences {
		var pieces []json.RawMessage
		if err := json.Unmarshal(s, &pieces); err != nil || len(pieces) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(pieces[0], &piece); err == nil {
			out += piece
		}
	}
	if out == "" {
		return "", fmt.Errorf("empty google translate result")
	}
	return out, nil
}

// freeAPIProvider targets a generic free translation proxy (e.g.
// api.freeapi.app-style passthrough) returning {"text": "..."}.
type freeAPIProvider struct{ baseURL string }

func (freeAPIProvider) Name() string  { return "freeapi" }
func (freeAPIProvider) MaxChars() int { return 0 }

func (p freeAPIProvider) Translate(ctx context.Context, client *http.Client, text, source, target string) (string, error) {
	base := p.baseURL
	if base == "" {
		base = "https://ftapi.pythonanywhere.com/translate"
	}
	q := url.Values{}
	q.Set("sl", source)
	q.Set("dl", target)
	q.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("freeapi translate HTTP %d", resp.StatusCode)
	}

	var parsed struct {
		DestinationText string `json:"destination-text"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.DestinationText == "" {
		return "", fmt.Errorf("empty freeapi translate result")
	}
	return parsed.DestinationText, nil
}

// myMemoryProvider uses the MyMemory free translation API, which caps
// requests at 500 characters (§4.2).
type myMemoryProvider struct{ baseURL string }

func (myMemoryProvider) Name() string  { return "mymemory" }
func (myMemoryProvider) MaxChars() int { return 500 }

func (p myMemoryProvider) Translate(ctx context.Context, client *http.Client, text, source, target string) (string, error) {
	base := p.baseURL
	if base == "" {
		base = "https://api.mymemory.translated.net/get"
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", source+"|"+target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mymemory translate HTTP %d", resp.StatusCode)
	}

	var parsed struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus int `json:"responseStatus"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.ResponseStatus != 0 && parsed.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("mymemory translate status %d", parsed.ResponseStatus)
	}
	if parsed.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("empty mymemory translate result")
	}
	return parsed.ResponseData.TranslatedText, nil
}
