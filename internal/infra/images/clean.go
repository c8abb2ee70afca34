package images

import (
	"net/url"
	"regexp"
	"strings"
)

// knownImageExtensions are the extensions clean_image_url truncates after,
// stripping whatever CMS-appended path segments follow (e.g. Plone's
// "@@images" view).
var knownImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}

var cmsSuffixPattern = regexp.MustCompile(`(?i)^(\.[a-z]{3,4})`)

// CleanImageURL truncates a URL right after its first known image
// extension, dropping any CMS-style suffix that follows (§4.7:
// "https://site/foo.jpg/@@images/x.png -> https://site/foo.jpg").
func CleanImageURL(raw string) string {
	lower := strings.ToLower(raw)
	bestIdx := -1
	bestLen := 0
	for _, ext := range knownImageExtensions {
		if idx := strings.Index(lower, ext); idx != -1 {
			cut := idx + len(ext)
			rest := raw[cut:]
			if rest != "" && !strings.HasPrefix(rest, "/") && !cmsSuffixPattern.MatchString(rest) {
				// extension is mid-word (e.g. ".jpgish"), not a real boundary
				continue
			}
			if bestIdx == -1 || idx < bestIdx {
				bestIdx = idx
				bestLen = len(ext)
			}
		}
	}
	if bestIdx == -1 {
		return raw
	}
	return raw[:bestIdx+bestLen]
}

// IsHTTPURL reports whether raw parses as an absolute http(s) URL.
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ExtensionFromURL derives a normalized file extension from a URL path,
// falling back to mimeExt when the path has none. Normalizes .jpe/.jpeg
// to .jpg per §4.7.
func ExtensionFromURL(raw, mimeType string) string {
	u, err := url.Parse(raw)
	ext := ""
	if err == nil {
		if idx := strings.LastIndexByte(u.Path, '.'); idx != -1 {
			ext = strings.ToLower(u.Path[idx:])
		}
	}
	if ext == "" || len(ext) > 5 {
		ext = extFromMime(mimeType)
	}
	return normalizeExt(ext)
}

func normalizeExt(ext string) string {
	switch ext {
	case ".jpe", ".jpeg":
		return ".jpg"
	case "":
		return ".jpg"
	default:
		return ext
	}
}

func extFromMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ".jpg"
	}
}
