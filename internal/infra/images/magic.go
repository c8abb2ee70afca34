package images

import (
	"bytes"
	_ "image/gif"  // register GIF decoder for DecodeConfig
	_ "image/jpeg" // register JPEG decoder for DecodeConfig
	_ "image/png"  // register PNG decoder for DecodeConfig
	"image"

	_ "golang.org/x/image/bmp"  // register BMP decoder for DecodeConfig
	_ "golang.org/x/image/webp" // register WEBP decoder for DecodeConfig
)

// magicHeader is one known image format's signature bytes, checked
// against the start of the downloaded body (§4.7 step 3: "first 32 bytes
// match a known image magic header").
type magicHeader struct {
	format string
	prefix []byte
}

var magicHeaders = []magicHeader{
	{"jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"gif", []byte("GIF87a")},
	{"gif", []byte("GIF89a")},
	{"bmp", []byte("BM")},
	{"webp", []byte("RIFF")}, // "WEBP" appears at offset 8; checked separately
}

// SniffImageFormat inspects the first bytes of body and returns the
// matched format name, or "" if none of the known magic headers match.
func SniffImageFormat(head []byte) string {
	for _, h := range magicHeaders {
		if len(head) < len(h.prefix) {
			continue
		}
		if !bytes.Equal(head[:len(h.prefix)], h.prefix) {
			continue
		}
		if h.format == "webp" {
			if len(head) < 12 || !bytes.Equal(head[8:12], []byte("WEBP")) {
				continue
			}
		}
		return h.format
	}
	return ""
}

// Dimensions decodes just the header of an image body to recover its
// width/height, used by the Finder's quality filter when a search
// backend doesn't already report dimensions.
func Dimensions(body []byte) (width, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(body))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
