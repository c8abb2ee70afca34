package nlp

import "strings"

// MaxChunkChars bounds how much text a single tagging pass sees at once
// (§4.4: "chunks of at most 20,000 characters"). The NER model's accuracy
// degrades on very long inputs and its maxent classifier allocates
// proportional to document length, so chunking keeps memory and latency
// bounded on long-form articles.
const MaxChunkChars = 20_000

// Chunk splits text into pieces no larger than MaxChunkChars, never
// breaking inside a line. A single line longer than MaxChunkChars is kept
// whole as its own oversized chunk rather than cut mid-word.
func Chunk(text string) []string {
	if len(text) <= MaxChunkChars {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, len(text)/MaxChunkChars+1)

	var b strings.Builder
	for _, line := range lines {
		lineLen := len(line) + 1 // account for the join newline
		if b.Len() > 0 && b.Len()+lineLen > MaxChunkChars {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
