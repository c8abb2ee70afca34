package respond

import "regexp"

// Secret-shaped substrings masked out of error text before it reaches a
// client or log line. Order matters: the Anthropic pattern is checked
// before the looser OpenAI one so a sk-ant-... key isn't partially matched
// by the generic sk-... rule first.
var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	dsnPasswordPattern  = regexp.MustCompile(`://([^:]+):([^@]+)@`)
)

// SanitizeError renders err's message with API keys and DSN passwords
// masked out. Returns "" for a nil error.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
