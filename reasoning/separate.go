package reasoning

import (
	"regexp"
	"strings"
)

// separator joins independent reasoning fragments.
const separator = "\n\n"

var thinkTag = regexp.MustCompile(`(?is)<think>(.*?)</think>`)

// Separate removes every <think>...</think> block from text and returns the
// remaining answer with the reasoning. Tag bodies are trimmed and joined with
// blank lines. When explicit reasoning is also given it comes first; if it is
// identical to the tag reasoning it is not repeated.
func Separate(text, explicit string) (answer, reasoning string) {
	var tagged []string
	for _, m := range thinkTag.FindAllStringSubmatch(text, -1) {
		if body := strings.TrimSpace(m[1]); body != "" {
			tagged = append(tagged, body)
		}
	}
	answer = strings.TrimSpace(thinkTag.ReplaceAllString(text, ""))

	fromTags := strings.Join(tagged, separator)
	explicit = strings.TrimSpace(explicit)

	switch {
	case explicit != "" && fromTags != "" && explicit != fromTags:
		reasoning = explicit + separator + fromTags
	case explicit != "":
		reasoning = explicit
	default:
		reasoning = fromTags
	}
	return answer, Normalize(reasoning)
}
