// Package llmjson recovers JSON objects from model responses that may
// wrap the payload in markdown fences or surrounding prose.
package llmjson

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// Unmarshal parses a model response into v, trying progressively more
// forgiving recovery: the raw text, then the contents of a ```json fence,
// then the widest first-{ to last-} slice. Candidates that are not valid
// JSON are skipped without writing into v.
func Unmarshal(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return eris.New("llmjson: empty response")
	}

	for _, candidate := range candidates(text) {
		raw := json.RawMessage{}
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			continue
		}
		if err := json.Unmarshal(raw, v); err == nil {
			return nil
		}
	}
	return eris.New("llmjson: no parseable JSON object in response")
}

// candidates returns the recovery attempts in order of strictness.
func candidates(text string) []string {
	out := []string{text}
	if fenced := unfence(text); fenced != "" && fenced != text {
		out = append(out, fenced)
	}
	if sliced := widestObject(text); sliced != "" && sliced != text {
		out = append(out, sliced)
	}
	return out
}

// unfence strips a markdown code fence, with or without the json language tag.
func unfence(text string) string {
	idx := strings.Index(text, "```json")
	if idx >= 0 {
		text = text[idx+len("```json"):]
	} else if idx = strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
	} else {
		return ""
	}
	if end := strings.LastIndex(text, "```"); end >= 0 {
		text = text[:end]
	}
	return strings.TrimSpace(text)
}

// widestObject slices from the first '{' to the last '}'.
func widestObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
