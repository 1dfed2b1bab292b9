package llm

import "strings"

// Models asked for "JSON only" still wrap answers in prose or markdown
// fences often enough that every structured parse must dig the JSON out
// first. These helpers pull the widest candidate span; whether a failed
// extraction is fatal or fail-closed is the calling stage's decision.

// ExtractJSONArray returns the substring from the first '[' to the last
// ']' in text. ok is false when no such span exists.
func ExtractJSONArray(text string) (string, bool) {
	return extractSpan(text, '[', ']')
}

// ExtractJSONObject returns the substring from the first '{' to the
// last '}' in text. ok is false when no such span exists.
func ExtractJSONObject(text string) (string, bool) {
	return extractSpan(text, '{', '}')
}

func extractSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, close)
	if end <= start {
		return "", false
	}
	return text[start : end+1], true
}
