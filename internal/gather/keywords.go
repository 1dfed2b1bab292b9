package gather

import (
	"regexp"
	"strings"
)

// maxKeywords caps search keywords so the content scan stays fast.
const maxKeywords = 10

// wordPattern matches identifier-like words, which is what code search
// cares about. "auth_handler" survives as one keyword.
var wordPattern = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

// stopWords filters common English and generic task verbs from keyword
// extraction. "Fix the login handler" should search for "login" and
// "handler", not "fix".
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true,
	"should": true, "may": true, "might": true, "shall": true,
	"can": true, "need": true, "must": true,
	"i": true, "me": true, "my": true, "we": true, "our": true,
	"you": true, "your": true, "he": true, "she": true, "it": true,
	"they": true, "them": true, "this": true, "that": true,
	"these": true, "those": true,
	"and": true, "but": true, "or": true, "nor": true, "not": true,
	"so": true, "yet": true, "both": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true,
	"up": true, "out": true, "if": true, "then": true, "than": true,
	"too": true, "very": true,
	"just": true, "about": true, "also": true, "all": true, "any": true,
	"each": true, "every": true,
	"how": true, "what": true, "when": true, "where": true,
	"which": true, "who": true, "why": true,
	"add": true, "fix": true, "update": true, "change": true,
	"modify": true, "create": true, "make": true,
	"implement": true, "write": true, "build": true, "improve": true,
	"refactor": true, "remove": true,
	"delete": true, "get": true, "set": true, "use": true,
	"new": true, "old": true,
}

// extractKeywords pulls search keywords from a task description.
// Simple heuristic: identifier-like words, lowercased, stop words
// dropped, deduplicated in first-seen order, capped at maxKeywords.
// No model call needed.
func extractKeywords(task string) []string {
	words := wordPattern.FindAllString(task, -1)

	seen := make(map[string]bool, len(words))
	var keywords []string
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) < 2 || stopWords[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		keywords = append(keywords, lower)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
