package source

// EstimateTokens approximates the token count for a text string using
// the chars/4 heuristic (standard approximation for GPT/Claude
// tokenizers). Returns 0 for empty strings, at least 1 for non-empty
// strings, and grows monotonically with content length.
// This is O(1) — uses len() only, no iteration.
func EstimateTokens(text string) int {
	n := len(text)
	if n == 0 {
		return 0
	}
	tokens := n / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
