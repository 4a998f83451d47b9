// Package textx provides small text utilities used across the project.
package textx

import (
	"sort"
	"strings"
)

// tokenCutset covers the noise the job source wraps skill tokens in:
// surrounding quotes, brackets, and whitespace.
const tokenCutset = "\" []"

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanToken strips surrounding quotes, brackets, and whitespace from a skill
// token.
func CleanToken(s string) string {
	return strings.Trim(strings.TrimSpace(s), tokenCutset)
}

// SplitSkills splits a comma-separated skill list and cleans each token.
// Empty tokens are dropped.
func SplitSkills(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if tok := CleanToken(p); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// NormalizeSet lower-cases and cleans a skill list into a set. Empty tokens
// are dropped.
func NormalizeSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if tok := strings.ToLower(CleanToken(s)); tok != "" {
			set[tok] = struct{}{}
		}
	}
	return set
}

// SortedKeys returns the set's members in lexicographic order. Result
// payloads sort skill lists so fixed inputs produce identical output.
func SortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
