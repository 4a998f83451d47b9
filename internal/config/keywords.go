package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRelevanceKeywords reads a YAML list of lower-cased role words used by
// the relevance filter. An empty path returns nil so callers keep the
// built-in set.
func LoadRelevanceKeywords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=config.LoadRelevanceKeywords: %w", err)
	}
	var words []string
	if err := yaml.Unmarshal(b, &words); err != nil {
		return nil, fmt.Errorf("op=config.LoadRelevanceKeywords: %w", err)
	}
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}
