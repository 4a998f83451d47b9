// Package ai holds the prompt construction and response handling shared by
// the narrative-analysis backends.
package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// batchSchema constrains the collaborator response: a map from category name
// to a prose analysis block. Anything else is discarded.
const batchSchema = `{
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {
    "type": "object",
    "properties": {
      "summary": {"type": "string"},
      "strengths": {"type": "array", "items": {"type": "string"}},
      "gaps": {"type": "array", "items": {"type": "string"}},
      "recommendations": {"type": "array", "items": {"type": "string"}}
    },
    "additionalProperties": true
  }
}`

// SystemPrompt instructs chat-style backends to answer with bare JSON.
const SystemPrompt = "You are a career-matching assistant. Respond with a single JSON object and no surrounding prose."

// BuildBatchPrompt renders one prompt covering every category in the request,
// so the collaborator is called once per batch rather than once per job.
// Categories are rendered in sorted order for reproducible prompts.
func BuildBatchPrompt(req domain.NarrativeRequest) string {
	names := make([]string, 0, len(req.Categories))
	for name := range req.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Analyze the candidate's fit for multiple job categories.\n\n")
	b.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(req.CandidateSkills, ", "))
	fmt.Fprintf(&b, "Experience Level: %s\n", req.ExperienceLevel)
	fmt.Fprintf(&b, "Education Level: %s\n\n", req.EducationLevel)
	b.WriteString("Categories to analyze:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "Category: %s\nRequired Skills: %s\n", name, strings.Join(req.Categories[name], ", "))
	}
	b.WriteString("\nProvide a brief analysis for each category as JSON:\n")
	b.WriteString(`{"<category name>": {"summary": "brief assessment", "strengths": ["key strengths"], "gaps": ["potential gaps"], "recommendations": ["quick recommendations"]}}`)
	return b.String()
}

// ParseBatch extracts, validates, and decodes a category→narrative map from a
// raw model response. Markdown code fences are tolerated; anything that is
// not valid JSON matching the expected shape yields ErrSchemaInvalid so the
// caller falls back to its deterministic analysis.
func ParseBatch(raw string) (map[string]domain.Narrative, error) {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrSchemaInvalid)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(batchSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, result.Errors())
	}

	var narratives map[string]domain.Narrative
	if err := json.Unmarshal([]byte(cleaned), &narratives); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return narratives, nil
}

// ExtractJSON strips markdown code fences and stray backticks that chat
// models wrap JSON payloads in.
func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
