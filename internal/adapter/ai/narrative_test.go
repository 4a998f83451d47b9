package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

func TestBuildBatchPrompt(t *testing.T) {
	req := domain.NarrativeRequest{
		CandidateSkills: []string{"go", "sql"},
		ExperienceLevel: "Mid Level",
		EducationLevel:  "Bachelor",
		Categories: map[string][]string{
			"Software Engineer": {"go", "kubernetes"},
			"Data Scientist":    {"python", "statistics"},
		},
	}

	prompt := BuildBatchPrompt(req)

	assert.Contains(t, prompt, "Skills: go, sql")
	assert.Contains(t, prompt, "Experience Level: Mid Level")
	assert.Contains(t, prompt, "Category: Software Engineer")
	assert.Contains(t, prompt, "Required Skills: python, statistics")
	// Categories render in sorted order for stable prompts.
	assert.Less(t,
		strings.Index(prompt, "Category: Data Scientist"),
		strings.Index(prompt, "Category: Software Engineer"))
}

func TestParseBatch_PlainJSON(t *testing.T) {
	raw := `{"Software Engineer": {"summary": "Good fit", "strengths": ["Go"], "gaps": [], "recommendations": ["Learn k8s"]}}`

	got, err := ParseBatch(raw)
	require.NoError(t, err)
	require.Contains(t, got, "Software Engineer")
	assert.Equal(t, "Good fit", got["Software Engineer"].Summary)
	assert.Equal(t, []string{"Go"}, got["Software Engineer"].Strengths)
}

func TestParseBatch_FencedJSON(t *testing.T) {
	raw := "```json\n{\"Marketing\": {\"summary\": \"Solid\"}}\n```"

	got, err := ParseBatch(raw)
	require.NoError(t, err)
	assert.Equal(t, "Solid", got["Marketing"].Summary)
}

func TestParseBatch_Malformed(t *testing.T) {
	_, err := ParseBatch("not json at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestParseBatch_Empty(t *testing.T) {
	_, err := ParseBatch("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestParseBatch_WrongShape(t *testing.T) {
	_, err := ParseBatch(`{"Marketing": "just a string"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestParseBatch_EmptyObjectRejected(t *testing.T) {
	_, err := ParseBatch(`{}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"backticks", "`{\"a\":1}`", `{"a":1}`},
		{"whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractJSON(tc.in))
		})
	}
}
