package textx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

func TestSanitizeText(t *testing.T) {
	in := "  Hello\x00World\t\n  "
	assert.Equal(t, "HelloWorld", textx.SanitizeText(in))
}

func TestCleanToken(t *testing.T) {
	cases := map[string]string{
		`"Python"`:    "Python",
		`["Go"]`:      "Go",
		`  sql  `:     "sql",
		`" [React] "`: "React",
		`aws`:         "aws",
		`node.js`:     "node.js",
		`"" `:         "",
		`full stack`:  "full stack",
		` ["ci/cd"] `: "ci/cd",
	}
	for in, want := range cases {
		assert.Equal(t, want, textx.CleanToken(in), "input %q", in)
	}
}

func TestSplitSkills(t *testing.T) {
	got := textx.SplitSkills(`["Python", "SQL", "AWS"]`)
	assert.Equal(t, []string{"Python", "SQL", "AWS"}, got)

	got = textx.SplitSkills("go, , docker,")
	assert.Equal(t, []string{"go", "docker"}, got)

	assert.Nil(t, textx.SplitSkills("   "))
	assert.Nil(t, textx.SplitSkills(""))
}

func TestNormalizeSet(t *testing.T) {
	set := textx.NormalizeSet([]string{`"Python"`, "SQL", "sql", " ", ""})
	assert.Len(t, set, 2)
	_, ok := set["python"]
	assert.True(t, ok)
	_, ok = set["sql"]
	assert.True(t, ok)
}

func TestSortedKeys(t *testing.T) {
	set := map[string]struct{}{"b": {}, "a": {}, "c": {}}
	assert.Equal(t, []string{"a", "b", "c"}, textx.SortedKeys(set))
	assert.Empty(t, textx.SortedKeys(nil))
}
