// Package csvsource loads the job catalog from a tabular CSV source and
// serves it through a TTL cache.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

// Recognized source columns. Header names are case-sensitive; unrecognized
// columns are ignored.
const (
	colTitle          = "Job Title"
	colRole           = "Role"
	colDescription    = "Description"
	colQualifications = "Qualifications"
	colSkills         = "skills"
	colCompany        = "Company"
	colSalaryRange    = "Salary Range"
	colWorkType       = "Work Type"
)

// educationKeywords flag qualification lines that describe education
// requirements.
var educationKeywords = []string{"bachelor", "master", "phd", "degree", "diploma", "certification"}

// Loader parses the CSV source into a JobCatalog. Rows with a blank title are
// skipped; other fields are coerced with best-effort defaults. Ingestion
// stops after MaxRows accepted rows regardless of source size.
type Loader struct {
	Path    string
	MaxRows int
}

// NewLoader constructs a Loader; maxRows <= 0 falls back to 100.
func NewLoader(path string, maxRows int) Loader {
	if maxRows <= 0 {
		maxRows = 100
	}
	return Loader{Path: path, MaxRows: maxRows}
}

// Load reads the source. A failure to open or read the header is returned to
// the caller (the cache degrades it to an empty catalog); individual row
// failures are swallowed and the row skipped.
func (l Loader) Load() (domain.JobCatalog, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrSourceUnavailable, l.Path, err)
	}
	defer func() { _ = f.Close() }()
	return l.parse(f)
}

func (l Loader) parse(r io.Reader) (domain.JobCatalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrSourceUnavailable, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	catalog := make(domain.JobCatalog, 0, l.MaxRows)
	skipped := 0
	for len(catalog) < l.MaxRows {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		job, ok := coerceRow(cols, row)
		if !ok {
			skipped++
			continue
		}
		catalog = append(catalog, job)
	}
	if skipped > 0 {
		slog.Debug("catalog rows skipped", slog.Int("skipped", skipped), slog.Int("accepted", len(catalog)))
	}
	return catalog, nil
}

// coerceRow builds a JobRecord from one CSV row. It reports ok=false for rows
// with a missing or blank title. Columns absent from the header default to
// empty string, or "Not specified" for company, salary range, and work type.
func coerceRow(cols map[string]int, row []string) (domain.JobRecord, bool) {
	title := strings.TrimSpace(field(cols, row, colTitle, ""))
	if title == "" {
		return domain.JobRecord{}, false
	}
	qualifications := strings.TrimSpace(field(cols, row, colQualifications, ""))
	return domain.JobRecord{
		Title:          title,
		Role:           strings.TrimSpace(field(cols, row, colRole, "")),
		Description:    strings.TrimSpace(field(cols, row, colDescription, "")),
		Qualifications: qualifications,
		Company:        field(cols, row, colCompany, domain.NotSpecified),
		SalaryRange:    field(cols, row, colSalaryRange, domain.NotSpecified),
		WorkType:       field(cols, row, colWorkType, domain.NotSpecified),
		Requirements: domain.Requirements{
			Skills:     textx.SplitSkills(field(cols, row, colSkills, "")),
			Experience: parseExperience(qualifications),
			Education:  parseEducation(qualifications),
		},
	}, true
}

func field(cols map[string]int, row []string, name, fallback string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return fallback
	}
	return row[i]
}

// parseEducation scans qualification lines for education keywords.
func parseEducation(qualifications string) []string {
	var levels []string
	for _, line := range strings.Split(qualifications, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range educationKeywords {
			if strings.Contains(lower, kw) {
				levels = append(levels, strings.TrimSpace(line))
				break
			}
		}
	}
	return levels
}

// parseExperience scans qualification lines for experience/year cues. A digit
// directly preceded by "minimum", "at least", or "more than" sets the
// minimum-years requirement; the first cue wins.
func parseExperience(qualifications string) domain.ExperienceRequirement {
	req := domain.ExperienceRequirement{}
	for _, line := range strings.Split(qualifications, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "experience") && !strings.Contains(lower, "years") {
			continue
		}
		req.Description = append(req.Description, strings.TrimSpace(line))
		if req.MinimumYears > 0 {
			continue
		}
		words := strings.Fields(lower)
		for i, word := range words {
			n, err := strconv.Atoi(word)
			if err != nil || n < 0 || i == 0 {
				continue
			}
			if yearsCue(words, i) {
				req.MinimumYears = n
				break
			}
		}
	}
	return req
}

func yearsCue(words []string, i int) bool {
	prev := words[i-1]
	switch prev {
	case "minimum":
		return true
	case "least":
		return i >= 2 && words[i-2] == "at"
	case "than":
		return i >= 2 && words[i-2] == "more"
	}
	return false
}
