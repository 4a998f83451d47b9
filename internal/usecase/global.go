package usecase

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

const maxGlobalMatches = 5

// Weighted composition of the global category score.
const (
	skillWeight      = 0.5
	experienceWeight = 0.3
	educationWeight  = 0.2
	partialFit       = 0.5
)

// CategoryRequirements describes one global job category's typical profile.
type CategoryRequirements struct {
	Skills           []string
	Departments      []string
	ExperienceLevels []string
	Education        []string
}

// globalJobCategories is the fixed table of category profiles candidates are
// assessed against independently of the catalog.
var globalJobCategories = map[string]CategoryRequirements{
	"Software Development": {
		Skills: []string{"programming", "software development", "coding", "algorithms", "data structures",
			"version control", "testing", "debugging", "problem solving"},
		Departments:      []string{"Engineering", "Technology", "IT", "Research & Development"},
		ExperienceLevels: []string{"Entry Level", "Mid Level", "Senior", "Lead", "Architect"},
		Education:        []string{"Computer Science", "Software Engineering", "Information Technology"},
	},
	"Data Science": {
		Skills: []string{"data analysis", "machine learning", "statistics", "python", "r", "sql",
			"data visualization", "big data", "predictive modeling"},
		Departments:      []string{"Data Science", "Analytics", "Research", "Technology"},
		ExperienceLevels: []string{"Entry Level", "Mid Level", "Senior", "Lead", "Principal"},
		Education:        []string{"Data Science", "Computer Science", "Statistics", "Mathematics"},
	},
	"Business Analysis": {
		Skills: []string{"business analysis", "requirements gathering", "process improvement", "project management",
			"data analysis", "communication", "documentation", "stakeholder management"},
		Departments:      []string{"Business", "Operations", "Strategy", "Consulting"},
		ExperienceLevels: []string{"Entry Level", "Mid Level", "Senior", "Lead", "Manager"},
		Education:        []string{"Business Administration", "Management", "Economics", "Finance"},
	},
	"Marketing": {
		Skills: []string{"digital marketing", "social media", "content creation", "analytics", "seo",
			"campaign management", "brand management", "market research"},
		Departments:      []string{"Marketing", "Digital", "Communications", "Brand"},
		ExperienceLevels: []string{"Entry Level", "Mid Level", "Senior", "Lead", "Director"},
		Education:        []string{"Marketing", "Communications", "Business", "Media Studies"},
	},
}

// GlobalMatches assesses the candidate against the fixed category table:
// skills weigh 50%, experience-level fit 30%, education fit 20%. The top five
// categories are returned, sorted descending by score. A configured analyzer
// enriches the prose with one batched call; its absence or failure leaves the
// deterministic analysis in place.
func (s MatchService) GlobalMatches(ctx domain.Context, candidate domain.CandidateProfile) []domain.CategoryMatch {
	years := EstimateYears(candidate.Experience)
	level := ExperienceLevel(years)
	education := HighestEducationLabel(candidate.Education)
	candidateSkills := textx.NormalizeSet(candidate.Skills)

	names := make([]string, 0, len(globalJobCategories))
	categoriesReq := make(map[string][]string, len(globalJobCategories))
	for name, req := range globalJobCategories {
		names = append(names, name)
		categoriesReq[name] = req.Skills
	}
	sort.Strings(names)

	narratives := s.batchNarratives(ctx, candidate, level, education, categoriesReq)

	matches := make([]domain.CategoryMatch, 0, len(names))
	for _, name := range names {
		req := globalJobCategories[name]
		requiredSkills := textx.NormalizeSet(req.Skills)

		matching := make([]string, 0, len(requiredSkills))
		missing := make([]string, 0, len(requiredSkills))
		for _, skill := range textx.SortedKeys(requiredSkills) {
			if _, ok := candidateSkills[skill]; ok {
				matching = append(matching, skill)
			} else {
				missing = append(missing, skill)
			}
		}

		skillFit := partialFit
		if len(requiredSkills) > 0 {
			skillFit = float64(len(matching)) / float64(len(requiredSkills))
		}
		expFit := partialFit
		if slices.Contains(req.ExperienceLevels, level) {
			expFit = 1.0
		}
		eduFit := partialFit
		if educationMatches(req.Education, candidate.Education) {
			eduFit = 1.0
		}

		score := (skillFit*skillWeight + expFit*experienceWeight + eduFit*educationWeight) * 100
		score = math.Round(score*100) / 100

		analysis := domain.MatchAnalysis{
			Summary: fmt.Sprintf("Quick analysis for %s roles", name),
			Strengths: []string{
				fmt.Sprintf("Experience level: %s", level),
				fmt.Sprintf("Matching skills: %d out of %d", len(matching), len(requiredSkills)),
			},
			Gaps: []string{},
			Recommendations: []string{
				"Consider gaining more experience in this field",
				"Look for opportunities to develop required skills",
			},
			MatchingSkills: matching,
			MissingSkills:  missing,
		}
		if n, ok := narratives[name]; ok {
			if n.Summary != "" {
				analysis.Summary = n.Summary
			}
			if len(n.Strengths) > 0 {
				analysis.Strengths = n.Strengths
			}
			if len(n.Gaps) > 0 {
				analysis.Gaps = n.Gaps
			}
			if len(n.Recommendations) > 0 {
				analysis.Recommendations = n.Recommendations
			}
		}

		matches = append(matches, domain.CategoryMatch{
			Category:        name,
			Score:           score,
			Departments:     req.Departments,
			ExperienceLevel: level,
			RequiredSkills:  req.Skills,
			Analysis:        analysis,
		})
	}

	slices.SortStableFunc(matches, func(a, b domain.CategoryMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(matches) > maxGlobalMatches {
		matches = matches[:maxGlobalMatches]
	}
	return matches
}

// batchNarratives requests enrichment for all categories in one call; any
// failure returns nil and the deterministic analysis stands.
func (s MatchService) batchNarratives(ctx domain.Context, candidate domain.CandidateProfile, level, education string, categories map[string][]string) map[string]domain.Narrative {
	if s.Analyzer == nil {
		return nil
	}
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	aiCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	narratives, err := s.Analyzer.AnalyzeCategories(aiCtx, domain.NarrativeRequest{
		CandidateSkills: candidate.Skills,
		ExperienceLevel: level,
		EducationLevel:  education,
		Categories:      categories,
	})
	if err != nil {
		slog.Warn("batch category analysis unavailable", slog.Any("error", err))
		observability.AIFallback("analyze_error")
		return nil
	}
	return narratives
}

// ExperienceLevel maps estimated years onto the level ladder used by the
// category table.
func ExperienceLevel(years int) string {
	switch {
	case years < 2:
		return "Entry Level"
	case years < 5:
		return "Mid Level"
	case years < 8:
		return "Senior"
	case years < 12:
		return "Lead"
	default:
		return "Principal"
	}
}

// educationLevels ranks degree keywords; the highest found wins.
var educationLevels = []struct {
	keyword string
	label   string
}{
	{"phd", "PhD"},
	{"master", "Master"},
	{"bachelor", "Bachelor"},
	{"associate", "Associate"},
	{"high school", "High School"},
}

// HighestEducationLabel returns the highest education level named in the
// candidate's degree strings, or "Not specified" when none is recognized.
func HighestEducationLabel(education []domain.EducationEntry) string {
	best := -1
	for _, e := range education {
		degree := strings.ToLower(e.Degree)
		for i, lvl := range educationLevels {
			if strings.Contains(degree, lvl.keyword) {
				// earlier entries rank higher
				rank := len(educationLevels) - i
				if rank > best {
					best = rank
				}
			}
		}
	}
	if best < 0 {
		return domain.NotSpecified
	}
	return educationLevels[len(educationLevels)-best].label
}

// educationMatches reports whether any category education field appears in
// any candidate degree string, case-insensitively.
func educationMatches(fields []string, education []domain.EducationEntry) bool {
	for _, e := range education {
		degree := strings.ToLower(e.Degree)
		if degree == "" {
			continue
		}
		for _, f := range fields {
			if strings.Contains(degree, strings.ToLower(f)) {
				return true
			}
		}
	}
	return false
}
