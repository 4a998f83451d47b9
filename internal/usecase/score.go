package usecase

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

const (
	neutralSkillMatch    = 50.0
	experienceAdjustment = 10.0
	maxRecommendations   = 3
)

// MatchScorer computes the weighted match score for one (candidate, job)
// pair. Score is a pure function of its inputs and never fails: malformed
// input degrades to a fixed neutral result so a single bad job cannot abort a
// batch.
type MatchScorer struct{}

// Score scores the candidate against one job's requirements and builds the
// deterministic analysis. All returned scores are in [0,100].
//
// The experience estimate is deliberately crude: each experience entry
// contributes the count of hyphen-separated tokens in its period string, not
// calendar-date arithmetic. Changing it would change scored outcomes.
func (MatchScorer) Score(candidate domain.CandidateProfile, req domain.Requirements) (res domain.MatchResult) {
	defer func() {
		if rec := recover(); rec != nil {
			res = NeutralMatchResult()
		}
	}()

	required := textx.NormalizeSet(req.Skills)
	owned := textx.NormalizeSet(candidate.Skills)

	matching := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, skill := range textx.SortedKeys(required) {
		if _, ok := owned[skill]; ok {
			matching = append(matching, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	skillMatch := neutralSkillMatch
	if len(required) > 0 {
		skillMatch = 100 * float64(len(matching)) / float64(len(required))
	}
	total := skillMatch

	strengths := make([]string, 0, len(matching)+1)
	for _, skill := range matching {
		strengths = append(strengths, fmt.Sprintf("Proficient in %s", skill))
	}
	gaps := make([]string, 0, len(missing)+1)
	for _, skill := range missing {
		gaps = append(gaps, fmt.Sprintf("Missing skill: %s", skill))
	}

	if minYears := req.Experience.MinimumYears; minYears > 0 && len(candidate.Experience) > 0 {
		years := EstimateYears(candidate.Experience)
		if years >= minYears {
			total = min(100, total+experienceAdjustment)
			strengths = append(strengths, fmt.Sprintf("Has %d years of relevant experience", years))
		} else {
			total = max(0, total-experienceAdjustment)
			gaps = append(gaps, fmt.Sprintf("Requires %d years of experience", minYears))
		}
	}

	var recommendations []string
	if len(missing) > 0 {
		for _, skill := range missing[:min(maxRecommendations, len(missing))] {
			recommendations = append(recommendations, fmt.Sprintf("Consider learning %s", skill))
		}
	} else {
		recommendations = []string{"Strong match with required skills"}
	}

	return domain.MatchResult{
		TotalScore: total,
		SkillMatch: skillMatch,
		// Independent experience/education sub-scores are not computed yet;
		// both report the experience-adjusted value.
		ExperienceMatch: total,
		EducationMatch:  total,
		Analysis: domain.MatchAnalysis{
			Summary:         fmt.Sprintf("Candidate matches %d out of %d required skills", len(matching), len(required)),
			Strengths:       strengths,
			Gaps:            gaps,
			Recommendations: recommendations,
			MatchingSkills:  matching,
			MissingSkills:   missing,
		},
	}
}

// NeutralMatchResult is the fixed fallback used when scoring cannot proceed.
func NeutralMatchResult() domain.MatchResult {
	return domain.MatchResult{
		TotalScore:      50,
		SkillMatch:      50,
		ExperienceMatch: 50,
		EducationMatch:  50,
		Analysis: domain.MatchAnalysis{
			Summary:         "Basic skill matching analysis",
			Strengths:       []string{"Has some matching skills"},
			Gaps:            []string{"Could not perform detailed analysis"},
			Recommendations: []string{"Review complete job requirements"},
			MatchingSkills:  []string{},
			MissingSkills:   []string{},
		},
	}
}

// EstimateYears sums, over experience entries, the count of hyphen-separated
// tokens in each period string ("2019-2022" counts as 2). A crude proxy kept
// for score stability.
func EstimateYears(experience []domain.ExperienceEntry) int {
	years := 0
	for _, e := range experience {
		years += len(strings.Split(e.Period, "-"))
	}
	return years
}
