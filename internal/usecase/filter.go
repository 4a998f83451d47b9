// Package usecase contains application business logic services.
package usecase

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/pkg/textx"
)

// neutralPreliminaryScore ranks jobs that declare no skill requirements.
const neutralPreliminaryScore = 50

// defaultRelevanceKeywords spans engineering, tech, data, and marketing role
// words. A job whose title or role contains none of them never reaches
// scoring, regardless of skill overlap.
var defaultRelevanceKeywords = []string{
	"developer", "engineer", "programmer", "software", "web", "full stack",
	"backend", "frontend", "data scientist", "devops", "qa", "test",
	"analyst", "architect", "specialist", "consultant", "manager",
	"tech", "it", "information", "system", "application",
	"cloud", "security", "network", "support", "administrator", "lead",
	"head", "chief", "director", "coordinator", "designer", "marketing",
	"digital", "content", "social media", "social", "data",
}

// RelevanceFilter triages the catalog with cheap heuristics before the
// expensive scorer runs: a domain-keyword gate plus a skill-overlap ranking,
// deliberately biased toward recall for jobs with few requirements.
type RelevanceFilter struct {
	keywords []string
	maxJobs  int
}

// NewRelevanceFilter builds a filter; nil keywords keep the built-in set and
// maxJobs <= 0 falls back to 50.
func NewRelevanceFilter(keywords []string, maxJobs int) RelevanceFilter {
	if len(keywords) == 0 {
		keywords = defaultRelevanceKeywords
	}
	if maxJobs <= 0 {
		maxJobs = 50
	}
	return RelevanceFilter{keywords: keywords, maxJobs: maxJobs}
}

// Filter returns the domain-relevant jobs annotated with a preliminary score,
// sorted descending (stable, so ties keep catalog order) and truncated to the
// filter cap. Deterministic and side-effect-free.
func (f RelevanceFilter) Filter(catalog domain.JobCatalog, candidate domain.CandidateProfile) []domain.ScoredJob {
	candidateSkills := textx.NormalizeSet(candidate.Skills)

	kept := make([]domain.ScoredJob, 0, len(catalog))
	for _, job := range catalog {
		if !f.domainRelevant(job) {
			continue
		}
		jobSkills := textx.NormalizeSet(job.Requirements.Skills)
		if len(jobSkills) == 0 {
			// No declared requirements: keep unconditionally with a neutral rank.
			kept = append(kept, domain.ScoredJob{Job: job, PreliminaryScore: neutralPreliminaryScore})
			continue
		}
		overlap := 0
		for skill := range jobSkills {
			if _, ok := candidateSkills[skill]; ok {
				overlap++
			}
		}
		score := float64(overlap) / float64(len(jobSkills))
		// Low-requirement jobs pass even with zero overlap: recall over precision.
		if score > 0 || len(jobSkills) <= 5 {
			kept = append(kept, domain.ScoredJob{Job: job, PreliminaryScore: score * 100})
		}
	}

	slices.SortStableFunc(kept, func(a, b domain.ScoredJob) int {
		return cmp.Compare(b.PreliminaryScore, a.PreliminaryScore)
	})
	if len(kept) > f.maxJobs {
		kept = kept[:f.maxJobs]
	}
	return kept
}

func (f RelevanceFilter) domainRelevant(job domain.JobRecord) bool {
	title := strings.ToLower(job.Title)
	role := strings.ToLower(job.Role)
	for _, kw := range f.keywords {
		if strings.Contains(title, kw) || strings.Contains(role, kw) {
			return true
		}
	}
	return false
}
