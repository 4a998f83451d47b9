package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

const (
	defaultPerPage   = 10
	defaultAITimeout = 10 * time.Second
)

// MatchService composes catalog cache, relevance filter, scorer, and
// pagination into the public match operation. Every failure inside the
// pipeline degrades to a smaller result; no error escapes Match.
type MatchService struct {
	Catalog  domain.CatalogProvider
	Filter   RelevanceFilter
	Scorer   MatchScorer
	Analyzer domain.NarrativeAnalyzer // optional; nil disables enrichment
	// AITimeout bounds the narrative-analysis call so collaborator outages
	// never block a request.
	AITimeout time.Duration
}

// NewMatchService constructs a MatchService with its dependencies. The
// analyzer may be nil.
func NewMatchService(catalog domain.CatalogProvider, filter RelevanceFilter, analyzer domain.NarrativeAnalyzer, aiTimeout time.Duration) MatchService {
	if aiTimeout <= 0 {
		aiTimeout = defaultAITimeout
	}
	return MatchService{Catalog: catalog, Filter: filter, Analyzer: analyzer, AITimeout: aiTimeout}
}

// Match ranks the candidate against the cached catalog and returns the
// requested page. Out-of-range pages yield an empty match list with the
// pagination totals unchanged. useAI=false skips the narrative collaborator
// entirely.
func (s MatchService) Match(ctx domain.Context, candidate domain.CandidateProfile, page, perPage int, useAI bool) domain.PagedMatches {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	catalog := s.Catalog.Catalog(ctx)
	filtered := s.Filter.Filter(catalog, candidate)
	observability.ObserveFilter(len(filtered))

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	matches := make([]domain.MatchResult, 0, end-start)
	for _, scored := range filtered[start:end] {
		res, ok := s.scoreJob(candidate, scored.Job)
		if !ok {
			continue
		}
		matches = append(matches, res)
	}

	if useAI && s.Analyzer != nil && len(matches) > 0 {
		s.enrich(ctx, candidate, matches)
	}

	scores := make([]float64, 0, len(matches))
	for _, m := range matches {
		scores = append(scores, m.TotalScore)
	}
	observability.ObserveMatch(useAI, scores)

	return domain.PagedMatches{
		Matches: matches,
		Pagination: domain.Pagination{
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		},
	}
}

// scoreJob scores one job and attaches its display fields. A panic while
// scoring excludes the job and the batch continues (partial results over
// total failure).
func (s MatchService) scoreJob(candidate domain.CandidateProfile, job domain.JobRecord) (res domain.MatchResult, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("job scoring failed; skipping job",
				slog.Any("recover", rec),
				slog.String("title", job.Title))
			ok = false
		}
	}()
	res = s.Scorer.Score(candidate, job.Requirements)
	res.Job = domain.JobSummary{
		Title:        job.Title,
		Company:      job.Company,
		Role:         job.Role,
		SalaryRange:  job.SalaryRange,
		WorkType:     job.WorkType,
		Requirements: job.Requirements,
	}
	return res, true
}

// enrich makes one batched narrative call for the distinct roles on the page
// and overlays the prose fields onto matching results. Matching/missing skill
// sets always stay deterministic. Any failure leaves the deterministic
// analysis in place.
func (s MatchService) enrich(ctx domain.Context, candidate domain.CandidateProfile, matches []domain.MatchResult) {
	categories := make(map[string][]string)
	for _, m := range matches {
		role := m.Job.Role
		if role == "" {
			role = m.Job.Title
		}
		if _, seen := categories[role]; !seen {
			categories[role] = m.Job.Requirements.Skills
		}
	}

	years := EstimateYears(candidate.Experience)
	req := domain.NarrativeRequest{
		CandidateSkills: candidate.Skills,
		ExperienceLevel: ExperienceLevel(years),
		EducationLevel:  HighestEducationLabel(candidate.Education),
		Categories:      categories,
	}

	aiCtx, cancel := context.WithTimeout(ctx, s.AITimeout)
	defer cancel()
	narratives, err := s.Analyzer.AnalyzeCategories(aiCtx, req)
	if err != nil {
		slog.Warn("narrative analysis unavailable; using deterministic analysis", slog.Any("error", err))
		observability.AIFallback("analyze_error")
		return
	}

	for i := range matches {
		role := matches[i].Job.Role
		if role == "" {
			role = matches[i].Job.Title
		}
		n, ok := narratives[role]
		if !ok {
			continue
		}
		a := &matches[i].Analysis
		if n.Summary != "" {
			a.Summary = n.Summary
		}
		if len(n.Strengths) > 0 {
			a.Strengths = n.Strengths
		}
		if len(n.Gaps) > 0 {
			a.Gaps = n.Gaps
		}
		if len(n.Recommendations) > 0 {
			a.Recommendations = n.Recommendations
		}
	}
}
