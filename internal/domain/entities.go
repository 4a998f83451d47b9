package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// NotSpecified is the placeholder for job columns absent from the source.
const NotSpecified = "Not specified"

// CandidateProfile is the normalized candidate record produced by an external
// extractor. The engine treats it as read-only input with no identity of its
// own beyond what the caller supplies.
type CandidateProfile struct {
	Skills     []string          `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
}

// ExperienceEntry is one position in the candidate's work history. All fields
// are optional free text.
type ExperienceEntry struct {
	Title       string `json:"title,omitempty"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
}

// EducationEntry is one entry in the candidate's education history.
type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

// JobRecord is one normalized job posting from the catalog source.
// Invariant: Title is non-empty; rows without a title never enter the catalog.
type JobRecord struct {
	Title          string       `json:"title"`
	Role           string       `json:"role"`
	Company        string       `json:"company"`
	SalaryRange    string       `json:"salary_range"`
	WorkType       string       `json:"work_type"`
	Description    string       `json:"description"`
	Qualifications string       `json:"qualifications"`
	Requirements   Requirements `json:"requirements"`
}

// Requirements is the canonical requirements shape. The ingestion boundary
// normalizes whatever the source carries (comma-separated strings included)
// so internal components never see a variant payload.
type Requirements struct {
	Skills     []string              `json:"skills"`
	Experience ExperienceRequirement `json:"experience"`
	Education  []string              `json:"education"`
}

// ExperienceRequirement captures experience cues scanned from qualifications.
type ExperienceRequirement struct {
	MinimumYears int      `json:"minimum_years"`
	Description  []string `json:"description"`
}

// JobCatalog is the ordered, immutable job snapshot served within one cache
// refresh window.
type JobCatalog []JobRecord

// ScoredJob annotates a job with the pre-filter preliminary score used only
// for ranking and truncation before full scoring.
type ScoredJob struct {
	Job              JobRecord
	PreliminaryScore float64
}

// JobSummary carries the display fields of the originating job in a match
// result.
type JobSummary struct {
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Role         string       `json:"role"`
	SalaryRange  string       `json:"salary_range"`
	WorkType     string       `json:"work_type"`
	Requirements Requirements `json:"requirements"`
}

// MatchAnalysis is the explainable breakdown attached to every match result.
// Skill lists are sorted so a fixed input yields a byte-identical payload.
type MatchAnalysis struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
	MatchingSkills  []string `json:"matching_skills"`
	MissingSkills   []string `json:"missing_skills"`
}

// MatchResult is one scored (candidate, job) pair. All scores are in [0,100].
// Ephemeral: constructed per request, never persisted by this engine.
type MatchResult struct {
	Job             JobSummary    `json:"job"`
	TotalScore      float64       `json:"total_score"`
	SkillMatch      float64       `json:"skill_match"`
	ExperienceMatch float64       `json:"experience_match"`
	EducationMatch  float64       `json:"education_match"`
	Analysis        MatchAnalysis `json:"analysis"`
}

// Pagination describes the slice returned by a match request. Total counts
// post-filter jobs, not the full catalog.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// PagedMatches is the public result of the match operation.
type PagedMatches struct {
	Matches    []MatchResult `json:"matches"`
	Pagination Pagination    `json:"pagination"`
}

// CategoryMatch is one global job-category assessment for a candidate.
type CategoryMatch struct {
	Category        string        `json:"category"`
	Score           float64       `json:"match_score"`
	Departments     []string      `json:"departments"`
	ExperienceLevel string        `json:"experience_level"`
	RequiredSkills  []string      `json:"required_skills"`
	Analysis        MatchAnalysis `json:"analysis"`
}

// SkillCount is one entry of the catalog-wide skill distribution.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// CatalogProvider (port) serves the current catalog snapshot. Implementations
// must never fail the caller: a broken source degrades to an empty catalog.
type CatalogProvider interface {
	Catalog(ctx Context) JobCatalog
}

// Narrative is free-text enrichment for one job category.
type Narrative struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// NarrativeRequest batches every category of interest into a single
// collaborator call; the engine never calls the collaborator per job.
type NarrativeRequest struct {
	CandidateSkills []string
	ExperienceLevel string
	EducationLevel  string
	// Categories maps category name to its required skills.
	Categories map[string][]string
}

// NarrativeAnalyzer (port) is the optional generative collaborator. Callers
// must tolerate errors and unparsable output by falling back to the
// deterministic analysis; the analyzer being absent, slow, or broken never
// fails a match request.
type NarrativeAnalyzer interface {
	AnalyzeCategories(ctx Context, req NarrativeRequest) (map[string]Narrative, error)
}

// Context is an alias so the domain package stays decoupled from call sites;
// adapters and usecases pass context.Context through.
type Context = context.Context
