package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

func job(title, role string, skills ...string) domain.JobRecord {
	return domain.JobRecord{
		Title: title,
		Role:  role,
		Requirements: domain.Requirements{
			Skills: skills,
		},
	}
}

func TestFilter_DomainGate(t *testing.T) {
	f := NewRelevanceFilter(nil, 50)
	catalog := domain.JobCatalog{
		job("Farm Laborer", "Agriculture", "python"),
		job("Backend Developer", "Software", "python"),
	}
	candidate := domain.CandidateProfile{Skills: []string{"python"}}

	kept := f.Filter(catalog, candidate)
	require.Len(t, kept, 1)
	assert.Equal(t, "Backend Developer", kept[0].Job.Title)
}

func TestFilter_KeepsLowRequirementJobsWithoutOverlap(t *testing.T) {
	f := NewRelevanceFilter(nil, 50)
	catalog := domain.JobCatalog{
		job("QA Engineer", "Engineering", "selenium", "cypress"),
		job("Cloud Architect", "Engineering", "aws", "gcp", "azure", "terraform", "kubernetes", "docker"),
	}
	candidate := domain.CandidateProfile{Skills: []string{"go"}}

	kept := f.Filter(catalog, candidate)
	require.Len(t, kept, 1, "zero overlap with more than five requirements is dropped")
	assert.Equal(t, "QA Engineer", kept[0].Job.Title)
	assert.Zero(t, kept[0].PreliminaryScore)
}

func TestFilter_NoRequirementsScoresNeutral(t *testing.T) {
	f := NewRelevanceFilter(nil, 50)
	catalog := domain.JobCatalog{job("Support Specialist", "Support")}

	kept := f.Filter(catalog, domain.CandidateProfile{})
	require.Len(t, kept, 1)
	assert.Equal(t, float64(neutralPreliminaryScore), kept[0].PreliminaryScore)
}

func TestFilter_SortsDescendingStable(t *testing.T) {
	f := NewRelevanceFilter(nil, 50)
	catalog := domain.JobCatalog{
		job("Engineer A", "Engineering", "go", "rust"),
		job("Engineer B", "Engineering", "go"),
		job("Engineer C", "Engineering", "go", "rust"),
	}
	candidate := domain.CandidateProfile{Skills: []string{"go"}}

	kept := f.Filter(catalog, candidate)
	require.Len(t, kept, 3)
	assert.Equal(t, "Engineer B", kept[0].Job.Title)
	assert.Equal(t, float64(100), kept[0].PreliminaryScore)
	// Equal scores keep catalog order.
	assert.Equal(t, "Engineer A", kept[1].Job.Title)
	assert.Equal(t, "Engineer C", kept[2].Job.Title)
}

func TestFilter_Cap(t *testing.T) {
	f := NewRelevanceFilter(nil, 50)
	catalog := make(domain.JobCatalog, 0, 60)
	for i := 0; i < 60; i++ {
		catalog = append(catalog, job(fmt.Sprintf("Engineer %d", i), "Engineering", "go"))
	}
	candidate := domain.CandidateProfile{Skills: []string{"go"}}

	kept := f.Filter(catalog, candidate)
	assert.Len(t, kept, 50)
}

func TestFilter_CustomKeywords(t *testing.T) {
	f := NewRelevanceFilter([]string{"nurse"}, 50)
	catalog := domain.JobCatalog{
		job("Registered Nurse", "Healthcare", "triage"),
		job("Backend Developer", "Software", "go"),
	}
	kept := f.Filter(catalog, domain.CandidateProfile{Skills: []string{"triage"}})
	require.Len(t, kept, 1)
	assert.Equal(t, "Registered Nurse", kept[0].Job.Title)
}
