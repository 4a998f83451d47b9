package usecase

import (
	"sort"
	"strings"

	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// Categories returns the sorted unique roles of the cached catalog. Blank
// roles are omitted.
func (s MatchService) Categories(ctx domain.Context) []string {
	catalog := s.Catalog.Catalog(ctx)
	seen := make(map[string]struct{}, len(catalog))
	for _, job := range catalog {
		role := strings.TrimSpace(job.Role)
		if role == "" {
			continue
		}
		seen[role] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for role := range seen {
		categories = append(categories, role)
	}
	sort.Strings(categories)
	return categories
}

// SkillsDistribution counts how often each skill is required across the
// catalog, descending by count with ties broken by skill name.
func (s MatchService) SkillsDistribution(ctx domain.Context) []domain.SkillCount {
	catalog := s.Catalog.Catalog(ctx)
	counts := make(map[string]int)
	for _, job := range catalog {
		for _, skill := range job.Requirements.Skills {
			counts[skill]++
		}
	}
	dist := make([]domain.SkillCount, 0, len(counts))
	for skill, n := range counts {
		dist = append(dist, domain.SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].Count != dist[j].Count {
			return dist[i].Count > dist[j].Count
		}
		return dist[i].Skill < dist[j].Skill
	})
	return dist
}
