// Command matchctl runs catalog and matching operations from the command
// line, without the HTTP server. It reads the same environment configuration
// as the server, so JOBS_CSV_PATH and the filter settings apply here too.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/catalog/csvsource"
	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Candidate-job matching from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(matchCmd(), categoriesCmd(), skillsCmd(), versionCmd())
	return root
}

// newService wires the same pipeline the server uses, minus the narrative
// collaborator. CLI runs are one-shot, so AI enrichment stays off.
func newService() (usecase.MatchService, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return usecase.MatchService{}, err
	}
	slog.SetDefault(observability.SetupLogger(cfg))
	observability.InitMetrics()

	keywords, err := config.LoadRelevanceKeywords(cfg.FilterKeywordsFile)
	if err != nil {
		return usecase.MatchService{}, err
	}

	loader := csvsource.NewLoader(cfg.JobsCSVPath, cfg.CatalogMaxRows)
	cache := csvsource.NewCache(loader, cfg.CatalogTTL)
	filter := usecase.NewRelevanceFilter(keywords, cfg.FilterMaxJobs)
	return usecase.NewMatchService(cache, filter, nil, cfg.AITimeout), nil
}

func matchCmd() *cobra.Command {
	var (
		candidatePath string
		page          int
		perPage       int
		global        bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank a candidate profile against the job catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(candidatePath)
			if err != nil {
				return fmt.Errorf("read candidate: %w", err)
			}
			var candidate domain.CandidateProfile
			if err := json.Unmarshal(data, &candidate); err != nil {
				return fmt.Errorf("decode candidate: %w", err)
			}

			svc, err := newService()
			if err != nil {
				return err
			}

			var out any
			if global {
				out = map[string]any{"matches": svc.GlobalMatches(cmd.Context(), candidate)}
			} else {
				out = svc.Match(cmd.Context(), candidate, page, perPage, false)
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVarP(&candidatePath, "candidate", "c", "", "path to a candidate profile JSON file")
	cmd.Flags().IntVar(&page, "page", 1, "result page")
	cmd.Flags().IntVar(&perPage, "per-page", 10, "results per page")
	cmd.Flags().BoolVar(&global, "global", false, "assess against global job categories instead of the catalog")
	_ = cmd.MarkFlagRequired("candidate")
	return cmd
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct roles in the job catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"categories": svc.Categories(cmd.Context())})
		},
	}
}

func skillsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skills",
		Short: "Show how often each skill is required across the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"skills": svc.SkillsDistribution(cmd.Context())})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the matchctl version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
