package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"coursemap/internal/domain"
	"coursemap/internal/progress"
	"coursemap/internal/service"
)

var (
	matchDescription string
	matchCredits     int
	matchTopK        int
	matchJSON        bool
)

var matchCmd = &cobra.Command{
	Use:   "match [course name]",
	Short: "Find the closest UTC course units for a foreign course",
	Long: `Embeds the foreign course description, retrieves the closest course units
from the vector collection and asks the language model to pick at most one
best equivalence. Candidates are shown even when adjudication fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchDescription, "description", "d", "", "free-text course description")
	matchCmd.Flags().IntVarP(&matchCredits, "credits", "c", 6, "ECTS credits of the foreign course")
	matchCmd.Flags().IntVarP(&matchTopK, "top", "n", 0, "number of candidates to retrieve (default from config)")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	p := newPipeline(embedder, newCompleter(), newStore(), progress.Nop{})
	ctx := cmd.Context()
	if err := ensureIndex(ctx, p); err != nil {
		return err
	}
	topK := matchTopK
	if topK <= 0 {
		topK = cfg.Match.TopK
	}
	res, err := p.Match(ctx, args[0], matchDescription, matchCredits, topK)
	if err != nil {
		return err
	}
	if matchJSON {
		return outputMatchJSON(cmd, res)
	}
	return outputMatchText(cmd, res)
}

func outputMatchJSON(cmd *cobra.Command, res service.MatchResult) error {
	out := struct {
		Candidates []domain.MatchCandidate `json:"candidates"`
		Verdict    *domain.Verdict         `json:"verdict,omitempty"`
		Error      string                  `json:"adjudication_error,omitempty"`
	}{Candidates: res.Candidates, Verdict: res.Verdict}
	if res.AdjudicationErr != nil {
		out.Error = res.AdjudicationErr.Error()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputMatchText(cmd *cobra.Command, res service.MatchResult) error {
	switch {
	case res.Verdict != nil && res.Verdict.IsMatch:
		cmd.Printf("Recommandation: [%s] %s\n%s\n", res.Verdict.Code, res.Verdict.Name, res.Verdict.Justification)
	case res.Verdict != nil:
		cmd.Printf("Aucune correspondance trouvée.\n%s\n", res.Verdict.Justification)
	default:
		printAdjudicationError(cmd, res.AdjudicationErr)
	}
	cmd.Println()
	for _, c := range res.Candidates {
		cmd.Printf("#%d [%s] %s\n", c.Rank, c.Code, c.Name)
		cmd.Printf("   Score: %d%% | Type: %s | Crédits: %d | Semestre: %s\n",
			int(c.Score*100), c.Kind, c.Credits, c.Term)
		if c.Description != "" {
			cmd.Printf("   %s\n", c.Description)
		}
	}
	return nil
}

func printAdjudicationError(cmd *cobra.Command, err error) {
	var parseErr *domain.VerdictParseError
	switch {
	case errors.Is(err, domain.ErrCompleterUnavailable):
		cmd.Println("Adjudication unavailable, showing raw candidates.")
	case errors.As(err, &parseErr):
		cmd.Println("Verdict unparseable, showing raw candidates.")
		cmd.Printf("Raw model output: %s\n", parseErr.Raw)
	case err != nil:
		cmd.Printf("Adjudication failed: %v\n", err)
	}
}
