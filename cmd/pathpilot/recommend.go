package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pathpilot/backend/internal/engine"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Rank careers against a free-text query",
	Long: "Embeds the query and prints the best matching careers, best first. " +
		"The query can be given as arguments or composed from --interest, --skills and --job.",
	RunE: runRecommend,
}

var (
	recommendTopK     int
	recommendAll      bool
	recommendJSON     bool
	recommendInterest string
	recommendSkills   string
	recommendJob      string
)

func init() {
	recommendCmd.Flags().IntVarP(&recommendTopK, "top-k", "k", 0, "Number of careers to return (default from config)")
	recommendCmd.Flags().BoolVar(&recommendAll, "all", false, "Rank the whole corpus")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Print results as JSON")
	recommendCmd.Flags().StringVar(&recommendInterest, "interest", "", "Field of interest")
	recommendCmd.Flags().StringVar(&recommendSkills, "skills", "", "Skills you have")
	recommendCmd.Flags().StringVar(&recommendJob, "job", "", "Job title you have in mind")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		query = engine.ComposeQuery(recommendInterest, recommendSkills, recommendJob)
	}
	if query == "" {
		return fmt.Errorf("a query or one of --interest, --skills, --job is required")
	}

	a, err := bootstrap(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	var recs []engine.Recommendation
	if recommendAll {
		recs, err = a.engine.RecommendAll(cmd.Context(), query)
	} else {
		topK := recommendTopK
		if topK == 0 {
			topK = a.cfg.Server.DefaultTopK
		}
		recs, err = a.engine.Recommend(cmd.Context(), query, topK)
	}
	if err != nil {
		return err
	}

	if recommendJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	return printRecommendations(cmd, recs)
}

func printRecommendations(cmd *cobra.Command, recs []engine.Recommendation) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCAREER\tCATEGORY\tSCORE\tDEMAND")
	for i, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%s\n", i+1, r.Name, r.Category, r.Score, r.Demand)
	}
	return w.Flush()
}
