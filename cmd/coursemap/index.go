package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursemap/internal/catalogue"
	"coursemap/internal/progress"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector collection from the embedded records",
	Long: `Drops and recreates the vector collection from the embedded-records
artifact. The replace is wholesale; there is no merge.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	embedded, err := catalogue.LoadEmbedded(cfg.Paths.EmbeddedRecords)
	if err != nil {
		return fmt.Errorf("load %s (run `coursemap embed` first): %w", cfg.Paths.EmbeddedRecords, err)
	}
	if cfg.VectorStore.Type != "qdrant" {
		log.Warn("memory store does not persist between runs; match rebuilds it automatically")
	}
	p := newPipeline(nil, nil, newStore(), progress.Nop{})
	if err := p.BuildIndex(cmd.Context(), embedded); err != nil {
		return err
	}
	cmd.Printf("Indexed %d records into collection %s\n", len(embedded), cfg.VectorStore.Collection)
	return nil
}
