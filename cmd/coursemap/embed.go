package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coursemap/internal/catalogue"
	"coursemap/internal/progress"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed the parsed course records",
	Long: `Reads the parsed-records artifact, embeds every record's text through the
configured embedding provider and writes the embedded-records artifact.
Requires the embedding API key in the environment.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	records, err := catalogue.LoadRecords(cfg.Paths.ParsedRecords)
	if err != nil {
		return fmt.Errorf("load %s (run `coursemap parse` first): %w", cfg.Paths.ParsedRecords, err)
	}
	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	p := newPipeline(embedder, nil, nil, progress.NewBar())
	embedded, err := p.EmbedRecords(cmd.Context(), records)
	if err != nil {
		return err
	}
	if err := catalogue.SaveEmbedded(cfg.Paths.EmbeddedRecords, embedded); err != nil {
		return fmt.Errorf("save embedded records: %w", err)
	}
	cmd.Printf("Embedded %d records to %s\n", len(embedded), cfg.Paths.EmbeddedRecords)
	return nil
}
