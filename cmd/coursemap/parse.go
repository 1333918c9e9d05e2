package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coursemap/internal/catalogue"
	"coursemap/internal/service"
)

var parseCmd = &cobra.Command{
	Use:   "parse [catalogue.txt]",
	Short: "Extract course records from the catalogue text",
	Long: `Parses the plain-text export of the UV catalogue into structured course
records and writes them to the parsed-records artifact. Extraction is best
effort: blocks without the structural anchors of a course unit are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read catalogue: %w", err)
	}
	p := service.NewPipeline(service.Options{Logger: log})
	records := p.ExtractCatalogue(string(data))
	if len(records) == 0 {
		return fmt.Errorf("no course records found in %s", args[0])
	}
	if err := catalogue.SaveRecords(cfg.Paths.ParsedRecords, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	cmd.Printf("Extracted %d records to %s\n", len(records), cfg.Paths.ParsedRecords)
	return nil
}
