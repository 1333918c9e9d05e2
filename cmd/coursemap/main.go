package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"coursemap/internal/config"
	"coursemap/internal/logger"
)

var (
	cfgPath string
	cfg     *config.AppConfig
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coursemap",
	Short: "Match foreign courses to UTC course units",
	Long: `coursemap extracts UV records from the UTC catalogue text, embeds them,
indexes them in a vector store and matches foreign course descriptions
against the result, with a language model picking the best equivalence.

Typical flow:
  coursemap parse catalogue.txt
  coursemap embed
  coursemap index
  coursemap match "Databases" -d "intro course" -c 6`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
		} else {
			cfg, _, err = config.LoadDefault()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log, err = logger.New(cfg.Logging.Env, cfg.Logging.Level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to YAML config (default: ./config.yaml, then ~/.config/coursemap/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
