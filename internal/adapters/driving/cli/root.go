// Package cli provides the cobra command tree. The CLI calls the core
// only through its driving ports: Process, Compose, Enqueue, Health.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/counsel-labs/lexora/internal/logger"
)

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "lexora",
	Short: "Legal question answering over an embedded corpus",
	Long: `Lexora answers natural-language legal questions by retrieving the
most relevant passage from a legal-text corpus and composing a cited
answer with a generative model. Documents are ingested asynchronously
through a durable indexing queue.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"print pipeline details to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "",
		"config directory (default ~/.lexora)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
