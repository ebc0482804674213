package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/counsel-labs/lexora/internal/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the indexing worker pool",
	Long: `Starts the indexing workers and processes enqueued documents until
interrupted. Shutdown is graceful: the in-flight chunk batch finishes
and interrupted jobs return to pending.`,
	RunE: runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Shutdown requested, draining workers")
		if err := a.queue.Stop(); err != nil {
			logger.Warn("Queue stop: %v", err)
		}
		cancel()
	}()

	cmd.Printf("Worker pool started (%d workers)\n", a.settings.WorkerConcurrency)

	if err := a.queue.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
