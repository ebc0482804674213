package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

var (
	jobsJSON   bool
	jobsStatus string
	jobsLimit  int
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Show indexing queue health",
	Long: `Reports queue counts (waiting, active, completed, failed, delayed)
and the derived health flag. With --status, lists the jobs in that
state instead, oldest first.`,
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "output as JSON")
	jobsCmd.Flags().StringVar(&jobsStatus, "status", "",
		"list jobs in this status (pending, processing, completed, failed)")
	jobsCmd.Flags().IntVar(&jobsLimit, "limit", 20, "maximum jobs to list with --status")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, _ []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	if jobsStatus != "" {
		return listJobs(cmd, a)
	}

	health, err := a.queue.Health(context.Background())
	if err != nil {
		return fmt.Errorf("queue health: %w", err)
	}

	if jobsJSON {
		data, err := json.MarshalIndent(health, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal health: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	status := "healthy"
	if !health.Healthy {
		status = "unhealthy"
	}
	cmd.Printf("Queue: %s\n", status)
	cmd.Printf("  waiting:   %d\n", health.Waiting)
	cmd.Printf("  active:    %d\n", health.Active)
	cmd.Printf("  delayed:   %d\n", health.Delayed)
	cmd.Printf("  completed: %d\n", health.Completed)
	cmd.Printf("  failed:    %d\n", health.Failed)
	if health.Paused {
		cmd.Println("  paused")
	}

	return nil
}

func listJobs(cmd *cobra.Command, a *app) error {
	status := domain.JobStatus(jobsStatus)
	switch status {
	case domain.JobPending, domain.JobProcessing, domain.JobCompleted, domain.JobFailed:
	default:
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, jobsStatus)
	}

	jobs, err := a.store.JobStore().List(context.Background(), status, jobsLimit)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if jobsJSON {
		data, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal jobs: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(jobs) == 0 {
		cmd.Printf("No %s jobs\n", status)
		return nil
	}
	for _, job := range jobs {
		cmd.Printf("%s  %s  %d/%d chunks  attempts %d",
			job.ID, job.DocumentID, job.ProcessedChunks, job.TotalChunks, job.AttemptCount)
		if job.Error != "" {
			cmd.Printf("  error: %s", job.Error)
		}
		cmd.Println()
	}
	return nil
}
