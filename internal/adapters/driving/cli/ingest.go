package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/counsel-labs/lexora/internal/core/domain"
)

var (
	ingestID       string
	ingestTitle    string
	ingestCategory string
	ingestSource   string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Enqueue a legal document for indexing",
	Long: `Reads a legal text file and enqueues it for asynchronous indexing.
The document is chunked, embedded, and pushed to the knowledge store by
a running worker ('lexora worker'); it is not searchable until the
indexing job completes.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID (default: file name)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (default: file name)")
	ingestCmd.Flags().StringVar(&ingestCategory, "category", "", "document category")
	ingestCmd.Flags().StringVar(&ingestSource, "source", "", "document source citation")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := documentFromFlags(base, string(content))

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	jobID, err := a.queue.Enqueue(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("enqueue document: %w", err)
	}

	cmd.Printf("Enqueued %s as job %s\n", doc.ID, jobID)
	return nil
}

// documentFromFlags builds the document, defaulting ID and title to
// the file name.
func documentFromFlags(base, content string) domain.Document {
	doc := domain.Document{
		ID:       ingestID,
		Title:    ingestTitle,
		Content:  content,
		Category: ingestCategory,
		Source:   ingestSource,
	}
	if doc.ID == "" {
		doc.ID = base
	}
	if doc.Title == "" {
		doc.Title = base
	}
	return doc
}
