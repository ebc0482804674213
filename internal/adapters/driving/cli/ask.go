package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/counsel-labs/lexora/internal/core/domain"
	"github.com/counsel-labs/lexora/internal/core/ports/driven"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a legal question",
	Long: `Validates and embeds the question, ranks it against the indexed
corpus, and composes a cited answer. When no relevant passage is found
a canned answer is returned without calling the generative model.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()

	if hint := memoryCorpusHint(ctx, a.settings, a.knowledge); hint != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), hint)
	}

	emb, err := a.query.Process(ctx, args[0])
	if err != nil {
		return fmt.Errorf("process question: %w", err)
	}

	answer, err := a.composer.Compose(ctx, emb, emb.OriginalQuery)
	if err != nil {
		return fmt.Errorf("compose answer: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if answer.CitedPassage != nil {
		cmd.Println()
		cmd.Printf("Cited: %s", answer.CitedPassage.Title)
		if answer.CitedPassage.Source != "" {
			cmd.Printf(" (%s)", answer.CitedPassage.Source)
		}
		cmd.Println()
	}
	if len(answer.Sources) > 1 {
		cmd.Println("Other matches:")
		for _, src := range answer.Sources[1:] {
			cmd.Printf("  - %s (%.2f)\n", src.Title, src.Score)
		}
	}

	return nil
}

// memoryCorpusHint warns when the in-memory strategy has nothing
// indexed. The memory corpus lives for one process only, so a fresh
// ask invocation always starts empty and every answer would be the
// canned one; only the qdrant strategy spans commands.
func memoryCorpusHint(ctx context.Context, settings domain.Settings, knowledge driven.KnowledgeStore) string {
	if settings.RankerStrategy != domain.RankerMemory {
		return ""
	}
	n, err := knowledge.Count(ctx)
	if err != nil || n > 0 {
		return ""
	}
	return `warning: the in-memory corpus is empty for this process; ingested ` +
		`documents are not visible here. Set ranker_strategy = "qdrant" for an ` +
		`index that persists across commands.`
}
