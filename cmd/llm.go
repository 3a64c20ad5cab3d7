package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hakim/lernix/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := context.Background()
		records, err := s.RequestLog().Recent(ctx, limit)
		if err != nil {
			return fmt.Errorf("query requests: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No LLM requests found.")
			return nil
		}

		fmt.Printf("%-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 92))

		for _, rec := range records {
			if purpose != "" && rec.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !rec.Success {
				ok = "✗"
			}
			model := rec.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
				rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				rec.Purpose,
				model,
				rec.InputTokens,
				rec.OutputTokens,
				rec.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (chat, quiz, summary, schedule)")

	llmCmd.AddCommand(llmListCmd)
}
