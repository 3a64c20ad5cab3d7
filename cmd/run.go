package cmd

import (
	"context"
	"fmt"

	"github.com/hakim/lernix/internal/app"
	"github.com/hakim/lernix/internal/identity"
	"github.com/hakim/lernix/internal/llm"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/wallet"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := context.Background()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cfg, err := llm.ResolveConfig()
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w\nSet GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY, or OPENROUTER_API_KEY", err)
	}
	provider, err := llm.NewProvider(ctx, cfg, st.RequestLog())
	if err != nil {
		return fmt.Errorf("initialize LLM provider: %w", err)
	}

	w, err := wallet.Open(ctx, st.KV(), nil)
	if err != nil {
		return fmt.Errorf("open wallet: %w", err)
	}

	return app.Run(app.Options{
		Runner:     tools.NewRunner(w),
		Provider:   provider,
		RequestLog: st.RequestLog(),
		UserName:   identity.DisplayName(),
		GenTimeout: cfg.Timeout,
	})
}
