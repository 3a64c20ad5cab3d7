package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/wallet"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect the credit wallet",
}

var walletBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current point balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeFn, err := openWallet(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		fmt.Printf("%d points\n", w.Balance())
		if w.CanClaimDaily() {
			fmt.Printf("Daily reward of %d points available: run 'lernix wallet claim'\n", wallet.DailyReward)
		}
		return nil
	},
}

var walletClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the daily reward",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, closeFn, err := openWallet(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		amount, err := w.ClaimDaily(context.Background())
		if err != nil {
			if errors.Is(err, wallet.ErrAlreadyClaimed) {
				fmt.Println("Already claimed today. Come back tomorrow!")
				return nil
			}
			return err
		}
		fmt.Printf("+%d points claimed. New balance: %d\n", amount, w.Balance())
		return nil
	},
}

func openWallet(cmd *cobra.Command) (*wallet.Wallet, func(), error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	w, err := wallet.Open(context.Background(), st.KV(), nil)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("open wallet: %w", err)
	}
	return w, func() { st.Close() }, nil
}

func init() {
	walletCmd.AddCommand(walletBalanceCmd)
	walletCmd.AddCommand(walletClaimCmd)
}
