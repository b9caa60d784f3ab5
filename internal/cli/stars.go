package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xingtu-app/xingtu/internal/achieve"
	"github.com/xingtu-app/xingtu/internal/daemon"
	"github.com/xingtu-app/xingtu/internal/infra/sqlite"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

func init() {
	rootCmd.AddCommand(starsCmd)
	starsCmd.AddCommand(starsResetCmd)

	starsResetCmd.Flags().Bool("yes", false, "Confirm the reset without prompting")
}

var starsCmd = &cobra.Command{
	Use:   "stars",
	Short: "Show the current star balance",
	RunE:  runStars,
}

func runStars(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	db, l, err := openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	bal, err := l.Balance(ctx)
	if err != nil {
		return err
	}

	standing := achieve.Evaluate(bal, achieve.DefaultTiers())
	fmt.Fprintf(os.Stdout, "Stars: %d\n", bal)
	if standing.Current != nil {
		fmt.Fprintf(os.Stdout, "Title: %s %s\n", standing.Current.Icon, standing.Current.Title)
	}
	if standing.Next != nil {
		fmt.Fprintf(os.Stdout, "Next:  %s at %d stars (%.0f%%)\n",
			standing.Next.Title, standing.Next.Threshold, standing.Progress*100)
	}
	return nil
}

// ─── stars reset ────────────────────────────────────────────────────────────

var starsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the entire star ledger",
	Long: `Erase every ledger entry and learning record, returning the balance
to zero. Words, poems, tasks and reward items are kept. This cannot be
undone and refuses to run without --yes.`,
	RunE: runStarsReset,
}

func runStarsReset(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		return fmt.Errorf("refusing to reset without --yes")
	}

	ctx := context.Background()
	db, l, err := openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := l.ResetAll(ctx); err != nil {
		return err
	}
	if err := db.DeleteLearningRecords(ctx); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "Star ledger reset.")
	return nil
}

func openLedger() (*sqlite.DB, *ledger.Ledger, error) {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlite.Open(cfg.Data.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return db, ledger.New(db), nil
}
