package cli

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/xingtu-app/xingtu/internal/achieve"
	"github.com/xingtu-app/xingtu/internal/activity"
	"github.com/xingtu-app/xingtu/internal/api"
	"github.com/xingtu-app/xingtu/internal/catalog"
	"github.com/xingtu-app/xingtu/internal/daemon"
	"github.com/xingtu-app/xingtu/internal/infra/sqlite"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Long: `Start the HTTP API server the web UI talks to. The server binds
loopback only and stores everything in a single SQLite database under
the data directory.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	l := ledger.New(db)
	srv := api.NewServer(
		l,
		catalog.New(db, l),
		activity.NewWords(db, l),
		activity.NewPoems(db, l),
		activity.NewTasks(db, l),
		activity.NewTravel(db, l),
		achieve.DefaultTiers(),
	)
	if cfg.Metrics.Enabled {
		srv.EnableMetrics()
	}

	fmt.Fprintf(os.Stdout, "xingtu listening on http://%s\n", cfg.Addr())
	fmt.Fprintf(os.Stdout, "data directory: %s\n", cfg.Data.Dir)
	return http.ListenAndServe(cfg.Addr(), srv.Handler())
}
