package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-grid/internal/repository"
	"github.com/noah-isme/sma-timetable-grid/internal/service"
	"github.com/noah-isme/sma-timetable-grid/migrations"
	"github.com/noah-isme/sma-timetable-grid/pkg/database"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a sessions CSV into PostgreSQL, replacing the cycles it contains",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if file == "" {
				file = cfg.Sessions.CSVPath
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close() //nolint:errcheck
			records, err := repository.ReadSessionsCSV(cmd.Context(), f)
			if err != nil {
				return err
			}

			db, err := database.NewPostgres(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer db.Close() //nolint:errcheck
			if err := migrations.Up(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			a := &app{cfg: cfg, logger: log, metrics: service.NewMetricsService()}
			cacheSvc := a.connectCache(cmd.Context())
			defer a.Close()

			imported, err := service.NewImportService(repository.NewSessionRepository(db), cacheSvc, log).Import(cmd.Context(), records)
			for _, cycle := range imported {
				fmt.Fprintf(cmd.OutOrStdout(), "cycle %s: %d sessions\n", cycle.Cycle, cycle.Sessions)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "CSV file to import (default: SESSIONS_CSV_PATH)")
	return cmd
}
