package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-grid/pkg/config"
	"github.com/noah-isme/sma-timetable-grid/pkg/logger"
)

type rootOptions struct {
	source   string
	csvPath  string
	logLevel string
}

// NewRootCmd builds the timetable command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "timetable",
		Short:         "Course timetable grid service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.source, "source", "", "session source: csv or postgres (overrides SESSION_SOURCE)")
	root.PersistentFlags().StringVar(&opts.csvPath, "csv", "", "sessions CSV file (overrides SESSIONS_CSV_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newServeCmd(opts),
		newExportCmd(opts),
		newShowCmd(opts),
		newImportCmd(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.source != "" {
		switch o.source {
		case config.SourceCSV, config.SourcePostgres:
			cfg.Sessions.Source = o.source
		default:
			return nil, nil, fmt.Errorf("unknown --source %q", o.source)
		}
	}
	if o.csvPath != "" {
		cfg.Sessions.CSVPath = o.csvPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	log, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
