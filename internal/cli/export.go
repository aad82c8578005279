package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-grid/internal/dto"
)

type exportOptions struct {
	cycles   []string
	formats  []string
	combined bool
	dir      string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	exportOpts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write PDF and CSV timetables to the export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, exportOpts)
		},
	}
	cmd.Flags().StringSliceVar(&exportOpts.cycles, "cycle", nil, "cycles to export (default: every configured cycle)")
	cmd.Flags().StringSliceVar(&exportOpts.formats, "format", []string{"pdf", "xlsx"}, "formats to write (pdf, xlsx, csv)")
	cmd.Flags().BoolVar(&exportOpts.combined, "combined", true, "also write the all-cycles PDF")
	cmd.Flags().StringVar(&exportOpts.dir, "dir", "", "output directory (overrides EXPORT_DIR)")
	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions, exportOpts *exportOptions) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	if exportOpts.dir != "" {
		cfg.Export.Dir = exportOpts.dir
	}

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.exports.ExportAll(cmd.Context(), dto.BatchExportRequest{
		Cycles:   exportOpts.cycles,
		Formats:  exportOpts.formats,
		Combined: exportOpts.combined,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range result.Files {
		fmt.Fprintln(out, file.Path)
	}
	for _, failed := range result.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed: cycle %s (%s): %s\n", failed.Cycle, failed.Format, failed.Error)
	}
	if len(result.Failed) > 0 {
		return errors.New("some exports failed")
	}
	return nil
}
