package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-grid/pkg/export"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var cycle string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a cycle timetable as a text grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			view, err := a.timetables.Build(cmd.Context(), cycle)
			if err != nil {
				return err
			}
			if err := renderText(cmd.OutOrStdout(), export.NewTable(view)); err != nil {
				return err
			}
			for _, diag := range view.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (row %d): %s\n", diag.Kind, diag.Row, diag.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cycle, "cycle", "", "cycle to print")
	_ = cmd.MarkFlagRequired("cycle")
	return cmd
}

// renderText prints the table with one column per subcolumn; a day caption
// sits over the first subcolumn of its span.
func renderText(w io.Writer, table export.Table) error {
	fmt.Fprintln(w, table.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.Debug)

	header := []string{export.SlotHeader}
	for _, h := range table.Header {
		header = append(header, h.Label)
		for i := 1; i < h.Span; i++ {
			header = append(header, "")
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, row.Slot)
		for _, cell := range row.Cells {
			cells = append(cells, cell.Text)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	return tw.Flush()
}
