package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find stops by id, code or name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			stops := a.svc.SearchStops(query, limit)
			if len(stops) == 0 {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("No stops match %q.", query)))
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Stops matching %q", query)))
			for _, s := range stops {
				fmt.Fprintf(out, "%s  %s\n", idStyle.Render(s.ID), s.Name)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (default: search.limit)")
	return cmd
}
