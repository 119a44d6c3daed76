package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theoremus-urban-solutions/nextbus"
	"github.com/theoremus-urban-solutions/nextbus/formatter"
)

func newArrivalsCmd(opts *rootOptions) *cobra.Command {
	var route string
	var compact bool
	cmd := &cobra.Command{
		Use:   "arrivals <stop>",
		Short: "Show live arrival predictions at a stop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), cmd, opts)
			if err != nil {
				return err
			}
			stop, err := a.resolveStop(args[0])
			if err != nil {
				return err
			}
			board, _ := a.svc.LiveBoard(cmd.Context(), stop.ID, route)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, stopHeading(stop))
			if board.Status != nextbus.StatusLive {
				fmt.Fprintln(out, warnStyle.Render(board.Message))
				return nil
			}
			if !compact {
				for _, line := range board.Lines {
					fmt.Fprintln(out, line)
				}
				return nil
			}
			for _, arr := range board.Arrivals {
				fmt.Fprintln(out, formatter.FormatArrivalCompact(arr, a.svc.RouteName(arr.RouteID), time.Local))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&route, "route", "", "only this route id")
	cmd.Flags().BoolVar(&compact, "compact", false, "one short line per arrival with the clock time")
	return cmd
}
