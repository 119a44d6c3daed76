package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theoremus-urban-solutions/nextbus/formatter"
)

type scheduleFlags struct {
	day    string
	date   string
	from   string
	window int
	route  string
}

// params maps flags onto the same parameters the HTTP endpoint takes.
func (f scheduleFlags) params() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("day", f.day)
	set("date", f.date)
	set("from", f.from)
	set("route", f.route)
	if f.window > 0 {
		v.Set("window", strconv.Itoa(f.window))
	}
	return v
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var flags scheduleFlags
	cmd := &cobra.Command{
		Use:   "schedule <stop>",
		Short: "List scheduled arrivals at a stop",
		Long:  "Lists timetabled arrivals at a stop. Without --day or --date it shows today's service from a few minutes ago.",
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
			sq, err := a.svc.ParseScheduleQuery(stop.ID, flags.params())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			day := cases.Title(language.English).String(sq.Day.String())
			fmt.Fprintln(out, stopHeading(stop)+" "+dimStyle.Render(day))

			entries := a.svc.ScheduledArrivals(sq)
			if len(entries) == 0 {
				fmt.Fprintln(out, warnStyle.Render("No scheduled arrivals."))
				return nil
			}
			nowSeconds := a.svc.ScheduleNow(sq)
			for _, e := range entries {
				fmt.Fprintln(out, formatter.FormatScheduledEntry(e, a.svc.RouteName(e.RouteID), nowSeconds))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.day, "day", "", "day of week, e.g. monday or sat")
	cmd.Flags().StringVar(&flags.date, "date", "", "service date, YYYYMMDD or YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.from, "from", "", "earliest time, H:MM")
	cmd.Flags().IntVar(&flags.window, "window", 0, "minutes after --from to include (0: rest of the day)")
	cmd.Flags().StringVar(&flags.route, "route", "", "only this route id")
	return cmd
}
