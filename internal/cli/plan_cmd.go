package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"remindbot/internal/plan"
)

func newPlanCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved daily plan with next fire times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			t := now().In(cfg.Location)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "plan: %s (%d entries), timezone %s, start %s\n\n",
				cfg.PlanSource, cfg.Plan.Len(), cfg.Timezone, cfg.StartDate)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTITLE\tNEXT")
			for _, e := range cfg.Plan.Entries() {
				next := "-"
				if s, err := plan.DailySchedule(e.At); err == nil {
					next = s.Next(t).Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.At, e.Title, next)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if e, at, ok := cfg.Plan.Next(t); ok {
				fmt.Fprintf(out, "\nnext: %s at %s\n", e.Title, at.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(out, "weekly slot (inactive): %s %s\n", cfg.Weekly.Weekday, cfg.Weekly.At)
			return nil
		},
	}
}
