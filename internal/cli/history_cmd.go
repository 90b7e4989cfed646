package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent dispatch attempts from the attempt journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			store, err := storage.Open(cfg.Storage, logx.Nop())
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history: %w (set storage.driver)", storage.ErrDisabled)
			}
			defer store.Close()

			attempts, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no attempts recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "AT\tSLOT\tTITLE\tRESULT\tTOOK")
			for _, a := range attempts {
				result := "ok"
				if !a.OK {
					result = "failed: " + a.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dms\n",
					a.At.In(cfg.Location).Format("2006-01-02 15:04"), a.Slot, a.Title, result, a.TookMS)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of attempts to show")
	return cmd
}
