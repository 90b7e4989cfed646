package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			storage := cfg.Storage.Driver
			if storage == "" {
				storage = "none"
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"config ok: driver=%s to=%s timezone=%s start=%s poll=%s entries=%d storage=%s\n",
				cfg.Transport.Driver, cfg.Transport.Destination, cfg.Timezone, cfg.StartDate,
				cfg.PollInterval, cfg.Plan.Len(), storage)
			return nil
		},
	}
}
