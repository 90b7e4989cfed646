// Package cli holds the remindbot command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"remindbot/internal/app"
	"remindbot/internal/config"
)

// now is the wall clock used by read-only commands.
var now = time.Now

const stopTimeout = 10 * time.Second

func NewRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "remindbot",
		Short: "Send the daily reminder plan at its scheduled minutes",
		Long: "remindbot polls a zoned clock and sends every due plan entry at most once per day.\n" +
			"Without --config all settings come from the environment and ./.env.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (json or yaml)")

	root.AddCommand(
		newPlanCmd(&cfgPath),
		newCheckCmd(&cfgPath),
		newHistoryCmd(&cfgPath),
	)
	return root
}

func loadConfig(path string) (*config.AppConfig, error) {
	raw, err := config.NewManager(path).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return config.Resolve(raw)
}

func runDaemon(ctx context.Context, cfgPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.NewApp(cfgPath)
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := a.Start(ctx); err != nil {
		return err
	}

	reason := app.StopAppStop
	select {
	case s := <-sigs:
		if s == syscall.SIGTERM {
			reason = app.StopSIGTERM
		} else {
			reason = app.StopSIGINT
		}
	case <-a.Done():
		if a.Err() != nil {
			reason = app.StopFatalError
		}
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	stopErr := a.Stop(stopCtx, reason)
	if reason == app.StopFatalError {
		return errors.Join(a.Err(), stopErr)
	}
	return stopErr
}
