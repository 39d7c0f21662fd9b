package main

import (
	"calsurf/internal/di"
	"calsurf/internal/structures"
	"context"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var flags structures.CliFlags

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "calsurfd",
	Short:        "CalSurf food log daemon with trusted date keys",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := di.InitApp(&flags); err != nil {
			return fmt.Errorf("running daemon: %w", err)
		}
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Reconcile the clock once and print the trusted date",
	RunE: func(cmd *cobra.Command, args []string) error {
		keeper, err := di.InitKeeper(&flags)
		if err != nil {
			return fmt.Errorf("initializing keeper: %w", err)
		}

		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		keeper.Reconcile(ctx)

		out, err := json.MarshalIndent(keeper.Status(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config/calsurf.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "Mirror logs to the console")

	todayCmd.Flags().Duration("timeout", 30*time.Second, "Upper bound for the whole reconciliation")
	rootCmd.AddCommand(todayCmd)
}
