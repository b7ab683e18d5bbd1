package cmd

import (
	"fmt"

	"github.com/mhr3/skipscan/ascii"
	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Shows the project root, DB path and resolved settings. Does not open the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			key := "unset"
			if cfg.SecretKey != "" {
				key = "set"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Root:          %s\n", cfg.Paths.Root)
			fmt.Fprintf(w, "DB:            %s\n", cfg.Paths.DB)
			fmt.Fprintf(w, "Key:           %s\n", key)
			fmt.Fprintf(w, "Online window: %s\n", cfg.OnlineWindow)
			fmt.Fprintf(w, "Vector ASCII:  %t\n", ascii.Accelerated())
			return nil
		},
	}
}
