package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) secretCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "secret",
		Short: "Store or read a user's encrypted secret",
		Long:  "The secret is sealed with AES-GCM under the key from --key or $SKIPSCAN_AES_KEY.",
	}
	c.AddCommand(&cobra.Command{
		Use:   "set <user> <value>",
		Short: "Encrypt and store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			box, err := a.box(cfg)
			if err != nil {
				return err
			}
			p, err := s.EnsureProfile(args[0])
			if err != nil {
				return err
			}
			if err := p.SetSecret(box, args[1]); err != nil {
				return err
			}
			return s.SaveProfile(p)
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "get <user>",
		Short: "Decrypt and print a secret. Exit status 1 when none is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			box, err := a.box(cfg)
			if err != nil {
				return err
			}
			p, err := s.EnsureProfile(args[0])
			if err != nil {
				return err
			}
			v, ok, err := p.Secret(box)
			if err != nil {
				return fmt.Errorf("secret %s: %w", args[0], err)
			}
			if !ok {
				return exitError{1}
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})
	return c
}
