package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pfrederiksen/gora-search/internal/logger"
	"github.com/pfrederiksen/gora-search/internal/popup"
	"github.com/pfrederiksen/gora-search/internal/settings"
	"github.com/spf13/cobra"
)

func newConfigCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the stored Rakuten application id",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get-key",
			Short: "Show the stored application id (masked)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := o.app()
				if err != nil {
					return err
				}
				cred, err := a.credential()
				if err != nil {
					return err
				}
				if !settings.IsConfigured(cred) {
					return errors.New(popup.MsgNotConfigured)
				}
				fmt.Fprintln(cmd.OutOrStdout(), logger.MaskSecret(cred))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-key APPLICATION_ID",
			Short: "Store the application id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := o.app()
				if err != nil {
					return err
				}
				opts := popup.NewOptions(a.store, a.client)
				err = opts.Save(args[0])
				msg, _, _ := opts.Status().Current()
				if err != nil {
					return errors.New(msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			},
		},
		newConfigTestCmd(o),
	)

	return cmd
}

func newConfigTestCmd(o *rootOptions) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the API connection with the stored (or given) application id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := o.app()
			if err != nil {
				return err
			}

			cred := strings.TrimSpace(key)
			if cred == "" {
				if cred, err = a.credential(); err != nil {
					return err
				}
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			opts := popup.NewOptions(a.store, a.client)
			_, err = opts.Test(ctx, cred)
			msg, _, _ := opts.Status().Current()
			if err != nil {
				return errors.New(msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Application id to test instead of the stored one")
	return cmd
}
