package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/gora-search/internal/gora"
	"github.com/spf13/cobra"
)

func newDetailCmd(o *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "detail COURSE_ID",
		Short: "Show one course's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ParseFormat(strings.ToLower(format), FormatText, FormatJSON)
			if err != nil {
				return err
			}

			a, err := o.app()
			if err != nil {
				return err
			}
			cred, err := a.credential()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			id := gora.NormalizeCourseID(args[0])
			d, err := a.client.Detail(ctx, cred, id)
			if err != nil {
				return userError(err)
			}

			if err := WriteDetail(cmd.OutOrStdout(), id, d, f); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func newAreasCmd(_ *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "areas",
		Short: "List the area (prefecture) codes accepted by --area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := ParseFormat(strings.ToLower(format), FormatText, FormatJSON)
			if err != nil {
				return err
			}
			if f == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), gora.Areas)
			}
			for _, area := range gora.Areas {
				fmt.Fprintf(cmd.OutOrStdout(), "%2s  %s\n", area.Code, area.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}
