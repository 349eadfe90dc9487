package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/GlintPay/gds/filetypes"
	"github.com/GlintPay/gds/settings"
	"github.com/spf13/cobra"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	var output string

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the current global settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := opts.client()

			snapshot, err := c.Load(cmd.Context())
			if err != nil {
				return err
			}
			allowed, err := c.CanI(cmd.Context())
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(cmd, struct {
					settings.Snapshot
					Editable bool `json:"editable"`
				}{snapshot, allowed})
			}

			if err := printYaml(cmd, snapshot.Settings); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# version: %s\n# editable: %t\n", displayVersion(snapshot.Version), allowed)
			return nil
		},
	}

	getCmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format (yaml, json)")
	return getCmd
}

func newDefaultsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show the settings a fresh installation starts with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defaults, err := opts.client().Defaults(cmd.Context())
			if err != nil {
				return err
			}
			return printYaml(cmd, defaults)
		},
	}
}

func printYaml(cmd *cobra.Command, s settings.GlobalSettings) error {
	bytes, err := filetypes.ToYaml(s)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(bytes)
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayVersion(v string) string {
	if v == "" {
		return "(never saved)"
	}
	return v
}
