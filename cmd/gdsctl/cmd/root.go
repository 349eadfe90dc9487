package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GlintPay/gds/client"
	"github.com/GlintPay/gds/config"
	"github.com/GlintPay/gds/logging"
	"github.com/caarlos0/env/v6"
	"github.com/spf13/cobra"
)

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

type rootOptions struct {
	editorConfig config.EditorConfiguration
	logLevel     string
}

func Execute() error {
	root := newRootCmd(streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(s streams) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gdsctl",
		Short: "View and edit the dashboard's global settings",
		Long: `gdsctl talks to a gds settings server. Edits are made against the version
that was loaded; if someone else saved in between, you are asked whether to
overwrite their changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd, s)
		},
	}
	rootCmd.SetIn(s.in)
	rootCmd.SetOut(s.out)
	rootCmd.SetErr(s.err)

	rootCmd.PersistentFlags().String("server", "", "settings server URL (default $GDS_SERVER_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGetCmd(opts), newSetCmd(opts), newDefaultsCmd(opts))
	return rootCmd
}

func (o *rootOptions) init(cmd *cobra.Command, s streams) error {
	if err := logging.SetupConsole(s.err, o.logLevel); err != nil {
		return err
	}

	if err := env.Parse(&o.editorConfig); err != nil {
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	if server, _ := cmd.Flags().GetString("server"); server != "" {
		o.editorConfig.ServerURL = server
	}
	return nil
}

func (o *rootOptions) client() *client.Client {
	return client.New(o.editorConfig.ServerURL, client.WithTimeout(time.Duration(o.editorConfig.TimeoutMillis)*time.Millisecond))
}
