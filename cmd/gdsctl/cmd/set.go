package cmd

import (
	"errors"
	"fmt"

	"github.com/GlintPay/gds/editor"
	"github.com/GlintPay/gds/settings"
	"github.com/GlintPay/gds/title"
	"github.com/GlintPay/gds/utils"
	"github.com/spf13/cobra"
)

var errNotSaved = errors.New("settings not saved")

func newSetCmd(opts *rootOptions) *cobra.Command {
	var assumeYes bool

	setCmd := &cobra.Command{
		Use:   "set key=value...",
		Short: "Change global settings",
		Long: `Change one or more global settings, e.g.

  gdsctl set clusterName=prod itemsPerPage=25 namespaceFallbackList=apps,default

Keys are the settings' JSON names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(args)
			if err != nil {
				return err
			}
			return runSet(cmd, opts, values, assumeYes)
		},
	}

	setCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "overwrite concurrent changes without asking")
	return setCmd
}

func parseAssignments(args []string) (map[string]any, error) {
	values := make(map[string]any, len(args))
	for _, each := range args {
		key, value, ok := utils.SplitAssignment(each)
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", each)
		}
		values[key] = value
	}
	return values, nil
}

func runSet(cmd *cobra.Command, opts *rootOptions, values map[string]any, assumeYes bool) error {
	out := cmd.OutOrStdout()

	titles, err := title.New(opts.editorConfig.TitleTemplate, func(t string) {
		_, _ = fmt.Fprintf(out, "Title: %s\n", t)
	})
	if err != nil {
		return fmt.Errorf("bad title template: %w", err)
	}

	broadcaster := editor.NewBroadcaster()
	updates, unsubscribe := broadcaster.Subscribe(1)
	defer unsubscribe()

	orchestrator := editor.NewOrchestrator(opts.client(),
		editor.WithNotifier(broadcaster),
		editor.WithTitleUpdater(titles),
		editor.WithConflictDialog(newTerminalDialog(cmd.InOrStdin(), out, assumeYes)),
	)
	defer orchestrator.Close()

	if err := orchestrator.Load(cmd.Context()); err != nil {
		return err
	}

	if err := orchestrator.Form().Patch(values); err != nil {
		return err
	}

	if !orchestrator.CanSave() {
		_, _ = fmt.Fprintln(out, "Nothing to change")
		return nil
	}

	outcome, err := orchestrator.Save(cmd.Context())
	if err != nil {
		return err
	}

	select {
	case updated := <-updates:
		_, _ = fmt.Fprintf(out, "Settings updated (%s)\n", summary(updated))
	default:
	}

	switch outcome {
	case editor.OutcomeSaved, editor.OutcomeOverwritten:
		_, _ = fmt.Fprintf(out, "Saved at version %s\n", orchestrator.Store().Version())
		return nil
	case editor.OutcomeDeclined:
		_, _ = fmt.Fprintln(out, "Kept the other changes, nothing saved")
		return nil
	}
	return errNotSaved
}

func summary(s settings.GlobalSettings) string {
	return fmt.Sprintf("cluster %q, %d items per page, default namespace %s", s.ClusterName, s.ItemsPerPage, s.DefaultNamespace)
}
