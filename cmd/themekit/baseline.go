package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"themekit/internal/artifact"
	"themekit/internal/baseline"
	"themekit/internal/drift"
	"themekit/internal/validator"
)

func (a *app) store() *baseline.Store {
	dir := baseline.ResolveDir(a.environ)
	a.log.V(1).Info("baseline store", "dir", dir)
	return baseline.NewStore(dir)
}

func notFound(name string) error {
	return fail(exitBaselineNotFound, "baseline '%s' not found", name)
}

func (a *app) baselineCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage saved theme baselines",
	}
	cmd.AddCommand(a.baselineSaveCommand(), a.baselineListCommand(), a.baselineShowCommand(), a.baselineDeleteCommand())
	return cmd
}

func (a *app) baselineSaveCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the current theme tokens as a baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, source, err := a.loadTheme()
			if err != nil {
				return err
			}
			if result := validator.Validate(cfg); !result.Valid {
				return a.reportInvalid(result, source, a.ciMode(false))
			}

			store := a.store()
			if store.Exists(name) && !force {
				return fail(exitInvalid, "baseline '%s' already exists (use --force to replace it)", name)
			}

			art := artifact.Generate(cfg)
			b := baseline.Baseline{
				Name:          name,
				ConfigVersion: art.ConfigVersion,
				Tokens:        art.Values,
				Source:        source,
				Timestamp:     time.Now().UTC().Truncate(time.Second),
			}
			if err := store.Save(b); err != nil {
				return fail(exitInvalid, "failed to save baseline: %v", err)
			}
			a.ok.Fprintf(a.stdout, "✓ saved baseline '%s' (%d tokens, version %s)\n", name, len(b.Tokens), art.Short())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing baseline")
	return cmd
}

func (a *app) baselineListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved baselines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summaries, err := a.store().List()
			if err != nil {
				return fail(exitInvalid, "failed to list baselines: %v", err)
			}
			if asJSON {
				data, err := json.MarshalIndent(summaries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			}
			if len(summaries) == 0 {
				fmt.Fprintln(a.stdout, "No baselines saved.")
				return nil
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tVERSION\tTOKENS\tSOURCE\tSAVED")
			for _, s := range summaries {
				art := artifact.ThemeArtifact{ConfigVersion: s.ConfigVersion}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.Name, art.Short(), s.TokenCount, s.Source, s.Timestamp.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	return cmd
}

func (a *app) baselineShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved baseline as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.store().Load(args[0])
			if errors.Is(err, baseline.ErrBaselineNotFound) {
				return notFound(args[0])
			}
			if err != nil {
				return fail(exitInvalid, "failed to load baseline: %v", err)
			}
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
}

func (a *app) baselineDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.store().Delete(args[0])
			if errors.Is(err, baseline.ErrBaselineNotFound) {
				return notFound(args[0])
			}
			if err != nil {
				return fail(exitInvalid, "failed to delete baseline: %v", err)
			}
			a.ok.Fprintf(a.stdout, "✓ deleted baseline '%s'\n", args[0])
			return nil
		},
	}
}

func (a *app) driftCommand() *cobra.Command {
	var asJSON, ci, failOnDrift bool
	cmd := &cobra.Command{
		Use:   "drift <baseline>",
		Short: "Compare the current theme against a saved baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			b, err := a.store().Load(name)
			if errors.Is(err, baseline.ErrBaselineNotFound) {
				return notFound(name)
			}
			if err != nil {
				return fail(exitInvalid, "failed to load baseline: %v", err)
			}

			cfg, source, err := a.loadTheme()
			if err != nil {
				return err
			}
			art := artifact.Generate(cfg)
			report := drift.Detect(b, art.Values, art.ConfigVersion)
			a.log.V(1).Info("compared against baseline", "baseline", name, "changes", len(report.Changes))

			switch {
			case asJSON:
				out, err := drift.FormatJSON(report)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, out)
			case !report.HasDrift:
				a.ok.Fprintf(a.stdout, "✓ no drift since baseline '%s'\n", name)
			case a.ciMode(ci):
				fmt.Fprint(a.stderr, drift.FormatCI(report, a.annotationFile(source)))
			default:
				fmt.Fprint(a.stderr, drift.FormatCLI(report))
			}

			if report.HasDrift && failOnDrift {
				return &exitError{code: exitInvalid}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the drift report as JSON")
	cmd.Flags().BoolVar(&ci, "ci", false, "print drift as CI warning annotations")
	cmd.Flags().BoolVar(&failOnDrift, "fail-on-drift", false, "exit 1 when the theme has drifted")
	return cmd
}
