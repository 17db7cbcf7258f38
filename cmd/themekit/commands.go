package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"themekit/internal/artifact"
	"themekit/internal/content"
	"themekit/internal/resolve"
	"themekit/internal/theme"
	"themekit/internal/validator"
)

// render encodes cfg (or its merged form) in one of the output formats.
func render(cfg theme.Config, format string, merged bool) ([]byte, error) {
	if merged {
		r := resolve.Resolve(cfg)
		if format == "json" {
			data, err := json.MarshalIndent(r, "", "  ")
			return append(data, '\n'), err
		}
		cfg = r.Config()
	}
	switch format {
	case "yaml", "yml":
		return cfg.ToYAML()
	case "json":
		data, err := cfg.ToJSON()
		return append(data, '\n'), err
	case "js":
		return cfg.ToModule()
	case "artifact":
		data, err := artifact.Generate(cfg).ToJSON()
		return append(data, '\n'), err
	}
	return nil, fail(exitInvalid, "unknown format %q (want yaml, json, js or artifact)", format)
}

func (a *app) showCommand() *cobra.Command {
	var format string
	var merged bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.loadTheme()
			if err != nil {
				return err
			}
			out, err := render(cfg, format, merged)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json, js or artifact")
	cmd.Flags().BoolVar(&merged, "merged", false, "merge the theme over the built-in defaults")
	return cmd
}

// reportInvalid prints validation errors to stderr and returns the exit error.
func (a *app) reportInvalid(result validator.ValidationResult, source string, ci bool) error {
	for _, verr := range result.Errors {
		if ci {
			fmt.Fprintln(a.stderr, validator.FormatCI(verr, a.annotationFile(source)))
		} else {
			fmt.Fprintln(a.stderr, validator.FormatError(verr))
		}
	}
	a.bad.Fprintf(a.stderr, "✗ validation failed: %d error(s)\n", len(result.Errors))
	return &exitError{code: exitInvalid}
}

func (a *app) checkCommand() *cobra.Command {
	var asJSON, ci bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, source, err := a.loadTheme()
			if err != nil {
				return err
			}
			result := validator.Validate(cfg)
			a.log.V(1).Info("validated theme", "source", source, "errors", len(result.Errors))

			if asJSON {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				if !result.Valid {
					return &exitError{code: exitInvalid}
				}
				return nil
			}

			if !result.Valid {
				return a.reportInvalid(result, source, a.ciMode(ci))
			}
			art := artifact.Generate(cfg)
			a.ok.Fprintf(a.stdout, "✓ %s is valid (%d tokens, version %s)\n", source, len(art.Values), art.Short())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the validation result as JSON")
	cmd.Flags().BoolVar(&ci, "ci", false, "print errors as CI annotations")
	return cmd
}

// formatFromPath guesses an export format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs":
		return "js"
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func (a *app) exportCommand() *cobra.Command {
	var out, format string
	var merged, ci bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Validate the theme and write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fail(exitInvalid, "--out is required")
			}
			cfg, source, err := a.loadTheme()
			if err != nil {
				return err
			}
			if result := validator.Validate(cfg); !result.Valid {
				return a.reportInvalid(result, source, a.ciMode(ci))
			}

			if format == "" {
				format = formatFromPath(out)
			}
			data, err := render(cfg, format, merged)
			if err != nil {
				return err
			}
			path := a.abs(out)
			if err := artifact.WriteFile(path, data); err != nil {
				return fail(exitInvalid, "failed to write %s: %v", path, err)
			}
			a.log.V(1).Info("exported theme", "path", path, "format", format, "bytes", len(data))
			a.ok.Fprintf(a.stdout, "✓ wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: yaml, json, js or artifact (default: from the file extension)")
	cmd.Flags().BoolVar(&merged, "merged", false, "merge the theme over the built-in defaults")
	cmd.Flags().BoolVar(&ci, "ci", false, "print errors as CI annotations")
	return cmd
}

func (a *app) hashCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Print the theme's config version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := a.loadTheme()
			if err != nil {
				return err
			}
			art := artifact.Generate(cfg)
			if short {
				fmt.Fprintln(a.stdout, art.Short())
				return nil
			}
			fmt.Fprintln(a.stdout, art.ConfigVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the first 12 hex digits")
	return cmd
}

func (a *app) lookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <category>.<name>...",
		Short: "Print merged token values, including built-in defaults",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadTheme()
			if err != nil {
				return err
			}
			r := resolve.Resolve(cfg)

			missing := 0
			for _, arg := range args {
				cat, name, ok := strings.Cut(arg, ".")
				if !ok || name == "" {
					return fail(exitInvalid, "token %q must look like <category>.<name>", arg)
				}
				value, found := r.Lookup(theme.Category(cat), name)
				if !found {
					a.bad.Fprintf(a.stderr, "✗ %s is not defined\n", arg)
					missing++
					continue
				}
				origin, _ := r.Origin(theme.Category(cat), name)
				fmt.Fprintf(a.stdout, "%s\t%s\t(%s)\n", arg, value, origin)
			}
			if missing > 0 {
				return &exitError{code: exitInvalid}
			}
			return nil
		},
	}
}

func (a *app) matchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "match <path>...",
		Short: "Report which content pattern covers each path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := a.loadTheme()
			if err != nil {
				return err
			}
			m, err := content.Compile(cfg.Content)
			if err != nil {
				return fail(exitInvalid, "content patterns: %v", err)
			}

			unmatched := 0
			for _, p := range args {
				if pattern, ok := m.Match(p); ok {
					fmt.Fprintf(a.stdout, "%s\t%s\n", p, pattern)
					continue
				}
				fmt.Fprintf(a.stdout, "%s\t(not scanned)\n", p)
				unmatched++
			}
			if unmatched > 0 {
				return &exitError{code: exitInvalid}
			}
			return nil
		},
	}
}
