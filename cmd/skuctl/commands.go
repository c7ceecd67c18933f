package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/skugen-backend/internal/app"
	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/export"
	"github.com/yungbote/skugen-backend/internal/services"
)

func newGenerateCommand(c *cli) *cobra.Command {
	var (
		in    services.GenerateInput
		attrs []string
		full  []string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one SKU per size and add the new ones to the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseAttributes(attrs, full)
			if err != nil {
				return err
			}
			in.Attributes = parsed
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Services.SKU.Generate(ctx, in)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, r := range res.Accepted {
					fmt.Fprintf(out, "%s %s\n", green("+"), r.SKU)
				}
				for _, code := range res.Dropped {
					fmt.Fprintf(out, "%s %s %s\n", gray("="), code, gray("(already present)"))
				}
				fmt.Fprintf(out, "%d accepted, %d total\n", len(res.Accepted), res.Count)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Product, "product", "", "Product name (required)")
	f.StringVar(&in.Year, "year", "", "Year; its last two characters are fused onto the product code")
	f.StringArrayVar(&attrs, "attr", nil, "Attribute as name=value, repeatable and kept in order")
	f.StringArrayVar(&full, "full", nil, "Attribute name to encode with its full sanitized text, repeatable")
	f.StringSliceVar(&in.Sizes, "size", nil, "Size to generate, repeatable or comma-separated")
	f.StringVar(&in.Rule, "rule", "", "Abbreviation rule: rule1 or rule2 (default from config)")
	f.StringVar(&in.Separator, "sep", "", "Separator: -, / or : (default from config)")
	return cmd
}

func parseAttributes(attrs, full []string) ([]sku.AttributeValue, error) {
	fullSet := make(map[string]bool, len(full))
	for _, name := range full {
		fullSet[strings.ToLower(strings.TrimSpace(name))] = true
	}
	out := make([]sku.AttributeValue, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, raw := range attrs {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("attribute %q: expected name=value", raw)
		}
		key := strings.ToLower(name)
		out = append(out, sku.AttributeValue{Name: name, Value: value, FullMode: fullSet[key]})
		seen[key] = true
	}
	for name := range fullSet {
		if !seen[name] {
			return nil, fmt.Errorf("--full %q names no --attr", name)
		}
	}
	return out, nil
}

func newListCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the collection in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return printRecords(cmd.OutOrStdout(), a.Services.SKU.List(ctx))
			})
		},
	}
}

func printRecords(w io.Writer, records []sku.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, gray("no skus"))
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSKU\tPRODUCT\tYEAR\tSIZE\tRULE\tSEP")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", i, r.SKU, r.Product, r.Year, r.Size, r.Rule, r.Separator)
	}
	return tw.Flush()
}

func newDeleteCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Remove the record at index (as shown by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index %q: not a number", args[0])
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				removed, remaining, err := a.Services.SKU.Delete(ctx, index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", red("-"), removed.SKU, gray(fmt.Sprintf("(%d left)", remaining)))
				return nil
			})
		},
	}
}

func newClearCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				n := a.Services.SKU.Clear(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d\n", n)
				return nil
			})
		},
	}
}

func newExportCommand(c *cli) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmtv, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if out == "" || out == "-" {
					return a.Services.SKU.Export(ctx, fmtv, cmd.OutOrStdout())
				}
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				if err := a.Services.SKU.Export(ctx, fmtv, f); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "Export format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func newThemeCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark]",
		Short:     "Show or set the stored theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(sku.ThemeLight), string(sku.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				theme := a.Services.Theme.Get(ctx)
				if len(args) == 1 {
					set, err := a.Services.Theme.Set(ctx, args[0])
					if err != nil {
						return err
					}
					theme = set
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			})
		},
	}
}

func newOptionsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the rules, separators, sizes and export formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				o := a.Services.SKU.Options()
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, bold("rules:"))
				for _, r := range o.Rules {
					marker := " "
					if r.Value == o.DefaultRule {
						marker = "*"
					}
					fmt.Fprintf(w, " %s %s  %s\n", marker, r.Value, gray(r.Label))
				}
				seps := make([]string, 0, len(o.Separators))
				for _, s := range o.Separators {
					seps = append(seps, string(s))
				}
				formats := make([]string, 0, len(o.Formats))
				for _, f := range o.Formats {
					formats = append(formats, string(f))
				}
				fmt.Fprintf(w, "%s %s (default %s)\n", bold("separators:"), strings.Join(seps, " "), o.DefaultSeparator)
				fmt.Fprintf(w, "%s %s\n", bold("sizes:"), strings.Join(o.Sizes, " "))
				fmt.Fprintf(w, "%s %s\n", bold("formats:"), strings.Join(formats, " "))
				fmt.Fprintf(w, "%s %d\n", bold("rule length:"), o.RuleLength)
				return nil
			})
		},
	}
}
