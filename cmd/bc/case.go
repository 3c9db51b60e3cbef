package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"businesscase/internal/config"
	"businesscase/internal/domain"
	"businesscase/internal/engine"
	"businesscase/internal/importer"
	"businesscase/internal/numeric"
	"businesscase/internal/render"
)

// recordInput collects the --from and --set flags shared by several commands.
type recordInput struct {
	from string
	sets []string
}

func (in *recordInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.from, "from", "", "prefill from a JSON export or a Word questionnaire (.docx)")
	cmd.Flags().StringArrayVar(&in.sets, "set", []string{}, "field value as key=value (repeatable)")
}

// record builds the record: defaults, then the --from file, then --set values.
func (in *recordInput) record(ctx context.Context, e engine.Engine) (domain.Record, error) {
	rec := domain.NewRecord()
	if in.from != "" {
		res, err := importFile(ctx, e, in.from)
		if err != nil {
			return nil, err
		}
		rec = res.Record
	}
	for _, kv := range in.sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		key = strings.TrimSpace(key)
		if !domain.IsField(key) {
			return nil, fmt.Errorf("invalid --set %q: unknown field %q", kv, key)
		}
		rec[domain.Field(key)] = strings.TrimSpace(value)
	}
	return rec, nil
}

func importFile(ctx context.Context, e engine.Engine, path string) (importer.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return importer.Result{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return e.ImportDocument(ctx, data)
	}
	return e.ImportJSON(ctx, data)
}

func calcCmd() *cobra.Command {
	var in recordInput
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute ROI metrics for a record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				rec, err := in.record(ctx, rt.Engine)
				if err != nil {
					return err
				}
				m := rt.Engine.Metrics(rec)
				if jsonOutput() {
					return printJSON(m)
				}
				printMetrics(rec, m)
				return nil
			})
		},
	}
	in.bind(cmd)
	return cmd
}

func printMetrics(rec domain.Record, m domain.Metrics) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetTitle(rec.Or(domain.FieldProcessName, "RPA Business Case"))
	tw.AppendHeader(table.Row{"Nøgletal", "Værdi"})
	tw.AppendRows([]table.Row{
		{"Minutter pr. år", numeric.Format(m.MinutesPerYear, 0)},
		{"Timer pr. år", numeric.Format(m.HoursPerYear, 1)},
		{"FTE", numeric.Format(m.FTE, 2)},
		{"Timepris", numeric.FormatCurrency(m.HourlyRate, 2)},
		{"Omkostning før", numeric.FormatCurrency(m.CostBefore, 0)},
		{"Timer efter", numeric.Format(m.HoursAfter, 1)},
		{"Omkostning efter", numeric.FormatCurrency(m.CostAfter, 0)},
		{"Årlig besparelse", numeric.FormatCurrency(m.AnnualSavings, 0)},
		{"Break-even (år)", numeric.Format(m.BreakEvenYears, 1)},
	})
	tw.Render()
}

func generateCmd() *cobra.Command {
	var in recordInput
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the workbook and both Word documents",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"output": config.KeyOutputDir})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				rec, err := in.record(ctx, rt.Engine)
				if err != nil {
					return err
				}
				gen, err := rt.Engine.Generate(ctx, rec)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(gen)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Kind", "File", "Size"})
				for _, a := range gen.Artifacts {
					tw.AppendRow(table.Row{a.Kind, a.Path, a.Size})
				}
				tw.AppendFooter(table.Row{"", "Årlig besparelse", numeric.FormatCurrency(gen.Metrics.AnnualSavings, 0)})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().String("output", "", "output directory")
	in.bind(cmd)
	return cmd
}

func importCmd() *cobra.Command {
	var docxPath, jsonPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Show the record rebuilt from a JSON export or a Word questionnaire",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (docxPath == "") == (jsonPath == "") {
				return fmt.Errorf("exactly one of --docx or --json is required")
			}
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				path := jsonPath
				if docxPath != "" {
					path = docxPath
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				var res importer.Result
				var importErr error
				if docxPath != "" {
					res, importErr = rt.Engine.ImportDocument(ctx, data)
				} else {
					res, importErr = rt.Engine.ImportJSON(ctx, data)
				}
				if jsonOutput() {
					out := map[string]any{
						"status":  res.Status,
						"matched": res.Matched,
						"values":  res.Record.Values(),
					}
					if importErr != nil {
						out["error"] = res.Message
					}
					return printJSON(out)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.SetTitle(fmt.Sprintf("%s: %s (%d matched)", filepath.Base(path), res.Status, res.Matched))
				tw.AppendHeader(table.Row{"Field", "Value"})
				for _, spec := range domain.Fields() {
					tw.AppendRow(table.Row{spec.Key, res.Record.Get(spec.Key)})
				}
				tw.Render()
				return importErr
			})
		},
	}
	cmd.Flags().StringVar(&docxPath, "docx", "", "Word questionnaire to import")
	cmd.Flags().StringVar(&jsonPath, "json", "", "JSON export to import")
	return cmd
}

func questionnaireCmd() *cobra.Command {
	var in recordInput
	var out string
	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Write the Word questionnaire, optionally prefilled",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
				rec := domain.NewRecord()
				if in.from != "" || len(in.sets) > 0 {
					var err error
					if rec, err = in.record(ctx, rt.Engine); err != nil {
						return err
					}
				}
				data, err := rt.Engine.Questionnaire(rec)
				if err != nil {
					return err
				}
				if err := engine.WriteFileAtomic(out, data, 0o644); err != nil {
					return err
				}
				fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", render.QuestionnaireFile, "output file")
	in.bind(cmd)
	return cmd
}
