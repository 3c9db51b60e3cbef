package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"businesscase/internal/config"
	"businesscase/internal/db"
	"businesscase/internal/engine"
	"businesscase/internal/logger"
	"businesscase/internal/migrate"
	"businesscase/internal/render"
)

var settings = config.NewViper()

var rootCmd = &cobra.Command{
	Use:   "bc",
	Short: "BusinessCaseGPT CLI",
	Long: `bc turns one process description into an RPA business case.
- Record: the fields of the form (process name, duration, frequency, salary, automation %, investment, ...).
- Metrics: hours per year, FTE, cost before/after, annual savings and break-even, computed from the record.
- Artifacts: an Excel workbook plus two Word documents (PDD/RTS and the leadership summary) written to the output directory.
- Imports: a previously exported JSON file or a filled-in Word questionnaire refills the record.
- Serve: 'bc serve' starts the local web form and the /v0 JSON API; it stops on request or when idle.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := settings.GetString("workspace")
		config.LoadEnvFiles(filepath.Join(workspace, ".env"), ".env")
		return nil
	},
}

func main() {
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = settings.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = settings.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = settings.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(questionnaireCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(tokenCmd())
}

// --- helpers ---

func resolveConfig() (*config.Config, error) {
	workspace := settings.GetString("workspace")
	cfg, err := config.Resolve(workspace, settings)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(workspace, cfg.Output.Dir)
	}
	if cfg.Branding.Logo != "" && !filepath.IsAbs(cfg.Branding.Logo) {
		cfg.Branding.Logo = filepath.Join(workspace, cfg.Branding.Logo)
	}
	return cfg, nil
}

type runtime struct {
	Config   *config.Config
	Log      logger.Logger
	Branding render.Branding
	Engine   engine.Engine
	conn     *sql.DB
}

func (rt *runtime) Close() {
	if rt.conn != nil {
		rt.conn.Close()
	}
	_ = rt.Log.Sync()
}

// openRuntime resolves config, logging, branding and the in-memory journal.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.NewStructured(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	conn, err := db.Open(db.Config{})
	if err != nil {
		return nil, err
	}
	if _, err := migrate.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	branding := render.LoadBranding(render.LogoCandidates(cfg.Branding.Logo, settings.GetString("workspace"))...)
	if branding.HasLogo() {
		log.Debug("branding logo", logger.Fields{"source": branding.Source, "format": branding.Format})
	}
	e := engine.New(conn, render.New(branding), cfg.Output.Dir, log)
	return &runtime{Config: cfg, Log: log, Branding: branding, Engine: e, conn: conn}, nil
}

func withRuntime(ctx context.Context, fn func(context.Context, *runtime) error) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}

// bindFlags binds command-local flags to config keys. Commands share keys,
// so binding happens when the command runs.
func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for name, key := range flags {
		if err := settings.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func jsonOutput() bool {
	return settings.GetBool("json")
}

