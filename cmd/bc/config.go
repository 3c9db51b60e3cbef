package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"businesscase/internal/config"
	"businesscase/internal/engine/auth"
)

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage businesscase.yml"}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			rows := []table.Row{
				{config.KeyServerAddr, cfg.Server.Addr},
				{config.KeyServerBasePath, cfg.Server.BasePath},
				{config.KeyServerIdleTimeout, cfg.Server.IdleTimeout.String()},
				{config.KeyServerOpenBrowser, cfg.Server.OpenBrowser},
				{config.KeyOutputDir, cfg.Output.Dir},
				{config.KeyBrandingTitle, cfg.Branding.Title},
				{config.KeyBrandingLogo, cfg.Branding.Logo},
				{config.KeyLogLevel, cfg.Log.Level},
				{config.KeyLogFormat, cfg.Log.Format},
				{config.KeyAuthJWTSecret, redact(cfg.Auth.JWTSecret)},
			}
			if jsonOutput() {
				out := make(map[string]any, len(rows))
				for _, r := range rows {
					out[r[0].(string)] = r[1]
				}
				return printJSON(out)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Key", "Value"})
			tw.AppendRows(rows)
			tw.Render()
			return nil
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default businesscase.yml into the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(settings.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate businesscase.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(settings.GetString("workspace"))
			cfg, err := config.FromFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("%s is valid\n", path)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var subject string
	var scopes []string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the JSON API (needs BC_AUTH_JWT_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig()
			if err != nil {
				return err
			}
			token, err := auth.Issue(cfg.Auth.JWTSecret, subject, scopes, ttl, time.Now())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(map[string]string{"token": token, "subject": subject})
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().StringArrayVar(&scopes, "scope", []string{}, "scope (repeatable)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (0 for no expiry)")
	return cmd
}
