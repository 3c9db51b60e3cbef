package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"businesscase/internal/app"
	"businesscase/internal/config"
	"businesscase/internal/logger"
	"businesscase/internal/server"
	"businesscase/internal/telemetry"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web form and the JSON API",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"addr":         config.KeyServerAddr,
				"base-path":    config.KeyServerBasePath,
				"idle-timeout": config.KeyServerIdleTimeout,
				"open":         config.KeyServerOpenBrowser,
				"output":       config.KeyOutputDir,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withRuntime(ctx, serve)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config, 127.0.0.1:5000)")
	cmd.Flags().String("base-path", "", "API base path")
	cmd.Flags().Duration("idle-timeout", 0, "stop after this long without requests (0 keeps running)")
	cmd.Flags().Bool("open", false, "open the form in the default browser")
	cmd.Flags().String("output", "", "output directory")
	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	cfg := rt.Config
	log := rt.Log
	activity := app.NewActivity(nil)

	ctx, cancel := app.WithIdleShutdown(ctx, activity, cfg.Server.IdleTimeout, app.DefaultIdleCheck, func() {
		telemetry.IdleShutdowns.Inc()
		log.Info("idle timeout reached, shutting down", logger.Fields{"idle_timeout": cfg.Server.IdleTimeout.String()})
	})
	defer cancel()

	handler, err := server.New(server.Config{
		Engine:   rt.Engine,
		BasePath: cfg.Server.BasePath,
		Auth:     server.AuthConfig{JWTSecret: cfg.Auth.JWTSecret},
		Title:    cfg.Branding.Title,
		Branding: rt.Branding,
		Activity: activity,
		Log:      log,
		Shutdown: cancel,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		srv.Shutdown(shutdownCtx)
	}()

	url := "http://" + ln.Addr().String() + "/"
	log.Info("serving", logger.Fields{
		"url":          url,
		"api":          cfg.Server.BasePath,
		"output_dir":   cfg.Output.Dir,
		"idle_timeout": cfg.Server.IdleTimeout.String(),
		"auth":         cfg.Auth.JWTSecret != "",
	})
	fmt.Printf("Serving %s on %s (API at %s, Swagger UI at /docs)\n", cfg.Branding.Title, url, cfg.Server.BasePath)
	if cfg.Server.OpenBrowser {
		go func() {
			if err := browser.OpenURL(url); err != nil {
				log.WithError(err).Warn("open browser", logger.Fields{"url": url})
			}
		}()
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped", nil)
	return nil
}
