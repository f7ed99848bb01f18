package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"suppliergw/internal/supplier"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the booking API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPListenAddr = addr
			}
			if cmd.Flags().Changed("offline") {
				cfg.Inventory.Offline = offline
				cfg.FX.Offline = offline
				cfg.Email.Offline = offline
			}
			cfg.Logger = supplier.NewStdLogger(os.Stderr)

			app, err := supplier.NewApplication(cfg)
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Start(ctx); err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DrainTimeout)
			defer cancel()
			if err := app.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shutdown application: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address")
	cmd.Flags().BoolVar(&offline, "offline", false, "serve all suppliers from fixtures")
	return cmd
}

func printConfigCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "print-config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.AdminToken = ""
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path")
	return cmd
}

func loadConfig(path string) (*supplier.Config, error) {
	cfg := supplier.DefaultConfig()
	if path != "" {
		if err := supplier.LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := supplier.ApplyEnvOverrides(cfg, os.Environ()); err != nil {
		return nil, err
	}
	return cfg, nil
}
