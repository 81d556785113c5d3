package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"clinic-admin/internal/app"
	"clinic-admin/internal/config"
	"clinic-admin/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:          "clinicctl",
		Short:        "Clinic admin dashboard console",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if baseURL != "" {
				return os.Setenv("API_BASE_URL", baseURL)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&baseURL, "api", "", "API base URL (overrides API_BASE_URL)")

	cmd.AddCommand(shellCmd(), checkCmd(), versionCmd())
	return cmd
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := newConsole()
			if err != nil {
				return err
			}
			return console.Shell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func checkCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sign in, simulate a reload and verify the session is restored from the refresh cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			console, err := newConsole()
			if err != nil {
				return err
			}

			res, err := console.Check(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "login:    ok (user %s)\n", res.UserID)
			fmt.Fprintf(out, "api:      ok (%d patients)\n", res.Patients)
			fmt.Fprintf(out, "restore:  ok (user %s)\n", res.RestoredUser)
			if !res.LoggedOut {
				return fmt.Errorf("session still restorable after logout")
			}
			fmt.Fprintln(out, "logout:   ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "admin@clinic.com", "account email")
	cmd.Flags().StringVar(&password, "password", "password", "account password")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clinicctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "clinicctl", version)
		},
	}
}

func newConsole() (*app.Console, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to stderr so they never interleave with the dashboard.
	logHandler := logger.NewPrettyHandler(os.Stderr, &slog.HandlerOptions{
		Level: logger.ParseLevel(cfg.LogLevel),
	}, isatty.IsTerminal(os.Stderr.Fd()))
	slog.SetDefault(slog.New(logHandler))

	return app.NewConsole(cfg)
}
