package main

import (
	"fmt"
	"strconv"

	"clinic-records/cmd/bootstrap"
	"clinic-records/config"
	"clinic-records/internal/delivery/cli"
	"clinic-records/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-records",
		Short:         "Clinic medical records API",
		SilenceUsage:  true,
		SilenceErrors: true,
		// With no subcommand the API server starts.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Initialize application with all dependencies
	app, err := bootstrap.New()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	// Run the application
	return app.Run()
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if err := bootstrap.RunMigrations(cfg.DB, log); err != nil {
				return err
			}
			log.Info("Migrations applied")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator, log *logrus.Logger) error {
				if err := m.Down(); err != nil {
					return err
				}
				log.Info("Rolled back one migration")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *database.Migrator, log *logrus.Logger) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print clinic reports to the terminal",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dashboard",
		Short: "Patient, staff and visit totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReporter(cmd, func(r *cli.Reporter) error {
				return r.Dashboard(cmd.Context())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "patient <id>",
		Short: "One patient's details, latest visit and monthly trend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid patient id %q", args[0])
			}
			return withReporter(cmd, func(r *cli.Reporter) error {
				return r.Patient(cmd.Context(), id)
			})
		},
	})

	return cmd
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, bootstrap.NewLogger(cfg.App), nil
}

func withMigrator(fn func(m *database.Migrator, log *logrus.Logger) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(cfg.DB.DSN(), log)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m, log)
}

func withReporter(cmd *cobra.Command, fn func(r *cli.Reporter) error) error {
	app, err := bootstrap.New()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Close()

	u := app.Usecases
	return fn(cli.NewReporter(cmd.OutOrStdout(), u.Patient, u.Staff, u.MedicalRecord))
}
