package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema (golang-migrate)",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			m, err := postgres.NewMigrator(a.cfg.DB.ConnectionString())
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(cmd, m)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				a.log.Info().Msg("migraciones aplicadas")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte la última migración",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(_ *cobra.Command, m *postgres.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				a.log.Info().Msg("última migración revertida")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión actual del esquema",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if v == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones aplicadas")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			}),
		},
	)
	return cmd
}
