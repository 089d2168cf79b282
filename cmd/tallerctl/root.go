package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

// app dependencias compartidas por los subcomandos; se cargan al ejecutar, no al construir.
type app struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "tallerctl",
		Short:        "Operación del motor de costeo de repuestos",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "tallerctl", Out: os.Stderr})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.pool != nil {
				a.pool.Close()
			}
		},
	}
	root.AddCommand(
		newMigrateCmd(a),
		newReconcileCmd(a),
		newAlertsCmd(a),
		newTokenCmd(a),
	)
	return root
}

// db abre el pool una sola vez por ejecución.
func (a *app) db(ctx context.Context) (*pgxpool.Pool, error) {
	if a.pool != nil {
		return a.pool, nil
	}
	if a.cfg.DB.Driver != "postgres" {
		return nil, fmt.Errorf("tallerctl requiere DB_DRIVER=postgres (actual %q)", a.cfg.DB.Driver)
	}
	pool, err := postgres.NewPool(ctx, a.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	a.pool = pool
	return pool, nil
}

func (a *app) repos(ctx context.Context) (inventory.TxRunner, inventory.Repositories, error) {
	pool, err := a.db(ctx)
	if err != nil {
		return nil, inventory.Repositories{}, err
	}
	return postgres.NewTxRunner(pool, a.cfg.DB.LockTimeout), postgres.NewRepositories(pool), nil
}
