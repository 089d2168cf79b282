package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
)

func newReconcileCmd(a *app) *cobra.Command {
	var partID string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Verifica stock, lotes, kardex y asignaciones (solo lectura)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if partID != "" {
				if _, err := uuid.Parse(partID); err != nil {
					return fmt.Errorf("--part %q no es un UUID: %w", partID, err)
				}
			}
			ctx := cmd.Context()
			txRunner, repos, err := a.repos(ctx)
			if err != nil {
				return err
			}
			uc := inventory.NewReconciliationUseCase(txRunner, repos, a.log)
			out := cmd.OutOrStdout()

			if partID != "" {
				r, err := uc.CheckPart(ctx, partID)
				if err != nil {
					return err
				}
				printReport(cmd, r)
				if !r.OK() {
					return fmt.Errorf("repuesto %s con diferencias", partID)
				}
				return nil
			}

			checked, failing, err := uc.CheckAll(ctx)
			for _, r := range failing {
				printReport(cmd, r)
			}
			fmt.Fprintf(out, "revisados: %d, con diferencias: %d\n", checked, len(failing))
			if err != nil {
				return err
			}
			if len(failing) > 0 {
				return fmt.Errorf("%d repuestos con diferencias", len(failing))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&partID, "part", "p", "", "ID del repuesto (vacío = todos)")
	return cmd
}

func printReport(cmd *cobra.Command, r *inventory.ReconciliationReport) {
	status := "OK"
	if !r.OK() {
		status = "DIFERENCIAS"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  stock=%d lotes=%d kardex=%d movimientos=%d\n",
		r.PartID, status, r.PartStock, r.BatchRemaining, r.LedgerStock, r.Movements)
	if len(r.Issues) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "    - %s\n", strings.Join(r.Issues, "\n    - "))
	}
}
