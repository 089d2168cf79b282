package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Taller-api/internal/application/inventory"
)

func newAlertsCmd(a *app) *cobra.Command {
	var sortBy, order string
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Lista los repuestos en o bajo su stock mínimo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			txRunner, repos, err := a.repos(ctx)
			if err != nil {
				return err
			}
			uc := inventory.NewQueryUseCase(repos, txRunner, inventory.NewAlertMaintainer())
			list, err := uc.ListAlerts(ctx, sortBy, order)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PARTE\tNOMBRE\tUBICACIÓN\tSTOCK\tMÍNIMO\tLEÍDA")
			for _, v := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%t\n",
					v.PartNumber, v.PartName, v.RackLocation, v.CurrentStock, v.MinimalStock, v.IsRead)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "part_name", "part_name | part_number | rack_location | current_stock | minimal_stock")
	cmd.Flags().StringVar(&order, "order", "asc", "asc | desc")
	return cmd
}
