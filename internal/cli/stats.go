package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command summarizing catalog, orders,
// inventory and recent analytics.
func NewStatsCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show store-wide statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp()
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()

			products := app.Products.Stats()
			fmt.Fprintf(out, "catalog:   %d products in %d categories, avg price %s, %d out of stock\n",
				products.TotalProducts, products.CategoriesCount,
				products.AveragePrice.String(), products.OutOfStockCount)

			orders := app.Orders.Stats()
			fmt.Fprintf(out, "orders:    %d total (%d pending, %d completed), revenue %s, avg %s\n",
				orders.TotalOrders, orders.PendingOrders, orders.CompletedOrders,
				orders.TotalRevenue.String(), orders.AverageOrderValue.String())

			inventory := app.Inventory.Stats()
			fmt.Fprintf(out, "inventory: %d products, %d units (%d reserved), %d low, %d out\n",
				inventory.TotalProducts, inventory.TotalUnits, inventory.TotalReserved,
				inventory.LowStockCount, inventory.OutOfStock)

			dashboard := app.Analytics.Dashboard(days)
			fmt.Fprintf(out, "analytics: %d events from %d sessions in the last %d days\n",
				dashboard.TotalEvents, dashboard.UniqueSessions, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "analytics window in days")
	return cmd
}
