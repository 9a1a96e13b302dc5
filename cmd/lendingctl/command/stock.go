package command

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Stock and reservation queue commands",
}

var showStockCmd = &cobra.Command{
	Use:   "show [stock_id]",
	Short: "Show the state of a stock and its reservation queue",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "stock id")
		if err != nil {
			return err
		}

		stock, err := a.stocks.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get stock %d: %w", id, err)
		}

		fmt.Printf("Stock %d: %q\n", stock.ID, stock.Title())
		if stock.Library != nil {
			fmt.Printf("Library: %s\n", stock.Library.Name)
		}
		fmt.Printf("State: %s\n", stock.State())
		if stock.Lending != nil {
			printLending("lending", stock.Lending)
		}
		if stock.Holding != nil {
			printHolding("holding", stock.Holding)
		}
		fmt.Println(strings.Repeat("-", 50))

		if !stock.IsReserved() {
			fmt.Println("No reservations.")
			return nil
		}
		fmt.Printf("%d reservations:\n", len(stock.Reservations))
		for i, r := range stock.Reservations {
			fmt.Printf("  %d. #%d  user %s  since %s\n", i+1, r.ID, r.UserID, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}),
}

var reserveCmd = &cobra.Command{
	Use:   "reserve [stock_id] [user_id]",
	Short: "Queue a user for a lent or held stock",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		stockID, err := parseID(args[0], "stock id")
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		reservation, err := a.reservations.Reserve(ctx, stockID, args[1])
		if err != nil {
			return fmt.Errorf("failed to reserve stock %d: %w", stockID, err)
		}
		order, err := a.reservations.Order(ctx, reservation)
		if err != nil {
			return fmt.Errorf("failed to get queue position: %w", err)
		}
		color.Green("✅ Reservation %d created, position %d in the queue", reservation.ID, order)
		return nil
	}),
}

var unreserveCmd = &cobra.Command{
	Use:   "unreserve [reservation_id]",
	Short: "Remove a reservation from its queue",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "reservation id")
		if err != nil {
			return err
		}

		if err := a.reservations.Cancel(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to cancel reservation %d: %w", id, err)
		}
		color.Green("✅ Reservation %d cancelled", id)
		return nil
	}),
}

func init() {
	stockCmd.AddCommand(showStockCmd)
	stockCmd.AddCommand(reserveCmd)
	stockCmd.AddCommand(unreserveCmd)
	rootCmd.AddCommand(stockCmd)
}
