package command

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var holdingCmd = &cobra.Command{
	Use:   "holding",
	Short: "Holding commands",
	Long:  `Place, fulfill and cancel holdings, and sweep the expired ones`,
}

var placeHoldingCmd = &cobra.Command{
	Use:   "place [stock_id] [user_id]",
	Short: "Hold an available stock for a user",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		stockID, err := parseID(args[0], "stock id")
		if err != nil {
			return err
		}

		holding, err := a.holds.Place(cmd.Context(), stockID, args[1])
		if holding == nil {
			return fmt.Errorf("failed to hold stock %d: %w", stockID, err)
		}
		color.Green("✅ Stock %d held", stockID)
		printHolding("holding", holding)
		warnNotification(err)
		return nil
	}),
}

var fulfillCmd = &cobra.Command{
	Use:   "fulfill [holding_id]",
	Short: "Lend the held stock to its holder",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "holding id")
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		holding, err := a.holds.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get holding %d: %w", id, err)
		}
		lending, err := a.holds.Fulfill(ctx, holding)
		if err != nil {
			return fmt.Errorf("failed to fulfill holding %d: %w", id, err)
		}
		color.Green("✅ Holding %d fulfilled", id)
		printLending("lending", lending)
		return nil
	}),
}

var cancelHoldingCmd = &cobra.Command{
	Use:   "cancel [holding_id]",
	Short: "Cancel a holding",
	Long:  `Cancel the holding and pass the stock on to the next reservation, if any`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "holding id")
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		holding, err := a.holds.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get holding %d: %w", id, err)
		}
		next, err := a.holds.Cancel(ctx, holding)
		if err != nil && next == nil {
			return fmt.Errorf("failed to cancel holding %d: %w", id, err)
		}
		color.Green("✅ Holding %d cancelled", id)
		printHolding("held for next reservation", next)
		warnNotification(err)
		return nil
	}),
}

var fromQueueCmd = &cobra.Command{
	Use:   "from-queue [stock_id]",
	Short: "Hold an available stock for its oldest reservation",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		stockID, err := parseID(args[0], "stock id")
		if err != nil {
			return err
		}

		holding, err := a.holds.CreateFromFirstReservation(cmd.Context(), stockID)
		if holding == nil && err != nil {
			return fmt.Errorf("failed to hold stock %d: %w", stockID, err)
		}
		if holding == nil {
			fmt.Printf("Nobody is waiting for stock %d.\n", stockID)
			return nil
		}
		printHolding("holding", holding)
		warnNotification(err)
		return nil
	}),
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Cancel every holding that expired before today",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		expired, err := a.holds.ExpireOverdue(cmd.Context())
		color.Green("✅ %d expired holdings cancelled", expired)
		if err != nil {
			return fmt.Errorf("some holdings could not be expired: %w", err)
		}
		return nil
	}),
}

func init() {
	holdingCmd.AddCommand(placeHoldingCmd)
	holdingCmd.AddCommand(fulfillCmd)
	holdingCmd.AddCommand(cancelHoldingCmd)
	holdingCmd.AddCommand(fromQueueCmd)
	holdingCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(holdingCmd)
}
