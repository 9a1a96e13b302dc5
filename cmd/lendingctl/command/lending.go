package command

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var lendingCmd = &cobra.Command{
	Use:   "lending",
	Short: "Lending commands",
	Long:  `Check out, return and renew lendings, and list the overdue ones`,
}

var lendCmd = &cobra.Command{
	Use:   "lend [stock_id] [user_id]",
	Short: "Lend an available stock to a user",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		stockID, err := parseID(args[0], "stock id")
		if err != nil {
			return err
		}

		lending, err := a.lendings.Lend(cmd.Context(), stockID, args[1])
		if err != nil {
			return fmt.Errorf("failed to lend stock %d: %w", stockID, err)
		}
		color.Green("✅ Stock %d lent", stockID)
		printLending("lending", lending)
		return nil
	}),
}

var returnCmd = &cobra.Command{
	Use:   "return [lending_id]",
	Short: "Return a lent stock",
	Long:  `Return the stock and hold it for the first user in its reservation queue, if any`,
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "lending id")
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		lending, err := a.lendings.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get lending %d: %w", id, err)
		}

		next, err := a.lendings.Return(ctx, lending)
		if err != nil && next == nil {
			return fmt.Errorf("failed to return lending %d: %w", id, err)
		}
		color.Green("✅ Lending %d returned", id)
		if next == nil {
			fmt.Println("Nobody is waiting, the stock is available.")
			return nil
		}
		printHolding("held for next reservation", next)
		warnNotification(err)
		return nil
	}),
}

var renewCmd = &cobra.Command{
	Use:   "renew [lending_id]",
	Short: "Renew a lending once",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		id, err := parseID(args[0], "lending id")
		if err != nil {
			return err
		}

		renewing, err := a.lendings.Renew(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to renew lending %d: %w", id, err)
		}
		color.Green("✅ Lending %d renewed, now due %s", id, renewing.DueDate.Format(dateLayout))
		return nil
	}),
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List lendings past their due date",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
		return listOverdue(cmd.Context(), a)
	}),
}

func listOverdue(ctx context.Context, a *app) error {
	lendings, err := a.lendings.ListOverdue(ctx)
	if err != nil {
		return fmt.Errorf("failed to list overdue lendings: %w", err)
	}
	if len(lendings) == 0 {
		fmt.Println("No overdue lendings.")
		return nil
	}

	fmt.Printf("Found %d overdue lendings:\n\n", len(lendings))
	for i := range lendings {
		printLending("overdue", &lendings[i])
	}
	return nil
}

func init() {
	lendingCmd.AddCommand(lendCmd)
	lendingCmd.AddCommand(returnCmd)
	lendingCmd.AddCommand(renewCmd)
	lendingCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(lendingCmd)
}
