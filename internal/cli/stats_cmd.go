package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/renzoku/internal/cli/formatter"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show and rebuild aggregate statistics",
	}

	cmd.AddCommand(
		newStatsShowCmd(app),
		newStatsRecomputeCmd(app),
	)

	return cmd
}

func newStatsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show per-item totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			habits, err := app.Habits.ListHabits(ctx, app.UserID, false)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListTasks(ctx, app.UserID, true)
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "KIND", "TODAY", "ALL TIME", "SESSIONS"}
			rows := make([][]string, 0, len(habits)+len(tasks))
			for _, h := range habits {
				rows = append(rows, []string{
					formatter.TruncID(h.ID),
					h.Name,
					formatter.KindBadge(domain.KindHabit),
					formatter.FormatDuration(h.TodayTotal),
					formatter.FormatDuration(h.AllTimeTotal),
					fmt.Sprintf("%d", h.ExecutionCount),
				})
			}
			for _, task := range tasks {
				rows = append(rows, []string{
					formatter.TruncID(task.ID),
					task.Name,
					formatter.KindBadge(domain.KindTask),
					formatter.FormatDuration(task.TodayTotal),
					formatter.FormatDuration(task.AllTimeTotal),
					fmt.Sprintf("%d", task.ExecutionCount),
				})
			}
			if len(rows) == 0 {
				fmt.Println("Nothing tracked yet.")
				return nil
			}

			fmt.Print(formatter.RenderBox("Statistics", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newStatsRecomputeCmd(app *App) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "recompute ITEM_ID",
		Short: "Rebuild an item's cached totals from its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.Stats.Recompute(context.Background(), app.UserID, args[0], domain.ExecutionKind(kindFlag))
			if err != nil {
				return err
			}
			fmt.Printf("Rebuilt statistics for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "habit", "Item kind: habit or task")

	return cmd
}
