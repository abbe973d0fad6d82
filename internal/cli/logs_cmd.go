package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/renzoku/internal/cli/formatter"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/spf13/cobra"
)

func newLogsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and reset execution logs",
	}

	cmd.AddCommand(
		newLogsListCmd(app),
		newLogsResetCmd(app),
	)

	return cmd
}

func newLogsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list ITEM_ID",
		Short: "List the item's execution log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Sessions.History(context.Background(), app.UserID, args[0])
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No log entries.")
				return nil
			}

			headers := []string{"ID", "STARTED", "DURATION", "DEVICE", "COMPLETED"}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					formatter.TruncID(e.ID),
					formatter.HumanTimestamp(e.StartedAt),
					formatter.FormatDuration(e.Duration),
					formatter.DeviceBadge(e.DeviceType),
					formatter.CompletionMark(e.IsCompleted),
				})
			}

			fmt.Print(formatter.RenderBox("Execution Log", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newLogsResetCmd(app *App) *cobra.Command {
	var kindFlag, scopeFlag, dateFlag string

	cmd := &cobra.Command{
		Use:   "reset ITEM_ID",
		Short: "Delete log entries and rebuild the item's statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := timeutil.Today()
			if dateFlag != "" {
				d, err := timeutil.ParseDay(dateFlag)
				if err != nil {
					return err
				}
				date = d
			}

			deleted, err := app.Stats.ResetLogs(
				context.Background(),
				app.UserID,
				args[0],
				domain.ExecutionKind(kindFlag),
				domain.ResetScope(scopeFlag),
				date,
			)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d log entries; statistics rebuilt\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "habit", "Item kind: habit or task")
	cmd.Flags().StringVar(&scopeFlag, "scope", "today", "Reset scope: today or all")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Day to reset for scope=today (YYYY-MM-DD, default today)")

	return cmd
}
