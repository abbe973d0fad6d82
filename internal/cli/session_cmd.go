package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/renzoku/internal/cli/formatter"
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run timed execution sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionPauseCmd(app),
		newSessionResumeCmd(app),
		newSessionStopCmd(app),
		newSessionCleanupCmd(app),
		newSessionStatusCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var kindFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "start ITEM_ID",
		Short: "Start a session for a habit or task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			itemID := args[0]
			kind := domain.ExecutionKind(kindFlag)

			state, err := app.Sessions.Start(ctx, app.UserID, itemID, kind, app.Device)
			if domain.IsDeviceConflict(err) {
				state, err = retryAfterConflict(ctx, app, itemID, kind, err, force)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Started %s session for %s on %s\n",
				kindFlag, itemID, formatter.DeviceBadge(state.DeviceType))
			return nil
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "habit", "Item kind: habit or task")
	cmd.Flags().BoolVar(&force, "force", false, "Take over a session held by another device without asking")

	return cmd
}

// retryAfterConflict resolves a device conflict: forced or confirmed
// takeovers release the slot and retry the start exactly once.
func retryAfterConflict(ctx context.Context, app *App, itemID string, kind domain.ExecutionKind, conflict error, force bool) (*domain.ActiveSession, error) {
	owner, _ := domain.ConflictDevice(conflict)

	if !force {
		if !app.interactive() {
			return nil, conflict
		}
		ok, err := confirmTakeover(owner)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, conflict
		}
	}

	if err := app.Sessions.ForceCleanup(ctx, app.UserID, itemID); err != nil {
		return nil, err
	}
	return app.Sessions.Start(ctx, app.UserID, itemID, kind, app.Device)
}

func newSessionPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause ITEM_ID",
		Short: "Pause the running session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := app.Sessions.Pause(context.Background(), app.UserID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Paused at %s\n", formatter.FormatDuration(state.Accumulated))
			return nil
		},
	}
}

func newSessionResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ITEM_ID",
		Short: "Resume a paused session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := app.Sessions.Resume(context.Background(), app.UserID, args[0], app.Device)
			if err != nil {
				return err
			}
			fmt.Printf("Resumed with %s on the clock\n", formatter.FormatDuration(state.Accumulated))
			return nil
		},
	}
}

func newSessionStopCmd(app *App) *cobra.Command {
	var abandon bool

	cmd := &cobra.Command{
		Use:   "stop ITEM_ID",
		Short: "Stop the session and record it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Sessions.Stop(context.Background(), app.UserID, args[0], !abandon)
			if err != nil {
				return err
			}
			if result.IsCompleted {
				fmt.Printf("Completed: %s logged (%s)\n",
					formatter.FormatDuration(result.Duration), formatter.TruncID(result.LogID))
			} else {
				fmt.Printf("Abandoned after %s; nothing counted\n",
					formatter.FormatDuration(result.Duration))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&abandon, "abandon", false, "Record the session without counting it as completed")

	return cmd
}

func newSessionCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup ITEM_ID",
		Short: "Force-release the session slot regardless of owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.ForceCleanup(context.Background(), app.UserID, args[0]); err != nil {
				return err
			}
			fmt.Printf("Released session slot for %s\n", args[0])
			return nil
		},
	}
}

func newSessionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show all active sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.ListActive(context.Background(), app.UserID)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No active sessions.")
				return nil
			}

			now := time.Now().UTC()
			headers := []string{"ITEM", "KIND", "STATUS", "DEVICE", "ELAPSED", "STARTED"}
			rows := make([][]string, 0, len(sessions))
			for _, s := range sessions {
				rows = append(rows, []string{
					formatter.TruncID(s.ItemID),
					formatter.KindBadge(s.Kind),
					formatter.SessionPill(s.Status()),
					formatter.DeviceBadge(s.DeviceType),
					formatter.FormatDuration(s.TotalDuration(now)),
					formatter.HumanTimestamp(s.StartedAt),
				})
			}

			fmt.Print(formatter.RenderBox("Active Sessions", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}
