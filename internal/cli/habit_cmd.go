package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/renzoku/internal/cli/formatter"
	"github.com/alexanderramin/renzoku/internal/service"
	"github.com/alexanderramin/renzoku/internal/timeutil"
	"github.com/spf13/cobra"
)

func newHabitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits and daily completions",
	}

	cmd.AddCommand(
		newHabitAddCmd(app),
		newHabitListCmd(app),
		newHabitCompleteCmd(app),
		newHabitToggleCmd(app),
		newHabitStreakCmd(app),
		newHabitArchiveCmd(app),
	)

	return cmd
}

func newHabitAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			habit, err := app.Habits.AddHabit(context.Background(), app.UserID, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Added habit %s (%s)\n", habit.Name, formatter.TruncID(habit.ID))
			return nil
		},
	}
}

func newHabitListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with today's completion and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			today := timeutil.Today()

			list, err := app.Habits.GetHabitsWithCompletionForDate(ctx, app.UserID, today)
			if err != nil {
				return err
			}
			if all {
				// The completion view hides archived habits; fall back to
				// the raw list for those.
				habits, err := app.Habits.ListHabits(ctx, app.UserID, true)
				if err != nil {
					return err
				}
				byID := make(map[string]service.HabitWithCompletion, len(list))
				for _, hc := range list {
					byID[hc.Habit.ID] = hc
				}
				list = list[:0]
				for _, h := range habits {
					if hc, ok := byID[h.ID]; ok {
						list = append(list, hc)
					} else {
						list = append(list, service.HabitWithCompletion{Habit: h})
					}
				}
			}
			if len(list) == 0 {
				fmt.Println("No habits yet.")
				return nil
			}

			headers := []string{"ID", "NAME", "TODAY", "STREAK", "BEST", "TOTAL"}
			rows := make([][]string, 0, len(list))
			for _, hc := range list {
				h := hc.Habit
				display, err := app.Habits.GetDisplayStreak(ctx, app.UserID, h.ID)
				if err != nil {
					return err
				}
				name := h.Name
				if h.ArchivedAt != nil {
					name = formatter.Dim(name + " (archived)")
				}
				rows = append(rows, []string{
					formatter.TruncID(h.ID),
					name,
					formatter.CompletionMark(hc.IsCompleted),
					formatter.Streak(display),
					fmt.Sprintf("%d", h.LongestStreak),
					formatter.FormatDuration(h.AllTimeTotal),
				})
			}

			fmt.Print(formatter.RenderBox("Habits", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived habits")

	return cmd
}

func newHabitCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete HABIT_ID",
		Short: "Mark the habit complete for today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.Habits.CompleteHabit(context.Background(), app.UserID, args[0])
			return reportToggle(res, "Marked complete for today")
		},
	}
}

func newHabitToggleCmd(app *App) *cobra.Command {
	var dateFlag string
	var undo bool

	cmd := &cobra.Command{
		Use:   "toggle HABIT_ID",
		Short: "Mark or unmark a completion date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date *timeutil.Day
			if dateFlag != "" {
				d, err := timeutil.ParseDay(dateFlag)
				if err != nil {
					return err
				}
				date = &d
			}

			res := app.Habits.ToggleHabitCompletion(context.Background(), app.UserID, args[0], !undo, date)
			verb := "Marked"
			if undo {
				verb = "Unmarked"
			}
			return reportToggle(res, verb+" completion")
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Completion date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&undo, "undo", false, "Remove the completion instead of adding it")

	return cmd
}

func reportToggle(res service.ToggleResult, okMsg string) error {
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	if res.Error != "" {
		// Benign duplicate: report, exit zero.
		fmt.Println(formatter.Dim(res.Message))
		return nil
	}
	fmt.Println(okMsg)
	return nil
}

func newHabitStreakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "streak HABIT_ID",
		Short: "Show the habit's current streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display, err := app.Habits.GetDisplayStreak(context.Background(), app.UserID, args[0])
			if err != nil {
				return err
			}
			fmt.Println(formatter.Streak(display))
			return nil
		},
	}
}

func newHabitArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive HABIT_ID",
		Short: "Archive a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Habits.ArchiveHabit(context.Background(), app.UserID, args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived habit %s\n", args[0])
			return nil
		},
	}
}
