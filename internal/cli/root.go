package cli

import (
	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands,
// plus the identity every operation is scoped to.
type App struct {
	Sessions service.SessionService
	Habits   service.HabitService
	Tasks    service.TaskService
	Stats    service.StatsService

	UserID string
	Device domain.DeviceType

	// IsInteractive gates confirmation prompts; non-interactive runs fail
	// conflicts instead of asking.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "renzoku" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "renzoku",
		Short: "Execution session timer and streak tracker",
	}

	root.AddCommand(
		newSessionCmd(app),
		newHabitCmd(app),
		newTaskCmd(app),
		newLogsCmd(app),
		newStatsCmd(app),
	)

	return root
}
