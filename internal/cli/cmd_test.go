package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/alexanderramin/renzoku/internal/domain"
	"github.com/alexanderramin/renzoku/internal/repository"
	"github.com/alexanderramin/renzoku/internal/service"
	"github.com/alexanderramin/renzoku/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. Prompts are disabled; conflict takeover goes through --force.
func testApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	sessionRepo := repository.NewSQLiteActiveSessionRepo(database)
	logRepo := repository.NewSQLiteExecutionLogRepo(database)
	habitRepo := repository.NewSQLiteHabitRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	completionRepo := repository.NewSQLiteCompletionRepo(database)
	uow := testutil.NewTestUoW(database)

	return &App{
		Sessions: service.NewSessionService(sessionRepo, habitRepo, taskRepo, logRepo, uow),
		Habits:   service.NewHabitService(habitRepo, completionRepo, uow),
		Tasks:    service.NewTaskService(taskRepo),
		Stats:    service.NewStatsService(uow),

		UserID:        testutil.TestUser,
		Device:        domain.DeviceDesktop,
		IsInteractive: func() bool { return false },
	}
}

func seedHabit(t *testing.T, app *App) string {
	t.Helper()
	habit, err := app.Habits.AddHabit(context.Background(), app.UserID, "Reading")
	require.NoError(t, err)
	return habit.ID
}

// executeCmd runs a cobra command and captures cobra's own output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSessionCmd_StartStopFlow(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "session", "start", habitID)
	require.NoError(t, err)

	current, err := app.Sessions.Current(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionRunning, current.Status())

	_, err = executeCmd(t, app, "session", "stop", habitID)
	require.NoError(t, err)

	entries, err := app.Sessions.History(ctx, app.UserID, habitID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsCompleted)
}

func TestSessionCmd_StopAbandonDoesNotComplete(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "session", "start", habitID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "session", "stop", habitID, "--abandon")
	require.NoError(t, err)

	entries, err := app.Sessions.History(ctx, app.UserID, habitID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsCompleted)
}

func TestSessionCmd_ConflictNonInteractive(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	// Another device already owns the slot.
	_, err := app.Sessions.Start(ctx, app.UserID, habitID, domain.KindHabit, domain.DeviceMobile)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "session", "start", habitID)
	require.Error(t, err)
	assert.True(t, domain.IsDeviceConflict(err))

	// The mobile session is still intact.
	current, err := app.Sessions.Current(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceMobile, current.DeviceType)
}

func TestSessionCmd_ForceTakesOver(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	_, err := app.Sessions.Start(ctx, app.UserID, habitID, domain.KindHabit, domain.DeviceMobile)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "session", "start", habitID, "--force")
	require.NoError(t, err)

	current, err := app.Sessions.Current(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Equal(t, domain.DeviceDesktop, current.DeviceType)
}

func TestSessionCmd_StartUnknownKind(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)

	_, err := executeCmd(t, app, "session", "start", habitID, "--kind", "chore")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidState, domain.CodeOf(err))
}

func TestHabitCmd_ToggleUpdatesStreak(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "habit", "complete", habitID)
	require.NoError(t, err)

	display, err := app.Habits.GetDisplayStreak(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Equal(t, 1, display)

	// Duplicate completion exits zero.
	_, err = executeCmd(t, app, "habit", "complete", habitID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "habit", "toggle", habitID, "--undo")
	require.NoError(t, err)

	display, err = app.Habits.GetDisplayStreak(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Zero(t, display)
}

func TestHabitCmd_ToggleBadDate(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)

	_, err := executeCmd(t, app, "habit", "toggle", habitID, "--date", "not-a-date")
	require.Error(t, err)
}

func TestTaskCmd_AddAndRemove(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()

	task, err := app.Tasks.AddTask(ctx, app.UserID, "Ship release")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "task", "remove", task.ID)
	require.NoError(t, err)

	tasks, err := app.Tasks.ListTasks(ctx, app.UserID, true)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestLogsCmd_ResetAll(t *testing.T) {
	app := testApp(t)
	habitID := seedHabit(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "session", "start", habitID)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "session", "stop", habitID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "logs", "reset", habitID, "--scope", "all")
	require.NoError(t, err)

	entries, err := app.Sessions.History(ctx, app.UserID, habitID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	habits, err := app.Habits.ListHabits(ctx, app.UserID, false)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Zero(t, habits[0].AllTimeTotal)
	assert.Zero(t, habits[0].ExecutionCount)
}

func TestStatsCmd_RecomputeUnknownKind(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "stats", "recompute", "some-id", "--kind", "chore")
	require.Error(t, err)
	assert.Equal(t, domain.ErrCodeInvalidState, domain.CodeOf(err))
}
