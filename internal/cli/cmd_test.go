package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/kanban/internal/domain"
	"github.com/alexanderramin/kanban/internal/repository"
	"github.com/alexanderramin/kanban/internal/service"
	"github.com/alexanderramin/kanban/internal/store"
	"github.com/alexanderramin/kanban/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// testApp wires a full App backed by an in-memory DB and a fixed clock.
func testApp(t *testing.T, opts ...service.BoardOption) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := testutil.FixedClock(testutil.TestNow)

	st := store.New(repository.NewSQLiteBlobRepo(database),
		store.WithClock(clock),
		store.WithLocation(time.UTC),
		store.WithLogger(zerolog.Nop()),
		store.WithUnitOfWork(testutil.NewTestUoW(database)),
	)
	base := []service.BoardOption{service.WithClock(clock), service.WithLocation(time.UTC)}
	svc := service.NewBoardService(st, append(base, opts...)...)
	_, err := svc.Reload(context.Background())
	require.NoError(t, err)

	return &App{Board: svc, Loc: time.UTC, Now: clock, CorruptKey: st.CorruptKey()}
}

// seedTask creates a task and advances it to stage.
func seedTask(t *testing.T, app *App, title string, stage domain.Stage) *domain.Task {
	t.Helper()
	ctx := context.Background()
	task, err := app.Board.CreateTask(ctx, service.CreateTaskInput{Title: title, DeadlineRaw: testutil.FutureDeadline})
	require.NoError(t, err)
	for task.Status != stage {
		task, err = app.Board.Advance(ctx, task.ID)
		require.NoError(t, err)
	}
	return task
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

// --- add ---

func TestAddCmd_WithFlags(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "add", "--title", "Write report", "-d", "quarterly", "--deadline", "2025-06-30T18:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "30.06.2025, 18:00:00")

	b := app.Board.Snapshot()
	require.Len(t, b.Todo, 1)
	assert.Equal(t, "quarterly", b.Todo[0].Description)
}

func TestAddCmd_PositionalTitle(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "Quick one", "--deadline", "2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, "Quick one", app.Board.Snapshot().Todo[0].Title)
}

func TestAddCmd_MissingFieldsNonInteractive(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "add", "No deadline")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "add", "Bad deadline", "--deadline", "next week")
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Zero(t, app.Board.Snapshot().Len())
}

// --- board ---

func TestBoardCmd_Columns(t *testing.T) {
	app := testApp(t)
	seedTask(t, app, "Plan", domain.StageTodo)
	seedTask(t, app, "Verify", domain.StageTesting)

	out, err := executeCmd(t, app, "board", "--width", "120")
	require.NoError(t, err)
	assert.Contains(t, out, "TO DO (1)")
	assert.Contains(t, out, "TESTING (1)")
	assert.Contains(t, out, "DONE (0)")
	assert.Contains(t, out, "Verify")
	assert.Contains(t, out, "0/2 done")
}

func TestRootCmd_NoArgsShowsBoard(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "IN PROGRESS (0)")
}

func TestBoardCmd_ListAndStageFilter(t *testing.T) {
	app := testApp(t)
	seedTask(t, app, "Plan", domain.StageTodo)
	seedTask(t, app, "Build", domain.StageInProgress)

	out, err := executeCmd(t, app, "ls", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "Build")

	out, err = executeCmd(t, app, "ls", "--list", "--stage", "inProgress")
	require.NoError(t, err)
	assert.Contains(t, out, "Build")
	assert.NotContains(t, out, "Plan")

	_, err = executeCmd(t, app, "ls", "--stage", "backlog")
	assert.ErrorContains(t, err, "unknown stage")
}

func TestBoardCmd_WarnsAboutFallback(t *testing.T) {
	app := testApp(t)
	app.LoadReport = store.LoadReport{FellBack: true, Cause: errors.New("invalid character")}
	app.LoadReport.Dropped = []string{"archive"}

	out, err := executeCmd(t, app, "board")
	require.NoError(t, err)
	assert.Contains(t, out, "warning: saved board could not be read")
	assert.Contains(t, out, `"kanban:corrupt"`)
	assert.Contains(t, out, `unknown column "archive"`)
}

// --- advance / return ---

func TestAdvanceCmd_Pipeline(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Ship", domain.StageTodo)

	out, err := executeCmd(t, app, "advance", task.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")

	_, err = executeCmd(t, app, "next", task.ID)
	require.NoError(t, err)
	out, err = executeCmd(t, app, "next", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, "on time")

	_, err = executeCmd(t, app, "advance", task.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Contains(t, err.Error(), "terminal")
}

func TestReturnCmd(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Feature", domain.StageTesting)

	out, err := executeCmd(t, app, "return", task.ID, "fails", "on", "staging")
	require.NoError(t, err)
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "fails on staging")

	got, err := app.Board.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "fails on staging", got.ReturnReasonText())
}

func TestReturnCmd_Rejections(t *testing.T) {
	app := testApp(t)
	underTest := seedTask(t, app, "Under test", domain.StageTesting)
	todo := seedTask(t, app, "Not started", domain.StageTodo)

	_, err := executeCmd(t, app, "return", underTest.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "return", todo.ID, "-r", "why")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	got, err := app.Board.Task(underTest.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageTesting, got.Status)
}

// --- edit / rm / show ---

func TestEditCmd(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Draft", domain.StageInProgress)

	out, err := executeCmd(t, app, "edit", task.ID, "--title", "Final", "--deadline", "2025-07-01T08:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated")

	got, err := app.Board.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "01.07.2025, 08:00:00", got.Deadline)
}

func TestEditCmd_Errors(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Draft", domain.StageTodo)
	done := seedTask(t, app, "Shipped", domain.StageDone)

	_, err := executeCmd(t, app, "edit", task.ID)
	assert.ErrorContains(t, err, "nothing to edit")

	_, err = executeCmd(t, app, "edit", task.ID, "--deadline", "someday")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = executeCmd(t, app, "edit", done.ID, "--title", "Again")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	got, err := app.Board.Task(done.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", got.Title)
}

func TestRemoveCmd(t *testing.T) {
	app := testApp(t)
	todo := seedTask(t, app, "Drop me", domain.StageTodo)
	busy := seedTask(t, app, "Busy", domain.StageInProgress)

	_, err := executeCmd(t, app, "rm", busy.ID)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	out, err := executeCmd(t, app, "rm", todo.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted")

	_, err = app.Board.Task(todo.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowCmd(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Inspect me", domain.StageTesting)

	out, err := executeCmd(t, app, "show", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "INSPECT ME")
	assert.Contains(t, out, "Testing")
	assert.Contains(t, out, "actions: edit, advance, return")
}

func TestResolveTaskID(t *testing.T) {
	ids := []string{"abc-111", "abc-222", "xyz-333"}
	i := 0
	app := testApp(t, service.WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))
	for range ids {
		seedTask(t, app, "t", domain.StageTodo)
	}

	id, err := resolveTaskID(app, "xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz-333", id)

	id, err = resolveTaskID(app, "abc-111")
	require.NoError(t, err)
	assert.Equal(t, "abc-111", id)

	_, err = resolveTaskID(app, "abc")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveTaskID(app, "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = executeCmd(t, app, "show", "nope")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

// --- export / import ---

func TestExportCmd_JSON(t *testing.T) {
	app := testApp(t)
	seedTask(t, app, "Plan", domain.StageTodo)
	seedTask(t, app, "Ship", domain.StageDone)

	out, err := executeCmd(t, app, "export")
	require.NoError(t, err)

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc, 4)
	assert.Len(t, doc["todo"], 1)
	require.Len(t, doc["done"], 1)
	assert.Equal(t, true, doc["done"][0]["inDeadline"])
}

func TestExportCmd_YAMLToFile(t *testing.T) {
	app := testApp(t)
	seedTask(t, app, "Plan", domain.StageTodo)
	path := filepath.Join(t.TempDir(), "board.yaml")

	_, err := executeCmd(t, app, "export", "-f", "yaml", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "todo:")
	assert.Contains(t, string(data), "inProgress: []")
	assert.Contains(t, string(data), "title: Plan")
	assert.Contains(t, string(data), "returnReason: null")

	_, err = executeCmd(t, app, "export", "-f", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestImportCmd_RoundTripsExport(t *testing.T) {
	source := testApp(t)
	seedTask(t, source, "Plan", domain.StageTodo)
	seedTask(t, source, "Verify", domain.StageTesting)
	exported, err := executeCmd(t, source, "export")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(exported), 0o644))

	target := testApp(t)
	seedTask(t, target, "Old", domain.StageTodo)

	out, err := executeCmd(t, target, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")
	want, err := store.Encode(source.Board.Snapshot())
	require.NoError(t, err)
	got, err := store.Encode(target.Board.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
}

func TestImportCmd_RejectsInvalid(t *testing.T) {
	app := testApp(t)
	seedTask(t, app, "Keep", domain.StageTodo)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"todo": 5}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	require.Error(t, err)

	_, err = executeCmd(t, app, "import", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	assert.Equal(t, 1, app.Board.Snapshot().Len())
}

func TestRestoreCmd_UndoesImport(t *testing.T) {
	app := testApp(t)
	kept := seedTask(t, app, "Before import", domain.StageInProgress)
	path := filepath.Join(t.TempDir(), "board.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"todo":[{"id":"x1","title":"Imported"}]}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "restore")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 tasks from backup")

	b := app.Board.Snapshot()
	require.Len(t, b.InProgress, 1)
	assert.Equal(t, kept.ID, b.InProgress[0].ID)

	_, err = executeCmd(t, app, "restore")
	assert.ErrorIs(t, err, store.ErrNoBackup)
}
