package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/testutil"
	"task-tracker/pkg/taskclient"
	"task-tracker/pkg/taskstore"
)

type cli struct {
	t     *testing.T
	token string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	stack := testutil.NewStack(t)

	orig := newAPI
	newAPI = func(baseURL, token string, _ time.Duration) taskstore.API {
		return taskclient.New(baseURL,
			taskclient.WithToken(token),
			taskclient.WithHTTPClient(testutil.FiberDoer{App: stack.App}),
		)
	}
	t.Cleanup(func() { newAPI = orig })

	return &cli{t: t, token: testutil.Token(t, "alice")}
}

func (c *cli) run(args ...string) (string, string, error) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--api-url", "http://task-tracker.test", "--token", c.token}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, _, err := c.run(args...)
	require.NoError(c.t, err, args)
	return out
}

func TestCLI_AddAndList(t *testing.T) {
	c := newCLI(t)

	assert.Equal(t, "1\n", c.mustRun("add", "Buy", "milk", "--project", "Home"))
	assert.Equal(t, "2\n", c.mustRun("add", "Write report", "--priority", "high", "--project", "Work", "--due", "2026-11-02"))

	out := c.mustRun("list")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2026-11-02")
	assert.Contains(t, out, "Buy milk")
	assert.Less(t, bytes.Index([]byte(out), []byte("Write report")), bytes.Index([]byte(out), []byte("Buy milk")))
	assert.Contains(t, out, "2 total, 0 completed, 0 in progress")

	out = c.mustRun("list", "--project", "Home")
	assert.NotContains(t, out, "Write report")
	assert.Contains(t, out, "1 total")

	assert.Equal(t, "Work\nHome\n", c.mustRun("projects"))
}

func TestCLI_AddRejected(t *testing.T) {
	c := newCLI(t)

	_, stderr, err := c.run("add", "x", "--priority", "urgent")
	require.Error(t, err)

	var apiErr *taskclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "priority", apiErr.Field)
	assert.Contains(t, stderr, "Creation Failed")
}

func TestCLI_EditAndToggle(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "Plan trip", "--due", "2026-12-01", "--project", "Travel")

	out := c.mustRun("edit", "1", "--status", "in_progress", "--clear", "due")
	assert.Contains(t, out, "in_progress")
	assert.NotContains(t, out, "2026-12-01")
	assert.Contains(t, out, "Travel")

	assert.Contains(t, c.mustRun("toggle", "1"), "completed")
	assert.Contains(t, c.mustRun("toggle", "1"), "pending")

	_, _, err := c.run("edit", "1", "--clear", "title")
	assert.ErrorContains(t, err, "cannot clear")

	_, _, err = c.run("toggle", "abc")
	assert.ErrorContains(t, err, "invalid task id")

	_, _, err = c.run("toggle", "99")
	assert.ErrorIs(t, err, taskstore.ErrUnknownTask)
}

func TestCLI_RemoveAndClearCompleted(t *testing.T) {
	c := newCLI(t)
	c.mustRun("add", "one")
	c.mustRun("add", "two")
	c.mustRun("add", "three")
	c.mustRun("toggle", "1")
	c.mustRun("toggle", "2")

	c.mustRun("rm", "3")

	_, _, err := c.run("clear-completed")
	assert.ErrorContains(t, err, "--yes")

	assert.Equal(t, "cleared: 2 of 2 deleted\n", c.mustRun("clear-completed", "--yes"))
	assert.Contains(t, c.mustRun("list"), "0 total")

	assert.Equal(t, "noop: 0 of 0 deleted\n", c.mustRun("clear-completed"))
}

func TestCLI_RequiresToken(t *testing.T) {
	t.Setenv("TASKS_TOKEN", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"list"})

	assert.ErrorContains(t, root.Execute(), "missing token")
}
