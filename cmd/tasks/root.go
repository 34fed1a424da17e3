package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"task-tracker/pkg/taskclient"
	"task-tracker/pkg/taskstore"
)

// newAPI is swapped in tests to talk to an in-process server.
var newAPI = func(baseURL, token string, timeout time.Duration) taskstore.API {
	return taskclient.New(baseURL,
		taskclient.WithToken(token),
		taskclient.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

type globalOptions struct {
	apiURL  string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	// ไม่ error ถ้าไม่มี .env file
	_ = godotenv.Load()

	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "tasks",
		Short:         "Manage your tasks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", envOr("TASKS_API_URL", "http://localhost:8080"), "task API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("TASKS_TOKEN"), "bearer token (see cmd/token)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request timeout")

	root.AddCommand(
		listCmd(opts),
		projectsCmd(opts),
		addCmd(opts),
		editCmd(opts),
		toggleCmd(opts),
		rmCmd(opts),
		clearCompletedCmd(opts),
	)

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// openStore builds a store whose notices go to stderr. load fetches the
// current list first; commands that act on local state need it.
func openStore(ctx context.Context, cmd *cobra.Command, opts *globalOptions, load bool) (*taskstore.Store, error) {
	if opts.token == "" {
		return nil, fmt.Errorf("missing token: pass --token or set TASKS_TOKEN")
	}

	store := taskstore.New(newAPI(opts.apiURL, opts.token, opts.timeout), stderrNotifier(cmd.ErrOrStderr()))
	if load {
		if err := store.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func stderrNotifier(w io.Writer) taskstore.Notifier {
	return taskstore.NotifierFunc(func(n taskstore.Notice) {
		fmt.Fprintf(w, "[%s] %s %s\n", n.Level, n.Title, n.Message)
	})
}
