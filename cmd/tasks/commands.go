package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"task-tracker/domain/dto"
	"task-tracker/pkg/taskclient"
	"task-tracker/pkg/taskstore"
)

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return uint(id), nil
}

func listCmd(opts *globalOptions) *cobra.Command {
	var (
		filter taskstore.Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Long: `List tasks with optional filters. Counts are computed over the filtered set.

Examples:
  tasks list --status completed
  tasks list --query report --project Work`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}

			tasks := store.Filtered(filter)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}

			printTasks(cmd.OutOrStdout(), tasks)
			counts := taskstore.Summarize(tasks)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d total, %d completed, %d in progress\n", counts.Total, counts.Completed, counts.InProgress)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "search title, description and project")
	cmd.Flags().StringVarP(&filter.Status, "status", "s", taskstore.FilterAll, "pending, in_progress, completed or all")
	cmd.Flags().StringVarP(&filter.Priority, "priority", "p", taskstore.FilterAll, "low, medium, high or all")
	cmd.Flags().StringVar(&filter.Project, "project", taskstore.FilterAll, "exact project name or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func printTasks(w io.Writer, tasks []dto.TaskResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tPROJECT\tTITLE")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, orDash(t.DueDate), orDash(t.Project), t.Title)
	}
	_ = tw.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func projectsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List distinct projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			for _, p := range store.Projects() {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func addCmd(opts *globalOptions) *cobra.Command {
	var description, due, priority, project string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), cmd, opts, false)
			if err != nil {
				return err
			}

			in := taskclient.CreateInput{Title: strings.Join(args, " ")}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("due") {
				in.DueDate = &due
			}
			if cmd.Flags().Changed("priority") {
				in.Priority = &priority
			}
			if cmd.Flags().Changed("project") {
				in.Project = &project
			}

			task, err := store.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high (default medium)")
	cmd.Flags().StringVar(&project, "project", "", "project name")

	return cmd
}

func editCmd(opts *globalOptions) *cobra.Command {
	var title, description, due, priority, status, project string
	var clear []string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Long: `Change only the given fields. --clear takes description, due or project.

Examples:
  tasks edit 12 --status in_progress
  tasks edit 12 --title "Write final report" --clear due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			in := taskclient.UpdateInput{ID: id}
			flags := cmd.Flags()
			set := func(name string, value string, target *dto.Patch[string]) {
				if flags.Changed(name) {
					*target = dto.Value(value)
				}
			}
			set("title", title, &in.Title)
			set("description", description, &in.Description)
			set("due", due, &in.DueDate)
			set("priority", priority, &in.Priority)
			set("status", status, &in.Status)
			set("project", project, &in.Project)

			for _, field := range clear {
				switch field {
				case "description":
					in.Description = dto.Null[string]()
				case "due":
					in.DueDate = dto.Null[string]()
				case "project":
					in.Project = dto.Null[string]()
				default:
					return fmt.Errorf("cannot clear %q: only description, due and project are optional", field)
				}
			}

			store, err := openStore(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			task, err := store.Update(cmd.Context(), in)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []dto.TaskResponse{*task})
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium or high")
	cmd.Flags().StringVarP(&status, "status", "s", "", "pending, in_progress or completed")
	cmd.Flags().StringVar(&project, "project", "", "new project")
	cmd.Flags().StringSliceVar(&clear, "clear", nil, "fields to clear (description, due, project)")

	return cmd
}

func toggleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or reopen a completed one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}
			task, err := store.ToggleStatus(cmd.Context(), id)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), []dto.TaskResponse{*task})
			return nil
		},
	}
}

func rmCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := openStore(cmd.Context(), cmd, opts, false)
			if err != nil {
				return err
			}
			return store.Delete(cmd.Context(), id)
		},
	}
}

func clearCompletedCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), cmd, opts, true)
			if err != nil {
				return err
			}

			completed := store.Counts(taskstore.Filter{Status: "completed"}).Total
			if completed > 0 && !yes {
				return fmt.Errorf("this deletes %d completed task(s) and cannot be undone; rerun with --yes", completed)
			}

			result, err := store.ClearCompleted(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d of %d deleted\n", result.Outcome, len(result.Deleted), result.Requested)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")

	return cmd
}
