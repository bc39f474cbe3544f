package main

import (
	"fmt"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/spf13/cobra"
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "List, add and toggle todos on the REST API",
}

var todosListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and print the todos of a filter",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("filter")
		filter, err := domain.ParseFilter(raw)
		if err != nil {
			return err
		}

		app, _ := newRemoteApp()
		defer app.Close()

		if _, err := app.Dispatch(cmd.Context(), app.FetchTodos(filter)); err != nil {
			return err
		}

		st := app.GetState()
		msg := tendril.ErrorMessage(st, filter)
		if err := printMarkdown(cmd, tui.TodosMarkdown(filter, tendril.VisibleTodos(st, filter), false, msg)); err != nil {
			return err
		}
		if msg != "" {
			return fmt.Errorf("fetch todos: %s", msg)
		}
		return nil
	},
}

var todosAddCmd = &cobra.Command{
	Use:   "add TEXT",
	Short: "Create a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, rec := newRemoteApp()
		defer app.Close()

		if _, err := app.Dispatch(cmd.Context(), app.AddTodo(args[0])); err != nil {
			return err
		}
		if err := rec.Err(); err != nil {
			return fmt.Errorf("add todo: %w", err)
		}

		for _, t := range tendril.VisibleTodos(app.GetState(), domain.FilterAll) {
			printf(cmd, "added #%s %s\n", t.ID, t.Text)
		}
		return nil
	},
}

var todosToggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip the completed flag of a todo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, rec := newRemoteApp()
		defer app.Close()

		if _, err := app.Dispatch(cmd.Context(), app.ToggleTodo(args[0])); err != nil {
			return err
		}
		if err := rec.Err(); err != nil {
			return fmt.Errorf("toggle todo: %w", err)
		}

		t := app.GetState().Todos.ByID[args[0]]
		printf(cmd, "#%s %s completed=%t\n", t.ID, t.Text, t.Completed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todosCmd)
	todosCmd.AddCommand(todosListCmd, todosAddCmd, todosToggleCmd)

	todosListCmd.Flags().StringP("filter", "f", string(domain.FilterAll), "Filter: all, active or completed")
	addPlainFlag(todosListCmd)
}
