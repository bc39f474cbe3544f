package main

import (
	"fmt"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/counter"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/spf13/cobra"
)

var counterCmd = &cobra.Command{
	Use:   "counter [inc|dec]...",
	Short: "Reduce a sequence of counter actions and print the result",
	Example: `  tendril counter inc inc dec
  tendril counter -v inc dec`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		out := cmd.OutOrStdout()

		app := tendril.New(nil, tendril.WithLogger(logger))
		defer app.Close()

		for _, arg := range args {
			var action domain.Action
			switch arg {
			case "inc", "+":
				action = counter.Increment()
			case "dec", "-":
				action = counter.Decrement()
			default:
				return fmt.Errorf("unknown counter step %q (want inc or dec)", arg)
			}
			if _, err := app.Dispatch(cmd.Context(), action); err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(out, "%s -> %d\n", action.Type, app.GetState().Counter)
			}
		}
		fmt.Fprintln(out, app.GetState().Counter)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(counterCmd)
	counterCmd.Flags().BoolP("verbose", "v", false, "Print the counter after every step")
}
