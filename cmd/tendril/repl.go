package main

import (
	"os"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Dispatch actions typed on stdin",
	Long: `Reads one action per line, either a JSON envelope such as
{"type":"posts/postAdded","payload":{...}} or a bare type such as INCREMENT,
and prints which top-level keys changed. "state" prints the tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")

		app := cli.NewApp(cfg, logger, nil)
		defer app.Close()

		r := tendril.NewRunner()
		r.Input = cmd.InOrStdin()
		r.Output = cmd.OutOrStdout()
		r.Headless = headless
		if !headless {
			tui.PrintBanner(os.Stderr, tendril.Version)
			if render, err := tui.NewRenderer(""); err == nil {
				r.Renderer = tendril.ContentRenderer(render)
			}
		}

		ctx, stop := cli.NotifyContext(cmd.Context())
		defer stop()
		return cli.HandleExecutionError(r.Run(ctx, app))
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	replCmd.Flags().Bool("headless", false, "No prompts, banner or styling")
}
