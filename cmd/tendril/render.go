package main

import (
	"fmt"
	"io"

	"github.com/aretw0/tendril/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// printMarkdown renders md with glamour unless --plain is set.
func printMarkdown(cmd *cobra.Command, md string) error {
	render := tui.Renderer(tui.Plain)
	if plain, _ := cmd.Flags().GetBool("plain"); !plain {
		r, err := tui.NewRenderer("")
		if err != nil {
			return err
		}
		render = r
	}

	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func addPlainFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("plain", false, "Print raw markdown instead of styled output")
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
