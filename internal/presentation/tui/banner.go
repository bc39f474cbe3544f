package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _              _      _ _ ", "#34d399"},
	{" | |_ ___ _ _  _| |_ _ (_) |", "#2dd4bf"},
	{" |  _/ -_) ' \\/ _` | '_|| | |", "#22d3ee"},
	{"  \\__\\___|_||_\\__,_|_|  |_|_|", "#38bdf8"},
}

// PrintBanner writes the tendril banner and version to w.
// Colors degrade to the profile detected for w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	printBanner(out, version)
}

func printBanner(out *termenv.Output, version string) {
	fmt.Fprintln(out)
	for _, l := range bannerLines {
		fmt.Fprintln(out, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(out, out.String("  v"+version).Faint())
	fmt.Fprintln(out)
}
