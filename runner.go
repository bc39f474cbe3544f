package tendril

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
)

// Runner is a line-oriented console over an App.
//
// Each input line is either a JSON action envelope or a bare action type
// (for example INCREMENT). After every dispatch the changed top-level keys are
// printed. "state" prints the whole tree; "exit" or "quit" ends the loop.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms text before it is written, e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads and dispatches lines until EOF, exit, or a read error.
// Dispatch errors are printed and do not stop the loop.
func (r *Runner) Run(ctx context.Context, app *App) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	if !r.Headless {
		fmt.Fprintln(writer, "--- tendril console ---")
	}

	for {
		if !r.Headless {
			fmt.Fprint(writer, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		eof := err != nil

		input := strings.TrimSpace(text)
		switch {
		case input == "":
		case input == "exit" || input == "quit":
			if !r.Headless {
				fmt.Fprintln(writer, "Bye!")
			}
			return nil
		case input == "state":
			r.printState(writer, app.GetState())
		default:
			r.dispatchLine(ctx, writer, app, input)
		}

		if eof {
			return nil
		}
	}
}

func (r *Runner) dispatchLine(ctx context.Context, w io.Writer, app *App, line string) {
	action, err := parseLine(app, line)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	prev := app.GetState()
	if _, err := app.Dispatch(ctx, action); err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}

	keys := domain.Diff(prev, app.GetState()).Keys()
	if len(keys) == 0 {
		fmt.Fprintf(w, "%s: no change\n", action.Type)
		return
	}
	fmt.Fprintf(w, "%s: changed %s\n", action.Type, strings.Join(keys, ", "))
}

func (r *Runner) printState(w io.Writer, s State) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	out := string(data)
	if r.Renderer != nil {
		if rendered, err := r.Renderer("```json\n" + out + "\n```"); err == nil {
			out = rendered
		}
	}
	fmt.Fprintln(w, strings.TrimSpace(out))
}

func parseLine(app *App, line string) (domain.Action, error) {
	if strings.HasPrefix(line, "{") {
		return app.Registry().Decode([]byte(line))
	}
	a := domain.Action{Type: strings.Fields(line)[0]}
	return a, a.Validate()
}
