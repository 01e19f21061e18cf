package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ankit-chaubey/smplinfo/core/midi"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON    bool
	Verbose bool
	Writer  io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode, verbose bool) *Printer {
	return &Printer{JSON: jsonMode, Verbose: verbose, Writer: os.Stdout}
}

// PrintResult renders one batch result. In JSON mode each result is a
// single line so output can be streamed.
func (p *Printer) PrintResult(r *Result) {
	if p.JSON {
		p.printJSON(r)
		return
	}
	p.printText(r)
}

func (p *Printer) printText(r *Result) {
	if r.Err != nil {
		PrintError(r.Err.Error())
		return
	}

	note := "-"
	if n := r.OldNote; n != nil {
		note = fmt.Sprintf("%s (%d)", n, *n)
	}
	fmt.Fprintf(p.Writer, "%-40s %s\n", r.Path, note)

	prefix := "  "
	if r.DryRun {
		prefix = "  [dry-run] "
	}
	if r.Updated {
		fmt.Fprintf(p.Writer, "%snote: %s -> %s (%s)\n", prefix, noteText(r.OldNote), noteText(r.NewNote), r.Source)
	}
	if r.Renamed {
		fmt.Fprintf(p.Writer, "%srename: %s -> %s\n", prefix, filepath.Base(r.Path), filepath.Base(r.NewPath))
	}

	if !p.Verbose {
		return
	}
	for _, n := range r.Notes {
		fmt.Fprintf(p.Writer, "  %s\n", n)
	}
	if r.Tags != nil {
		for _, f := range r.Tags.Fields {
			fmt.Fprintf(p.Writer, "  %-14s %s [%s]\n", f.Key+":", f.Value, f.Category)
		}
	}
}

func noteText(n *midi.Note) string {
	if n == nil {
		return "none"
	}
	return n.String()
}

func (p *Printer) printJSON(r *Result) {
	type jsonOutput struct {
		*Result
		Error string `json:"error,omitempty"`
	}

	out := jsonOutput{Result: r}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	if !p.Verbose {
		copied := *r
		copied.Tags = nil
		copied.Notes = nil
		out.Result = &copied
	}

	b, _ := json.Marshal(out)
	fmt.Fprintln(p.Writer, string(b))
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, "✓ "+msg)
	}
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}
