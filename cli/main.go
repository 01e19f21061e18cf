package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/ankit-chaubey/smplinfo/core"
	"github.com/ankit-chaubey/smplinfo/core/batch"
	"github.com/ankit-chaubey/smplinfo/core/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log.SetFlags(0)
	log.SetPrefix("smplinfo: ")

	flags := config.Flags("smplinfo")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: smplinfo [options] <file-or-directory>...\n\n")
		fmt.Fprintf(os.Stderr, "Shows and edits the root note stored in the smpl chunk of WAV files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  smplinfo -R ./samples\n")
		fmt.Fprintf(os.Stderr, "  smplinfo -n C3 kick.wav\n")
		fmt.Fprintf(os.Stderr, "  smplinfo -f -r 'piano_%%m_%%n' -d ./piano\n")
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		log.Print(err)
		return 2
	}

	printer := core.NewPrinter(cfg.JSON, cfg.Verbose)
	if cfg.File != "" && cfg.Verbose {
		printer.PrintInfo("using config " + cfg.File)
	}

	p := batch.New(afero.NewOsFs(), cfg.Edit)
	total := 0
	err = p.Run(flags.Args(), func(r *core.Result) {
		total++
		printer.PrintResult(r)
	})
	if err != nil {
		failed := len(multierr.Errors(err))
		printer.PrintInfo(fmt.Sprintf("%d of %d files failed", failed, total))
		return 1
	}
	if cfg.Edit.DryRun {
		printer.PrintInfo("dry run, no files were changed")
	} else if total > 0 {
		printer.PrintSuccess(fmt.Sprintf("%d files processed", total))
	}
	return 0
}
