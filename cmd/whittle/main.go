package main

import (
	"os"

	"github.com/alexanderramin/whittle/internal/cli"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		cli.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Markdown, the spinner and the huh prompt need a terminal on both ends.
	app := cli.NewApp(func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	})
	return cli.NewRootCmd(app).Execute()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
